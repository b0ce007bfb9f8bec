package params

// QueryParams carries common list-endpoint paging parameters.
type QueryParams struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

func (p QueryParams) Normalized() QueryParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
	return p
}

func (p QueryParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
