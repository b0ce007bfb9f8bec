package dto

// CreateGroupRequest defines a named participant group.
type CreateGroupRequest struct {
	Name       string   `json:"name"`
	MemberKeys []string `json:"member_keys"`
}

// UpdateMembersRequest replaces a group's member list.
type UpdateMembersRequest struct {
	MemberKeys []string `json:"member_keys"`
}
