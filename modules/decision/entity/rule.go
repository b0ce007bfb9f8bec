package entity

import (
	"encoding/json"
	"fmt"
)

// RuleType discriminates the attendance rule variants on the wire.
type RuleType string

const (
	RuleTypeAny           RuleType = "ANY"
	RuleTypeAll           RuleType = "ALL"
	RuleTypeKOfN          RuleType = "K_OF_N"
	RuleTypeRequiredPlusK RuleType = "REQUIRED_PLUS_K"
	RuleTypeGroupAny      RuleType = "GROUP_ANY"
)

// RuleDocVersion is the current wire version for stored rule documents.
// Documents without a version field are treated as version 1.
const RuleDocVersion = 1

// AttendanceRule is the tagged union of attendance rule variants. Each
// variant carries only the fields it needs; participant references are
// opaque keys.
type AttendanceRule interface {
	Type() RuleType
}

// AnyRule finalizes on the first chronological slot with at least one
// selection.
type AnyRule struct{}

func (AnyRule) Type() RuleType { return RuleTypeAny }

// AllRule finalizes only when a slot's selecting set equals exactly its
// participant set: no extra, no missing.
type AllRule struct {
	Participants []string
}

func (AllRule) Type() RuleType { return RuleTypeAll }

// KOfNRule finalizes on the first chronological slot with at least K
// selections from its participant pool.
type KOfNRule struct {
	Participants []string
	K            int
}

func (KOfNRule) Type() RuleType { return RuleTypeKOfN }

// RequiredPlusKRule finalizes when every required participant selected a
// slot and at least Quorum distinct optional participants joined them.
type RequiredPlusKRule struct {
	Required []string
	Optional []string
	Quorum   int
}

func (RequiredPlusKRule) Type() RuleType { return RuleTypeRequiredPlusK }

// RuleGroup is one group in a GROUP_ANY rule. Members may be inlined or
// hydrated from a stored roster group by ID.
type RuleGroup struct {
	ID      string   `json:"id"`
	Members []string `json:"members"`
}

// GroupAnyRule finalizes as soon as any member of any group selected a slot:
// first group match, first chronological slot.
type GroupAnyRule struct {
	Groups []RuleGroup
}

func (GroupAnyRule) Type() RuleType { return RuleTypeGroupAny }

// ruleDoc is the versioned wire form. The type discriminator plus explicit
// version keep older stored rules interpretable as the variant set evolves.
type ruleDoc struct {
	Version      int         `json:"version"`
	Type         RuleType    `json:"type"`
	Participants []string    `json:"participants,omitempty"`
	K            int         `json:"k,omitempty"`
	Required     []string    `json:"required,omitempty"`
	Optional     []string    `json:"optional,omitempty"`
	Quorum       int         `json:"quorum,omitempty"`
	Groups       []RuleGroup `json:"groups,omitempty"`
}

// MarshalRule encodes a rule into its versioned wire form.
func MarshalRule(rule AttendanceRule) ([]byte, error) {
	doc := ruleDoc{Version: RuleDocVersion, Type: rule.Type()}
	switch r := rule.(type) {
	case AnyRule:
	case AllRule:
		doc.Participants = r.Participants
	case KOfNRule:
		doc.Participants = r.Participants
		doc.K = r.K
	case RequiredPlusKRule:
		doc.Required = r.Required
		doc.Optional = r.Optional
		doc.Quorum = r.Quorum
	case GroupAnyRule:
		doc.Groups = r.Groups
	default:
		return nil, fmt.Errorf("unknown rule type %T", rule)
	}
	return json.Marshal(doc)
}

// UnmarshalRule decodes a versioned rule document, dispatching on its type
// discriminator. Unknown types and future versions are rejected.
func UnmarshalRule(data []byte) (AttendanceRule, error) {
	var doc ruleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed rule document: %w", err)
	}
	if doc.Version == 0 {
		// Legacy documents predate the version field.
		doc.Version = 1
	}
	if doc.Version > RuleDocVersion {
		return nil, fmt.Errorf("unsupported rule document version %d", doc.Version)
	}

	switch doc.Type {
	case RuleTypeAny:
		return AnyRule{}, nil
	case RuleTypeAll:
		if len(doc.Participants) == 0 {
			return nil, fmt.Errorf("ALL rule requires participants")
		}
		return AllRule{Participants: doc.Participants}, nil
	case RuleTypeKOfN:
		if len(doc.Participants) == 0 {
			return nil, fmt.Errorf("K_OF_N rule requires participants")
		}
		if doc.K < 1 || doc.K > len(doc.Participants) {
			return nil, fmt.Errorf("K_OF_N rule has invalid k=%d for %d participants", doc.K, len(doc.Participants))
		}
		return KOfNRule{Participants: doc.Participants, K: doc.K}, nil
	case RuleTypeRequiredPlusK:
		if len(doc.Required) == 0 {
			return nil, fmt.Errorf("REQUIRED_PLUS_K rule requires required participants")
		}
		if doc.Quorum < 0 || doc.Quorum > len(doc.Optional) {
			return nil, fmt.Errorf("REQUIRED_PLUS_K rule has invalid quorum=%d for %d optionals", doc.Quorum, len(doc.Optional))
		}
		return RequiredPlusKRule{Required: doc.Required, Optional: doc.Optional, Quorum: doc.Quorum}, nil
	case RuleTypeGroupAny:
		if len(doc.Groups) == 0 {
			return nil, fmt.Errorf("GROUP_ANY rule requires groups")
		}
		return GroupAnyRule{Groups: doc.Groups}, nil
	default:
		return nil, fmt.Errorf("unknown rule type %q", doc.Type)
	}
}
