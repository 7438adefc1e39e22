package models

import (
	"encoding/json"
	"fmt"
)

// Requisite relations and severities as stored in the catalog.
const (
	RelationPrerequisite = "prerequisite"
	RelationCorequisite  = "corequisite"

	SeverityRequired = "R"
	SeverityWarning  = "W"
)

// RequisiteLeaf names a single required course inside a requisite tree. The
// Course field is the human-readable "<Department> <number>" form and must be
// resolved against the subject table before use.
type RequisiteLeaf struct {
	Course   string `json:"course"`
	Relation string `json:"relation"`
	MinGrade string `json:"min_grade"`
	Severity string `json:"severity"`
}

// RequisiteNode is the tagged requisite tree variant: exactly one of All
// (conjunction), Any (disjunction), or Leaf is set.
type RequisiteNode struct {
	All  []RequisiteNode
	Any  []RequisiteNode
	Leaf *RequisiteLeaf
}

// UnmarshalJSON enforces the tag set at the ingestion boundary: a node is an
// object carrying exactly one of "and", "or", or "course".
func (n *RequisiteNode) UnmarshalJSON(data []byte) error {
	var probe struct {
		And    []json.RawMessage `json:"and"`
		Or     []json.RawMessage `json:"or"`
		Course *string           `json:"course"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("requisite node: %w", err)
	}

	switch {
	case probe.And != nil:
		n.All = make([]RequisiteNode, len(probe.And))
		for i, raw := range probe.And {
			if err := json.Unmarshal(raw, &n.All[i]); err != nil {
				return err
			}
		}
	case probe.Or != nil:
		n.Any = make([]RequisiteNode, len(probe.Or))
		for i, raw := range probe.Or {
			if err := json.Unmarshal(raw, &n.Any[i]); err != nil {
				return err
			}
		}
	case probe.Course != nil:
		var leaf RequisiteLeaf
		if err := json.Unmarshal(data, &leaf); err != nil {
			return fmt.Errorf("requisite leaf: %w", err)
		}
		if leaf.Relation == "" {
			leaf.Relation = RelationPrerequisite
		}
		if leaf.MinGrade == "" {
			leaf.MinGrade = PassingGrade
		}
		if leaf.Severity == "" {
			leaf.Severity = SeverityRequired
		}
		n.Leaf = &leaf
	default:
		return fmt.Errorf("requisite node is neither and/or/course: %s", string(data))
	}
	return nil
}

// ParseRequisites decodes a raw catalog requisite document. Empty documents
// yield a nil tree, meaning no requisites.
func ParseRequisites(raw json.RawMessage) (*RequisiteNode, error) {
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" {
		return nil, nil
	}
	var node RequisiteNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// CourseRequirement is a requisite leaf after department resolution: Course
// is the canonical "<SUBJ>|<NUM>" key.
type CourseRequirement struct {
	Course   string
	Relation string
	MinGrade string
	Severity string
}

// Enforced reports whether the requirement constrains placement given the
// warning policy: required-severity rules always do, warning-severity rules
// only when warnings are disallowed.
func (r CourseRequirement) Enforced(allowWarnings bool) bool {
	if r.Relation != RelationPrerequisite && r.Relation != RelationCorequisite {
		return false
	}
	return r.Severity == SeverityRequired || (r.Severity == SeverityWarning && !allowWarnings)
}
