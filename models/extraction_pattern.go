package models

import "regexp"

// RuleKind distinguishes label-prefixed rules from vocabulary heuristics
type RuleKind string

const (
	RuleStructured   RuleKind = "structured"
	RuleUnstructured RuleKind = "unstructured"
)

// ExtractionPattern pairs a field with the rule used to find it
// FindAll rules collect every occurrence instead of the first one
type ExtractionPattern struct {
	Field   string
	Kind    RuleKind
	Pattern *regexp.Regexp
	FindAll bool
}
