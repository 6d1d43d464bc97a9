package types

import "errors"

// IntentCategory classifies the purpose of a query
type IntentCategory string

const (
	IntentDocLookup    IntentCategory = "doc_lookup"
	IntentCodeLocation IntentCategory = "code_location"
	IntentModuleHealth IntentCategory = "module_health"
	IntentResearch     IntentCategory = "research"
	IntentGeneral      IntentCategory = "general"
)

// Intent is the classification result for one query.
// Exactly one category per query; GENERAL is the fallback.
type Intent struct {
	Category   IntentCategory
	Confidence float64 // [0, 1]
}

// ValidateCategory checks if the intent category is valid
func (i *Intent) ValidateCategory() error {
	switch i.Category {
	case IntentDocLookup, IntentCodeLocation, IntentModuleHealth, IntentResearch, IntentGeneral:
		return nil
	default:
		return errors.New("invalid intent category")
	}
}

// Validate performs comprehensive validation of the intent
func (i *Intent) Validate() error {
	if err := i.ValidateCategory(); err != nil {
		return err
	}
	if i.Confidence < 0 || i.Confidence > 1 {
		return errors.New("confidence must be between 0 and 1")
	}
	return nil
}
