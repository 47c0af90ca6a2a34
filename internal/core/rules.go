package core

import "estatecore/pkg/domain"

// DefaultRules returns the invariant rules evaluated at every commit.
func DefaultRules() []domain.Rule {
	return []domain.Rule{
		NewSingleActiveListingRule(),
		NewShowingOverlapRule(),
		NewTransactionPerOfferRule(),
		NewReferenceIntegrityRule(),
		NewClientEmailRule(),
	}
}

// NewDefaultRulesEngine constructs a rules engine with the default rules
// registered.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	for _, rule := range DefaultRules() {
		engine.Register(rule)
	}
	return engine
}
