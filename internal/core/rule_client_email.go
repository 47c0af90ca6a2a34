package core

import (
	"context"
	"fmt"
	"strings"

	"estatecore/pkg/domain"
)

// NewClientEmailRule returns the commit-time rule enforcing unique client
// email addresses. Clients without an email are exempt.
func NewClientEmailRule() domain.Rule {
	return clientEmailRule{}
}

type clientEmailRule struct{}

func (clientEmailRule) Name() string { return "client_email_unique" }

func (clientEmailRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	seen := make(map[string]string)
	res := domain.Result{}
	for _, client := range view.ListClients() {
		email := strings.ToLower(strings.TrimSpace(client.Email))
		if email == "" {
			continue
		}
		if firstID, ok := seen[email]; ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "client_email_unique",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("clients %s and %s share email %s", firstID, client.ID, email),
				Entity:   domain.EntityClient,
				EntityID: client.ID,
			})
			continue
		}
		seen[email] = client.ID
	}
	return res, nil
}
