package core

import (
	"estatecore/internal/notify"
	"estatecore/pkg/domain"
)

// listingContext bundles the entities most side effects are phrased around.
type listingContext struct {
	listing  Listing
	property Property
	agent    User
}

// resolveListingContext loads a listing with its property and agent from the
// transaction view, returning NotFound for any missing reference.
func resolveListingContext(view domain.TransactionView, listingID string) (listingContext, error) {
	listing, ok := view.FindListing(listingID)
	if !ok {
		return listingContext{}, domain.NotFoundError{Entity: domain.EntityListing, ID: listingID}
	}
	property, ok := view.FindProperty(listing.PropertyID)
	if !ok {
		return listingContext{}, domain.NotFoundError{Entity: domain.EntityProperty, ID: listing.PropertyID}
	}
	agent, ok := view.FindUser(listing.AgentID)
	if !ok {
		return listingContext{}, domain.NotFoundError{Entity: domain.EntityUser, ID: listing.AgentID}
	}
	return listingContext{listing: listing, property: property, agent: agent}, nil
}

func resolveClient(view domain.TransactionView, clientID string) (Client, error) {
	client, ok := view.FindClient(clientID)
	if !ok {
		return Client{}, domain.NotFoundError{Entity: domain.EntityClient, ID: clientID}
	}
	return client, nil
}

// agentEvent builds an in-app notification addressed to the listing's agent.
func agentEvent(lc listingContext, kind notify.Kind, title, message string, entityType EntityType, entityID, actionURL string) notify.Event {
	return notify.Event{
		TargetUserID: lc.agent.ID,
		Kind:         kind,
		Title:        title,
		Message:      message,
		Module:       notify.Module,
		EntityType:   string(entityType),
		EntityID:     entityID,
		ActionURL:    actionURL,
		SendEmail:    true,
	}
}

// managerEvent builds a role-addressed notification expanded at dispatch time.
func managerEvent(kind notify.Kind, title, message string, entityType EntityType, entityID, actionURL string) notify.Event {
	return notify.Event{
		Role:       notify.RoleManager,
		Kind:       kind,
		Title:      title,
		Message:    message,
		Module:     notify.Module,
		EntityType: string(entityType),
		EntityID:   entityID,
		ActionURL:  actionURL,
		SendEmail:  true,
	}
}

// clientEmailEvent wraps a direct client email as a dispatchable event.
func clientEmailEvent(client Client, subject, template string, entityType EntityType, entityID string, data map[string]string) notify.Event {
	if client.Email == "" {
		return notify.Event{}
	}
	return notify.Event{
		Kind:       notify.KindInfo,
		Module:     notify.Module,
		EntityType: string(entityType),
		EntityID:   entityID,
		ClientEmail: &notify.Email{
			To:       client.Email,
			Subject:  subject,
			Template: template,
			Data:     data,
		},
	}
}

// appendEvent adds an event to the pending batch unless it is empty.
func appendEvent(events *[]notify.Event, event notify.Event) {
	if event.TargetUserID == "" && event.Role == "" && event.ClientEmail == nil {
		return
	}
	*events = append(*events, event)
}
