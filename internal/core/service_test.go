package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"estatecore/internal/notify"
	"estatecore/pkg/domain"
)

type recordingSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingSink) Enqueue(event notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) all() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Event, len(r.events))
	copy(out, r.events)
	return out
}

func seedAgent(t *testing.T, s *Service) User {
	t.Helper()
	agent, _, err := s.CreateUser(context.Background(), User{
		FirstName: "Dana",
		LastName:  "Reyes",
		Email:     "dana@example.com",
		Roles:     []string{"agent"},
		Active:    true,
	})
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return agent
}

func seedProperty(t *testing.T, s *Service) Property {
	t.Helper()
	property, _, err := s.CreateProperty(context.Background(), Property{
		Address:      "12 Birch Lane",
		City:         "Portland",
		State:        "OR",
		Zip:          "97201",
		Type:         "single_family",
		Bedrooms:     3,
		Bathrooms:    2,
		ListingPrice: 400000,
	})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return property
}

func seedListing(t *testing.T, s *Service, propertyID, agentID string) Listing {
	t.Helper()
	listing, _, err := s.CreateListing(context.Background(), Listing{
		PropertyID: propertyID,
		AgentID:    agentID,
		ListPrice:  400000,
		StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return listing
}

func seedClient(t *testing.T, s *Service, email string) Client {
	t.Helper()
	client, _, err := s.CreateClient(context.Background(), Client{
		FirstName: "Avery",
		LastName:  "Lin",
		Email:     email,
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func seedAcceptedOffer(t *testing.T, s *Service, listingID, clientID string) Offer {
	t.Helper()
	ctx := context.Background()
	offer, _, err := s.CreateOffer(ctx, Offer{
		ListingID:  listingID,
		ClientID:   clientID,
		OfferPrice: 350000,
		OfferDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	accepted := offer
	accepted.Status = domain.OfferAccepted
	offer, _, err = s.UpdateOffer(ctx, offer.ID, accepted)
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}
	return offer
}

func TestCreateListingEnforcesSingleActive(t *testing.T) {
	s := NewInMemoryService()
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	seedListing(t, s, property.ID, agent.ID)

	_, _, err := s.CreateListing(context.Background(), Listing{
		PropertyID: property.ID,
		AgentID:    agent.ID,
		ListPrice:  410000,
		StartDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestListingCreationMarksPropertyAvailable(t *testing.T) {
	s := NewInMemoryService()
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	ctx := context.Background()

	if _, _, err := s.UpdateProperty(ctx, property.ID, func(p *Property) error {
		p.Status = domain.PropertyInactive
		return nil
	}); err != nil {
		t.Fatalf("set inactive: %v", err)
	}

	seedListing(t, s, property.ID, agent.ID)

	got, err := s.GetProperty(ctx, property.ID)
	if err != nil {
		t.Fatalf("get property: %v", err)
	}
	if got.Status != domain.PropertyAvailable {
		t.Fatalf("property status = %s, want %s", got.Status, domain.PropertyAvailable)
	}
}

func TestShowingSchedulingConflict(t *testing.T) {
	s := NewInMemoryService()
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	listing := seedListing(t, s, property.ID, agent.ID)
	client := seedClient(t, s, "avery@example.com")
	ctx := context.Background()

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	_, _, err := s.CreateShowing(ctx, Showing{
		ListingID: listing.ID,
		ClientID:  client.ID,
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(11 * time.Hour),
	})
	if err != nil {
		t.Fatalf("first showing: %v", err)
	}

	_, _, err = s.CreateShowing(ctx, Showing{
		ListingID: listing.ID,
		ClientID:  client.ID,
		StartTime: day.Add(10*time.Hour + 30*time.Minute),
		EndTime:   day.Add(11*time.Hour + 30*time.Minute),
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for overlapping window, got %v", err)
	}

	// Back-to-back windows share an endpoint and do not overlap.
	_, _, err = s.CreateShowing(ctx, Showing{
		ListingID: listing.ID,
		ClientID:  client.ID,
		StartTime: day.Add(11 * time.Hour),
		EndTime:   day.Add(12 * time.Hour),
	})
	if err != nil {
		t.Fatalf("adjacent showing: %v", err)
	}
}

func TestOfferRequiresActiveListing(t *testing.T) {
	s := NewInMemoryService()
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	listing := seedListing(t, s, property.ID, agent.ID)
	client := seedClient(t, s, "avery@example.com")
	ctx := context.Background()

	cancelled := listing
	cancelled.Status = domain.ListingCancelled
	if _, _, err := s.UpdateListing(ctx, listing.ID, cancelled); err != nil {
		t.Fatalf("cancel listing: %v", err)
	}

	_, _, err := s.CreateOffer(ctx, Offer{
		ListingID:  listing.ID,
		ClientID:   client.ID,
		OfferPrice: 350000,
		OfferDate:  time.Now(),
	})
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestOfferAcceptanceMovesListingPending(t *testing.T) {
	s := NewInMemoryService()
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	listing := seedListing(t, s, property.ID, agent.ID)
	client := seedClient(t, s, "avery@example.com")

	seedAcceptedOffer(t, s, listing.ID, client.ID)

	got, err := s.GetListing(context.Background(), listing.ID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if got.Status != domain.ListingPending {
		t.Fatalf("listing status = %s, want %s", got.Status, domain.ListingPending)
	}
}

func TestTransactionLifecycleCascades(t *testing.T) {
	s := NewInMemoryService()
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	listing := seedListing(t, s, property.ID, agent.ID)
	client := seedClient(t, s, "avery@example.com")
	offer := seedAcceptedOffer(t, s, listing.ID, client.ID)
	ctx := context.Background()

	txn, _, err := s.CreateTransaction(ctx, SaleTransaction{
		OfferID:          offer.ID,
		ClosingDate:      time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
		CommissionAmount: 10500,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	gotListing, _ := s.GetListing(ctx, listing.ID)
	if gotListing.Status != domain.ListingSold {
		t.Fatalf("listing status = %s, want %s", gotListing.Status, domain.ListingSold)
	}
	gotProperty, _ := s.GetProperty(ctx, property.ID)
	if gotProperty.Status != domain.PropertySold {
		t.Fatalf("property status = %s, want %s", gotProperty.Status, domain.PropertySold)
	}
	if gotProperty.SalePrice == nil || *gotProperty.SalePrice != 350000 {
		t.Fatalf("sale price = %v, want 350000", gotProperty.SalePrice)
	}

	if _, err := s.DeleteTransaction(ctx, txn.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}

	gotListing, _ = s.GetListing(ctx, listing.ID)
	if gotListing.Status != domain.ListingActive {
		t.Fatalf("listing status after delete = %s, want %s", gotListing.Status, domain.ListingActive)
	}
	gotProperty, _ = s.GetProperty(ctx, property.ID)
	if gotProperty.Status != domain.PropertyAvailable {
		t.Fatalf("property status after delete = %s, want %s", gotProperty.Status, domain.PropertyAvailable)
	}
	if gotProperty.SalePrice != nil {
		t.Fatalf("sale price after delete = %v, want nil", *gotProperty.SalePrice)
	}
}

func TestTransactionRequiresAcceptedOffer(t *testing.T) {
	s := NewInMemoryService()
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	listing := seedListing(t, s, property.ID, agent.ID)
	client := seedClient(t, s, "avery@example.com")
	ctx := context.Background()

	offer, _, err := s.CreateOffer(ctx, Offer{
		ListingID:  listing.ID,
		ClientID:   client.ID,
		OfferPrice: 350000,
		OfferDate:  time.Now(),
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	_, _, err = s.CreateTransaction(ctx, SaleTransaction{
		OfferID:     offer.ID,
		ClosingDate: time.Now().AddDate(0, 1, 0),
	})
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected invalid state for pending offer, got %v", err)
	}
}

func TestTransactionPerOfferUnique(t *testing.T) {
	s := NewInMemoryService()
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	listing := seedListing(t, s, property.ID, agent.ID)
	client := seedClient(t, s, "avery@example.com")
	offer := seedAcceptedOffer(t, s, listing.ID, client.ID)
	ctx := context.Background()

	if _, _, err := s.CreateTransaction(ctx, SaleTransaction{
		OfferID:     offer.ID,
		ClosingDate: time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("first transaction: %v", err)
	}

	_, _, err := s.CreateTransaction(ctx, SaleTransaction{
		OfferID:     offer.ID,
		ClosingDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for second transaction, got %v", err)
	}
}

func TestDeletePropertyGuardedByActiveListing(t *testing.T) {
	s := NewInMemoryService()
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	listing := seedListing(t, s, property.ID, agent.ID)
	ctx := context.Background()

	if _, err := s.DeleteProperty(ctx, property.ID); !domain.IsConflict(err) {
		t.Fatalf("expected conflict while listing active, got %v", err)
	}

	cancelled := listing
	cancelled.Status = domain.ListingCancelled
	if _, _, err := s.UpdateListing(ctx, listing.ID, cancelled); err != nil {
		t.Fatalf("cancel listing: %v", err)
	}
	if _, err := s.DeleteProperty(ctx, property.ID); err != nil {
		t.Fatalf("delete after cancel: %v", err)
	}
	if _, err := s.GetProperty(ctx, property.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestDeleteOfferGuardedByTransaction(t *testing.T) {
	s := NewInMemoryService()
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	listing := seedListing(t, s, property.ID, agent.ID)
	client := seedClient(t, s, "avery@example.com")
	offer := seedAcceptedOffer(t, s, listing.ID, client.ID)
	ctx := context.Background()

	if _, _, err := s.CreateTransaction(ctx, SaleTransaction{
		OfferID:     offer.ID,
		ClosingDate: time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if _, err := s.DeleteOffer(ctx, offer.ID); !domain.IsConflict(err) {
		t.Fatalf("expected conflict deleting offer with transaction, got %v", err)
	}
}

func TestClientEmailUniqueness(t *testing.T) {
	s := NewInMemoryService()
	seedClient(t, s, "dup@example.com")

	_, _, err := s.CreateClient(context.Background(), Client{
		FirstName: "Sam",
		LastName:  "Ortiz",
		Email:     "  DUP@example.com ",
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestEventsDispatchOnlyAfterCommit(t *testing.T) {
	sink := &recordingSink{}
	s := NewInMemoryService(WithEventSink(sink))
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	listing := seedListing(t, s, property.ID, agent.ID)
	client := seedClient(t, s, "avery@example.com")
	ctx := context.Background()

	before := len(sink.all())
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if _, _, err := s.CreateShowing(ctx, Showing{
		ListingID: listing.ID,
		ClientID:  client.ID,
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(11 * time.Hour),
	}); err != nil {
		t.Fatalf("create showing: %v", err)
	}

	events := sink.all()[before:]
	if len(events) == 0 {
		t.Fatal("expected events after successful commit")
	}
	var sawAgent, sawEmail bool
	for _, ev := range events {
		if ev.TargetUserID == agent.ID {
			sawAgent = true
		}
		if ev.ClientEmail != nil && ev.ClientEmail.To == client.Email {
			sawEmail = true
		}
	}
	if !sawAgent || !sawEmail {
		t.Fatalf("missing expected recipients: agent=%v email=%v", sawAgent, sawEmail)
	}

	// A rejected write must not leak events.
	before = len(sink.all())
	if _, _, err := s.CreateShowing(ctx, Showing{
		ListingID: listing.ID,
		ClientID:  client.ID,
		StartTime: day.Add(10*time.Hour + 15*time.Minute),
		EndTime:   day.Add(10*time.Hour + 45*time.Minute),
	}); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := len(sink.all()) - before; got != 0 {
		t.Fatalf("events leaked from failed commit: %d", got)
	}
}

func TestCancelledContextMapsToTimeout(t *testing.T) {
	s := NewInMemoryService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.CreateProperty(ctx, Property{Address: "1 Elm St"})
	if !domain.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestStats(t *testing.T) {
	s := NewInMemoryService()
	agent := seedAgent(t, s)
	property := seedProperty(t, s)
	listing := seedListing(t, s, property.ID, agent.ID)
	client := seedClient(t, s, "avery@example.com")
	ctx := context.Background()

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if _, _, err := s.CreateShowing(ctx, Showing{
		ListingID: listing.ID,
		ClientID:  client.ID,
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(11 * time.Hour),
	}); err != nil {
		t.Fatalf("create showing: %v", err)
	}
	offer := seedAcceptedOffer(t, s, listing.ID, client.ID)
	if _, _, err := s.CreateTransaction(ctx, SaleTransaction{
		OfferID:          offer.ID,
		ClosingDate:      day.AddDate(0, 1, 0),
		CommissionAmount: 10500,
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProperties != 1 {
		t.Fatalf("total properties = %d", stats.TotalProperties)
	}
	if stats.ActiveListings != 0 {
		t.Fatalf("active listings = %d, want 0 after sale", stats.ActiveListings)
	}
	if stats.ScheduledShowings != 1 {
		t.Fatalf("scheduled showings = %d", stats.ScheduledShowings)
	}
	if stats.TotalTransactions != 1 {
		t.Fatalf("transactions = %d", stats.TotalTransactions)
	}
	if stats.TotalCommission != 10500 {
		t.Fatalf("commission = %v", stats.TotalCommission)
	}
}
