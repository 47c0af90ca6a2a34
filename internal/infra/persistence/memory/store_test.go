package memory

import (
	"context"
	"testing"
	"time"

	"estatecore/pkg/domain"
)

func TestStoreRunInTransactionAndSnapshots(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, ok := tx.Snapshot().FindProperty("missing"); ok {
			t.Fatalf("expected missing property lookup")
		}
		created, err := tx.CreateProperty(domain.Property{Address: "12 Elm St", City: "Springfield", State: "IL", Zip: "62701"})
		if err != nil {
			return err
		}
		if created.ID == "" {
			t.Fatalf("expected generated ID")
		}
		if created.Status != domain.PropertyAvailable {
			t.Fatalf("expected default Available status, got %s", created.Status)
		}
		view := tx.Snapshot()
		if len(view.ListProperties()) != 1 {
			t.Fatalf("snapshot mismatch")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run transaction: %v", err)
	}
	if len(store.ListProperties()) != 1 {
		t.Fatalf("expected persisted property")
	}
	snapshot := store.ExportState()
	store.ImportState(Snapshot{})
	if len(store.ListProperties()) != 0 {
		t.Fatalf("expected cleared state")
	}
	store.ImportState(snapshot)
	if len(store.ListProperties()) != 1 {
		t.Fatalf("expected restored state")
	}
	if store.RulesEngine() == nil {
		t.Fatalf("expected rules engine")
	}
	if store.NowFunc() == nil {
		t.Fatalf("expected now func")
	}
}

func TestStoreRollbackOnError(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.CreateListing(domain.Listing{PropertyID: "p1", AgentID: "a1", ListPrice: 100}); err != nil {
			return err
		}
		return domain.ConflictError{Entity: domain.EntityListing, Reason: "boom"}
	}); err == nil {
		t.Fatalf("expected transaction error")
	}
	if len(store.ListListings()) != 0 {
		t.Fatalf("expected no listings after rollback")
	}
}

func TestStoreRuleViolation(t *testing.T) {
	store := NewStore(domain.NewRulesEngine())
	store.RulesEngine().Register(blockingRule{})
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, e := tx.CreateClient(domain.Client{FirstName: "Fail", LastName: "Case"})
		return e
	})
	if err == nil {
		t.Fatalf("expected rule violation error")
	}
	if len(store.ListClients()) != 0 {
		t.Fatalf("expected blocked state swap")
	}
}

type blockingRule struct{}

func (blockingRule) Name() string { return "block" }

func (blockingRule) Evaluate(ctx context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	res.Merge(domain.Result{Violations: []domain.Violation{{Rule: "block", Severity: domain.SeverityBlock}}})
	return res, nil
}

func TestUpdateMissingEntities(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.UpdateProperty("missing", func(*domain.Property) error { return nil }); !domain.IsNotFound(err) {
			t.Fatalf("expected missing property error, got %v", err)
		}
		if _, err := tx.UpdateListing("missing", func(*domain.Listing) error { return nil }); !domain.IsNotFound(err) {
			t.Fatalf("expected missing listing error, got %v", err)
		}
		if _, err := tx.UpdateShowing("missing", func(*domain.Showing) error { return nil }); !domain.IsNotFound(err) {
			t.Fatalf("expected missing showing error, got %v", err)
		}
		if _, err := tx.UpdateOffer("missing", func(*domain.Offer) error { return nil }); !domain.IsNotFound(err) {
			t.Fatalf("expected missing offer error, got %v", err)
		}
		if _, err := tx.UpdateSaleTransaction("missing", func(*domain.SaleTransaction) error { return nil }); !domain.IsNotFound(err) {
			t.Fatalf("expected missing transaction error, got %v", err)
		}
		if err := tx.DeleteClient("missing"); !domain.IsNotFound(err) {
			t.Fatalf("expected missing client delete error, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run transaction: %v", err)
	}
}

func TestUpdatePreservesIdentityFields(t *testing.T) {
	store := NewStore(nil)
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return fixed })

	var created domain.Offer
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateOffer(domain.Offer{ListingID: "l1", ClientID: "c1", OfferPrice: 250000, OfferDate: fixed})
		return err
	}); err != nil {
		t.Fatalf("create offer: %v", err)
	}

	later := fixed.Add(time.Hour)
	store.SetNowFunc(func() time.Time { return later })
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.UpdateOffer(created.ID, func(o *domain.Offer) error {
			o.ID = "tampered"
			o.Status = domain.OfferAccepted
			return nil
		})
		return err
	}); err != nil {
		t.Fatalf("update offer: %v", err)
	}

	got, ok := store.GetOffer(created.ID)
	if !ok {
		t.Fatalf("expected offer retained under original ID")
	}
	if got.Status != domain.OfferAccepted {
		t.Fatalf("expected accepted status, got %s", got.Status)
	}
	if !got.CreatedAt.Equal(fixed) || !got.UpdatedAt.Equal(later) {
		t.Fatalf("unexpected timestamps: %v %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestCloneIsolation(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	price := 310000.0
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.CreateProperty(domain.Property{Address: "9 Oak Ave", SalePrice: &price, Status: domain.PropertySold})
		return err
	}); err != nil {
		t.Fatalf("create property: %v", err)
	}
	props := store.ListProperties()
	if len(props) != 1 || props[0].SalePrice == nil {
		t.Fatalf("expected one property with sale price")
	}
	*props[0].SalePrice = 1
	again, _ := store.GetProperty(props[0].ID)
	if again.SalePrice == nil || *again.SalePrice != 310000.0 {
		t.Fatalf("expected stored sale price untouched, got %v", again.SalePrice)
	}
}

func TestViewContextCancellation(t *testing.T) {
	store := NewStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.View(ctx, func(domain.TransactionView) error { return nil }); err == nil {
		t.Fatalf("expected cancellation error")
	}
	if _, err := store.RunInTransaction(ctx, func(domain.Transaction) error { return nil }); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
