package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassifiers(t *testing.T) {
	notFound := NotFoundError{Entity: EntityListing, ID: "l1"}
	conflict := ConflictError{Entity: EntityProperty, ID: "p1", Reason: "property already has an active listing"}
	invalid := InvalidStateError{Entity: EntityOffer, ID: "o1", Status: "pending", Reason: "cannot create a transaction for a non-accepted offer"}
	timeout := TimeoutError{Op: "create_listing"}

	if !IsNotFound(notFound) || IsNotFound(conflict) {
		t.Fatal("IsNotFound misclassified")
	}
	if !IsConflict(conflict) || IsConflict(invalid) {
		t.Fatal("IsConflict misclassified")
	}
	if !IsInvalidState(invalid) || IsInvalidState(timeout) {
		t.Fatal("IsInvalidState misclassified")
	}
	if !IsTimeout(timeout) || IsTimeout(notFound) {
		t.Fatal("IsTimeout misclassified")
	}
}

func TestErrorClassifiersUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("create listing: %w", NotFoundError{Entity: EntityProperty, ID: "p1"})
	if !IsNotFound(wrapped) {
		t.Fatal("expected wrapped NotFoundError to classify")
	}
	if IsNotFound(errors.New("plain")) {
		t.Fatal("plain error classified as not found")
	}
}

func TestErrorMessages(t *testing.T) {
	if got := (NotFoundError{Entity: EntityListing, ID: "l1"}).Error(); got != "listing l1 not found" {
		t.Fatalf("not found message = %q", got)
	}
	if got := (ConflictError{Reason: "there is a scheduling conflict with another showing"}).Error(); got != "there is a scheduling conflict with another showing" {
		t.Fatalf("conflict message = %q", got)
	}
	if got := (TimeoutError{Op: "stats"}).Error(); got != "stats: operation timed out" {
		t.Fatalf("timeout message = %q", got)
	}
}
