package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateProperty(Property) (Property, error)
	UpdateProperty(id string, mutator func(*Property) error) (Property, error)
	DeleteProperty(id string) error
	CreateListing(Listing) (Listing, error)
	UpdateListing(id string, mutator func(*Listing) error) (Listing, error)
	DeleteListing(id string) error
	CreateClient(Client) (Client, error)
	UpdateClient(id string, mutator func(*Client) error) (Client, error)
	DeleteClient(id string) error
	CreateShowing(Showing) (Showing, error)
	UpdateShowing(id string, mutator func(*Showing) error) (Showing, error)
	DeleteShowing(id string) error
	CreateOffer(Offer) (Offer, error)
	UpdateOffer(id string, mutator func(*Offer) error) (Offer, error)
	DeleteOffer(id string) error
	CreateSaleTransaction(SaleTransaction) (SaleTransaction, error)
	UpdateSaleTransaction(id string, mutator func(*SaleTransaction) error) (SaleTransaction, error)
	DeleteSaleTransaction(id string) error
	CreateUser(User) (User, error)
	UpdateUser(id string, mutator func(*User) error) (User, error)
	DeleteUser(id string) error
}

// TransactionView provides read-only access to snapshot data for rules and
// in-transaction invariant checks.
type TransactionView = RuleView

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetProperty(id string) (Property, bool)
	ListProperties() []Property
	GetListing(id string) (Listing, bool)
	ListListings() []Listing
	GetClient(id string) (Client, bool)
	ListClients() []Client
	GetShowing(id string) (Showing, bool)
	ListShowings() []Showing
	GetOffer(id string) (Offer, bool)
	ListOffers() []Offer
	GetSaleTransaction(id string) (SaleTransaction, bool)
	ListSaleTransactions() []SaleTransaction
	GetUser(id string) (User, bool)
	ListUsers() []User
}
