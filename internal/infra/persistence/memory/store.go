// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"estatecore/pkg/domain"

	"github.com/google/uuid"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var (
	_ domain.PersistentStore = (*Store)(nil)
	_ domain.Transaction     = (*transaction)(nil)
)

type (
	// Property aliases domain.Property for in-memory persistence operations.
	Property = domain.Property
	// Listing aliases domain.Listing.
	Listing = domain.Listing
	// Client aliases domain.Client.
	Client = domain.Client
	// Showing aliases domain.Showing.
	Showing = domain.Showing
	// Offer aliases domain.Offer.
	Offer = domain.Offer
	// SaleTransaction aliases domain.SaleTransaction.
	SaleTransaction = domain.SaleTransaction
	// User aliases domain.User.
	User = domain.User
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

type memoryState struct {
	properties   map[string]Property
	listings     map[string]Listing
	clients      map[string]Client
	showings     map[string]Showing
	offers       map[string]Offer
	transactions map[string]SaleTransaction
	users        map[string]User
}

func newMemoryState() memoryState {
	return memoryState{
		properties:   make(map[string]Property),
		listings:     make(map[string]Listing),
		clients:      make(map[string]Client),
		showings:     make(map[string]Showing),
		offers:       make(map[string]Offer),
		transactions: make(map[string]SaleTransaction),
		users:        make(map[string]User),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.properties {
		cloned.properties[k] = cloneProperty(v)
	}
	for k, v := range s.listings {
		cloned.listings[k] = cloneListing(v)
	}
	for k, v := range s.clients {
		cloned.clients[k] = cloneClient(v)
	}
	for k, v := range s.showings {
		cloned.showings[k] = cloneShowing(v)
	}
	for k, v := range s.offers {
		cloned.offers[k] = cloneOffer(v)
	}
	for k, v := range s.transactions {
		cloned.transactions[k] = cloneSaleTransaction(v)
	}
	for k, v := range s.users {
		cloned.users[k] = cloneUser(v)
	}
	return cloned
}

func cloneProperty(p Property) Property {
	cp := p
	cp.SalePrice = cloneFloatPtr(p.SalePrice)
	return cp
}

func cloneListing(l Listing) Listing {
	cp := l
	cp.EndDate = cloneTimePtr(l.EndDate)
	return cp
}

func cloneClient(c Client) Client {
	cp := c
	cp.AgentID = cloneStringPtr(c.AgentID)
	return cp
}

func cloneShowing(s Showing) Showing { return s }

func cloneOffer(o Offer) Offer {
	cp := o
	cp.ExpirationDate = cloneTimePtr(o.ExpirationDate)
	return cp
}

func cloneSaleTransaction(t SaleTransaction) SaleTransaction {
	cp := t
	cp.ClosingCosts = cloneFloatPtr(t.ClosingCosts)
	return cp
}

func cloneUser(u User) User {
	cp := u
	cp.Roles = append([]string(nil), u.Roles...)
	return cp
}

func cloneFloatPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneTimePtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Properties   []Property        `json:"properties"`
	Listings     []Listing         `json:"listings"`
	Clients      []Client          `json:"clients"`
	Showings     []Showing         `json:"showings"`
	Offers       []Offer           `json:"offers"`
	Transactions []SaleTransaction `json:"transactions"`
	Users        []User            `json:"users"`
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	snap := Snapshot{
		Properties:   make([]Property, 0, len(state.properties)),
		Listings:     make([]Listing, 0, len(state.listings)),
		Clients:      make([]Client, 0, len(state.clients)),
		Showings:     make([]Showing, 0, len(state.showings)),
		Offers:       make([]Offer, 0, len(state.offers)),
		Transactions: make([]SaleTransaction, 0, len(state.transactions)),
		Users:        make([]User, 0, len(state.users)),
	}
	for _, v := range state.properties {
		snap.Properties = append(snap.Properties, cloneProperty(v))
	}
	for _, v := range state.listings {
		snap.Listings = append(snap.Listings, cloneListing(v))
	}
	for _, v := range state.clients {
		snap.Clients = append(snap.Clients, cloneClient(v))
	}
	for _, v := range state.showings {
		snap.Showings = append(snap.Showings, cloneShowing(v))
	}
	for _, v := range state.offers {
		snap.Offers = append(snap.Offers, cloneOffer(v))
	}
	for _, v := range state.transactions {
		snap.Transactions = append(snap.Transactions, cloneSaleTransaction(v))
	}
	for _, v := range state.users {
		snap.Users = append(snap.Users, cloneUser(v))
	}
	sort.Slice(snap.Properties, func(i, j int) bool { return snap.Properties[i].ID < snap.Properties[j].ID })
	sort.Slice(snap.Listings, func(i, j int) bool { return snap.Listings[i].ID < snap.Listings[j].ID })
	sort.Slice(snap.Clients, func(i, j int) bool { return snap.Clients[i].ID < snap.Clients[j].ID })
	sort.Slice(snap.Showings, func(i, j int) bool { return snap.Showings[i].ID < snap.Showings[j].ID })
	sort.Slice(snap.Offers, func(i, j int) bool { return snap.Offers[i].ID < snap.Offers[j].ID })
	sort.Slice(snap.Transactions, func(i, j int) bool { return snap.Transactions[i].ID < snap.Transactions[j].ID })
	sort.Slice(snap.Users, func(i, j int) bool { return snap.Users[i].ID < snap.Users[j].ID })
	return snap
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for _, v := range s.Properties {
		state.properties[v.ID] = cloneProperty(v)
	}
	for _, v := range s.Listings {
		state.listings[v.ID] = cloneListing(v)
	}
	for _, v := range s.Clients {
		state.clients[v.ID] = cloneClient(v)
	}
	for _, v := range s.Showings {
		state.showings[v.ID] = cloneShowing(v)
	}
	for _, v := range s.Offers {
		state.offers[v.ID] = cloneOffer(v)
	}
	for _, v := range s.Transactions {
		state.transactions[v.ID] = cloneSaleTransaction(v)
	}
	for _, v := range s.Users {
		state.users[v.ID] = cloneUser(v)
	}
	return state
}

// Store provides an in-memory transactional store for the core domain. A
// single mutex serializes transactions, so invariant checks always evaluate
// against the transaction's own view of state.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	return uuid.NewString()
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// RulesEngine returns the engine evaluated at each commit.
func (s *Store) RulesEngine() *RulesEngine {
	return s.engine
}

// NowFunc returns the clock used for record timestamps.
func (s *Store) NowFunc() func() time.Time {
	return s.nowFn
}

// SetNowFunc overrides the record-timestamp clock. Intended for tests.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		s.nowFn = fn
	}
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The state swap happens only after fn succeeds and all registered rules pass.
func (s *Store) RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := transactionView{state: &tx.state}
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(ctx context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.state.clone()
	return fn(transactionView{state: &snapshot})
}
