package memory

import (
	"fmt"
	"strings"
	"time"

	"estatecore/pkg/domain"
)

type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

func (t *transaction) Snapshot() TransactionView {
	return transactionView{state: &t.state}
}

func (t *transaction) record(entity domain.EntityType, action domain.Action, before, after any) error {
	change := Change{
		Entity: entity,
		Action: action,
		Before: domain.UndefinedChangePayload(),
		After:  domain.UndefinedChangePayload(),
	}
	if before != nil {
		payload, err := domain.NewChangePayloadFromValue(before)
		if err != nil {
			return fmt.Errorf("encode %s before state: %w", entity, err)
		}
		change.Before = payload
	}
	if after != nil {
		payload, err := domain.NewChangePayloadFromValue(after)
		if err != nil {
			return fmt.Errorf("encode %s after state: %w", entity, err)
		}
		change.After = payload
	}
	t.changes = append(t.changes, change)
	return nil
}

func (t *transaction) stampNew(base *domain.Base) {
	if base.ID == "" {
		base.ID = t.store.newID()
	}
	base.CreatedAt = t.now
	base.UpdatedAt = t.now
}

// CreateProperty inserts a property record and journals the change.
func (t *transaction) CreateProperty(p Property) (Property, error) {
	t.stampNew(&p.Base)
	if p.Status == "" {
		p.Status = domain.PropertyAvailable
	}
	if !p.Status.Valid() {
		return Property{}, fmt.Errorf("invalid property status %q", p.Status)
	}
	if err := t.record(domain.EntityProperty, domain.ActionCreate, nil, p); err != nil {
		return Property{}, err
	}
	t.state.properties[p.ID] = cloneProperty(p)
	return p, nil
}

// UpdateProperty applies mutator to the stored property and journals the change.
func (t *transaction) UpdateProperty(id string, mutator func(*Property) error) (Property, error) {
	current, ok := t.state.properties[id]
	if !ok {
		return Property{}, domain.NotFoundError{Entity: domain.EntityProperty, ID: id}
	}
	before := cloneProperty(current)
	updated := cloneProperty(current)
	if err := mutator(&updated); err != nil {
		return Property{}, err
	}
	updated.ID = before.ID
	updated.CreatedAt = before.CreatedAt
	updated.UpdatedAt = t.now
	if !updated.Status.Valid() {
		return Property{}, fmt.Errorf("invalid property status %q", updated.Status)
	}
	if err := t.record(domain.EntityProperty, domain.ActionUpdate, before, updated); err != nil {
		return Property{}, err
	}
	t.state.properties[id] = cloneProperty(updated)
	return updated, nil
}

// DeleteProperty removes the property record and journals the change.
func (t *transaction) DeleteProperty(id string) error {
	current, ok := t.state.properties[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityProperty, ID: id}
	}
	if err := t.record(domain.EntityProperty, domain.ActionDelete, cloneProperty(current), nil); err != nil {
		return err
	}
	delete(t.state.properties, id)
	return nil
}

// CreateListing inserts a listing record and journals the change.
func (t *transaction) CreateListing(l Listing) (Listing, error) {
	t.stampNew(&l.Base)
	if l.Status == "" {
		l.Status = domain.ListingActive
	}
	if !l.Status.Valid() {
		return Listing{}, fmt.Errorf("invalid listing status %q", l.Status)
	}
	if err := t.record(domain.EntityListing, domain.ActionCreate, nil, l); err != nil {
		return Listing{}, err
	}
	t.state.listings[l.ID] = cloneListing(l)
	return l, nil
}

// UpdateListing applies mutator to the stored listing and journals the change.
func (t *transaction) UpdateListing(id string, mutator func(*Listing) error) (Listing, error) {
	current, ok := t.state.listings[id]
	if !ok {
		return Listing{}, domain.NotFoundError{Entity: domain.EntityListing, ID: id}
	}
	before := cloneListing(current)
	updated := cloneListing(current)
	if err := mutator(&updated); err != nil {
		return Listing{}, err
	}
	updated.ID = before.ID
	updated.CreatedAt = before.CreatedAt
	updated.UpdatedAt = t.now
	if !updated.Status.Valid() {
		return Listing{}, fmt.Errorf("invalid listing status %q", updated.Status)
	}
	if err := t.record(domain.EntityListing, domain.ActionUpdate, before, updated); err != nil {
		return Listing{}, err
	}
	t.state.listings[id] = cloneListing(updated)
	return updated, nil
}

// DeleteListing removes the listing record and journals the change.
func (t *transaction) DeleteListing(id string) error {
	current, ok := t.state.listings[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityListing, ID: id}
	}
	if err := t.record(domain.EntityListing, domain.ActionDelete, cloneListing(current), nil); err != nil {
		return err
	}
	delete(t.state.listings, id)
	return nil
}

// CreateClient inserts a client record and journals the change.
func (t *transaction) CreateClient(c Client) (Client, error) {
	t.stampNew(&c.Base)
	c.Email = strings.TrimSpace(c.Email)
	if err := t.record(domain.EntityClient, domain.ActionCreate, nil, c); err != nil {
		return Client{}, err
	}
	t.state.clients[c.ID] = cloneClient(c)
	return c, nil
}

// UpdateClient applies mutator to the stored client and journals the change.
func (t *transaction) UpdateClient(id string, mutator func(*Client) error) (Client, error) {
	current, ok := t.state.clients[id]
	if !ok {
		return Client{}, domain.NotFoundError{Entity: domain.EntityClient, ID: id}
	}
	before := cloneClient(current)
	updated := cloneClient(current)
	if err := mutator(&updated); err != nil {
		return Client{}, err
	}
	updated.ID = before.ID
	updated.CreatedAt = before.CreatedAt
	updated.UpdatedAt = t.now
	updated.Email = strings.TrimSpace(updated.Email)
	if err := t.record(domain.EntityClient, domain.ActionUpdate, before, updated); err != nil {
		return Client{}, err
	}
	t.state.clients[id] = cloneClient(updated)
	return updated, nil
}

// DeleteClient removes the client record and journals the change.
func (t *transaction) DeleteClient(id string) error {
	current, ok := t.state.clients[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityClient, ID: id}
	}
	if err := t.record(domain.EntityClient, domain.ActionDelete, cloneClient(current), nil); err != nil {
		return err
	}
	delete(t.state.clients, id)
	return nil
}

// CreateShowing inserts a showing record and journals the change.
func (t *transaction) CreateShowing(s Showing) (Showing, error) {
	t.stampNew(&s.Base)
	if s.Status == "" {
		s.Status = domain.ShowingScheduled
	}
	if !s.Status.Valid() {
		return Showing{}, fmt.Errorf("invalid showing status %q", s.Status)
	}
	if err := t.record(domain.EntityShowing, domain.ActionCreate, nil, s); err != nil {
		return Showing{}, err
	}
	t.state.showings[s.ID] = cloneShowing(s)
	return s, nil
}

// UpdateShowing applies mutator to the stored showing and journals the change.
func (t *transaction) UpdateShowing(id string, mutator func(*Showing) error) (Showing, error) {
	current, ok := t.state.showings[id]
	if !ok {
		return Showing{}, domain.NotFoundError{Entity: domain.EntityShowing, ID: id}
	}
	before := cloneShowing(current)
	updated := cloneShowing(current)
	if err := mutator(&updated); err != nil {
		return Showing{}, err
	}
	updated.ID = before.ID
	updated.CreatedAt = before.CreatedAt
	updated.UpdatedAt = t.now
	if !updated.Status.Valid() {
		return Showing{}, fmt.Errorf("invalid showing status %q", updated.Status)
	}
	if err := t.record(domain.EntityShowing, domain.ActionUpdate, before, updated); err != nil {
		return Showing{}, err
	}
	t.state.showings[id] = cloneShowing(updated)
	return updated, nil
}

// DeleteShowing removes the showing record and journals the change.
func (t *transaction) DeleteShowing(id string) error {
	current, ok := t.state.showings[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityShowing, ID: id}
	}
	if err := t.record(domain.EntityShowing, domain.ActionDelete, cloneShowing(current), nil); err != nil {
		return err
	}
	delete(t.state.showings, id)
	return nil
}

// CreateOffer inserts an offer record and journals the change.
func (t *transaction) CreateOffer(o Offer) (Offer, error) {
	t.stampNew(&o.Base)
	if o.Status == "" {
		o.Status = domain.OfferPending
	}
	if !o.Status.Valid() {
		return Offer{}, fmt.Errorf("invalid offer status %q", o.Status)
	}
	if err := t.record(domain.EntityOffer, domain.ActionCreate, nil, o); err != nil {
		return Offer{}, err
	}
	t.state.offers[o.ID] = cloneOffer(o)
	return o, nil
}

// UpdateOffer applies mutator to the stored offer and journals the change.
func (t *transaction) UpdateOffer(id string, mutator func(*Offer) error) (Offer, error) {
	current, ok := t.state.offers[id]
	if !ok {
		return Offer{}, domain.NotFoundError{Entity: domain.EntityOffer, ID: id}
	}
	before := cloneOffer(current)
	updated := cloneOffer(current)
	if err := mutator(&updated); err != nil {
		return Offer{}, err
	}
	updated.ID = before.ID
	updated.CreatedAt = before.CreatedAt
	updated.UpdatedAt = t.now
	if !updated.Status.Valid() {
		return Offer{}, fmt.Errorf("invalid offer status %q", updated.Status)
	}
	if err := t.record(domain.EntityOffer, domain.ActionUpdate, before, updated); err != nil {
		return Offer{}, err
	}
	t.state.offers[id] = cloneOffer(updated)
	return updated, nil
}

// DeleteOffer removes the offer record and journals the change.
func (t *transaction) DeleteOffer(id string) error {
	current, ok := t.state.offers[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityOffer, ID: id}
	}
	if err := t.record(domain.EntityOffer, domain.ActionDelete, cloneOffer(current), nil); err != nil {
		return err
	}
	delete(t.state.offers, id)
	return nil
}

// CreateSaleTransaction inserts a transaction record and journals the change.
func (t *transaction) CreateSaleTransaction(st SaleTransaction) (SaleTransaction, error) {
	t.stampNew(&st.Base)
	if err := t.record(domain.EntitySaleTransaction, domain.ActionCreate, nil, st); err != nil {
		return SaleTransaction{}, err
	}
	t.state.transactions[st.ID] = cloneSaleTransaction(st)
	return st, nil
}

// UpdateSaleTransaction applies mutator to the stored transaction and journals the change.
func (t *transaction) UpdateSaleTransaction(id string, mutator func(*SaleTransaction) error) (SaleTransaction, error) {
	current, ok := t.state.transactions[id]
	if !ok {
		return SaleTransaction{}, domain.NotFoundError{Entity: domain.EntitySaleTransaction, ID: id}
	}
	before := cloneSaleTransaction(current)
	updated := cloneSaleTransaction(current)
	if err := mutator(&updated); err != nil {
		return SaleTransaction{}, err
	}
	updated.ID = before.ID
	updated.CreatedAt = before.CreatedAt
	updated.UpdatedAt = t.now
	if err := t.record(domain.EntitySaleTransaction, domain.ActionUpdate, before, updated); err != nil {
		return SaleTransaction{}, err
	}
	t.state.transactions[id] = cloneSaleTransaction(updated)
	return updated, nil
}

// DeleteSaleTransaction removes the transaction record and journals the change.
func (t *transaction) DeleteSaleTransaction(id string) error {
	current, ok := t.state.transactions[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntitySaleTransaction, ID: id}
	}
	if err := t.record(domain.EntitySaleTransaction, domain.ActionDelete, cloneSaleTransaction(current), nil); err != nil {
		return err
	}
	delete(t.state.transactions, id)
	return nil
}

// CreateUser inserts a user record and journals the change.
func (t *transaction) CreateUser(u User) (User, error) {
	t.stampNew(&u.Base)
	u.Email = strings.TrimSpace(u.Email)
	if err := t.record(domain.EntityUser, domain.ActionCreate, nil, u); err != nil {
		return User{}, err
	}
	t.state.users[u.ID] = cloneUser(u)
	return u, nil
}

// UpdateUser applies mutator to the stored user and journals the change.
func (t *transaction) UpdateUser(id string, mutator func(*User) error) (User, error) {
	current, ok := t.state.users[id]
	if !ok {
		return User{}, domain.NotFoundError{Entity: domain.EntityUser, ID: id}
	}
	before := cloneUser(current)
	updated := cloneUser(current)
	if err := mutator(&updated); err != nil {
		return User{}, err
	}
	updated.ID = before.ID
	updated.CreatedAt = before.CreatedAt
	updated.UpdatedAt = t.now
	updated.Email = strings.TrimSpace(updated.Email)
	if err := t.record(domain.EntityUser, domain.ActionUpdate, before, updated); err != nil {
		return User{}, err
	}
	t.state.users[id] = cloneUser(updated)
	return updated, nil
}

// DeleteUser removes the user record and journals the change.
func (t *transaction) DeleteUser(id string) error {
	current, ok := t.state.users[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityUser, ID: id}
	}
	if err := t.record(domain.EntityUser, domain.ActionDelete, cloneUser(current), nil); err != nil {
		return err
	}
	delete(t.state.users, id)
	return nil
}
