package memory

import "sort"

var _ TransactionView = transactionView{}

// transactionView adapts a memoryState to the read-only view consumed by
// rules and in-transaction invariant checks. Lists are returned in a stable
// order: creation time, then ID.
type transactionView struct {
	state *memoryState
}

func (v transactionView) ListProperties() []Property {
	out := make([]Property, 0, len(v.state.properties))
	for _, p := range v.state.properties {
		out = append(out, cloneProperty(p))
	}
	sortByCreation(out, func(p Property) (int64, string) { return p.CreatedAt.UnixNano(), p.ID })
	return out
}

func (v transactionView) ListListings() []Listing {
	out := make([]Listing, 0, len(v.state.listings))
	for _, l := range v.state.listings {
		out = append(out, cloneListing(l))
	}
	sortByCreation(out, func(l Listing) (int64, string) { return l.CreatedAt.UnixNano(), l.ID })
	return out
}

func (v transactionView) ListClients() []Client {
	out := make([]Client, 0, len(v.state.clients))
	for _, c := range v.state.clients {
		out = append(out, cloneClient(c))
	}
	sortByCreation(out, func(c Client) (int64, string) { return c.CreatedAt.UnixNano(), c.ID })
	return out
}

func (v transactionView) ListShowings() []Showing {
	out := make([]Showing, 0, len(v.state.showings))
	for _, s := range v.state.showings {
		out = append(out, cloneShowing(s))
	}
	sortByCreation(out, func(s Showing) (int64, string) { return s.CreatedAt.UnixNano(), s.ID })
	return out
}

func (v transactionView) ListOffers() []Offer {
	out := make([]Offer, 0, len(v.state.offers))
	for _, o := range v.state.offers {
		out = append(out, cloneOffer(o))
	}
	sortByCreation(out, func(o Offer) (int64, string) { return o.CreatedAt.UnixNano(), o.ID })
	return out
}

func (v transactionView) ListSaleTransactions() []SaleTransaction {
	out := make([]SaleTransaction, 0, len(v.state.transactions))
	for _, t := range v.state.transactions {
		out = append(out, cloneSaleTransaction(t))
	}
	sortByCreation(out, func(t SaleTransaction) (int64, string) { return t.CreatedAt.UnixNano(), t.ID })
	return out
}

func (v transactionView) ListUsers() []User {
	out := make([]User, 0, len(v.state.users))
	for _, u := range v.state.users {
		out = append(out, cloneUser(u))
	}
	sortByCreation(out, func(u User) (int64, string) { return u.CreatedAt.UnixNano(), u.ID })
	return out
}

func (v transactionView) FindProperty(id string) (Property, bool) {
	p, ok := v.state.properties[id]
	if !ok {
		return Property{}, false
	}
	return cloneProperty(p), true
}

func (v transactionView) FindListing(id string) (Listing, bool) {
	l, ok := v.state.listings[id]
	if !ok {
		return Listing{}, false
	}
	return cloneListing(l), true
}

func (v transactionView) FindClient(id string) (Client, bool) {
	c, ok := v.state.clients[id]
	if !ok {
		return Client{}, false
	}
	return cloneClient(c), true
}

func (v transactionView) FindShowing(id string) (Showing, bool) {
	s, ok := v.state.showings[id]
	if !ok {
		return Showing{}, false
	}
	return cloneShowing(s), true
}

func (v transactionView) FindOffer(id string) (Offer, bool) {
	o, ok := v.state.offers[id]
	if !ok {
		return Offer{}, false
	}
	return cloneOffer(o), true
}

func (v transactionView) FindSaleTransaction(id string) (SaleTransaction, bool) {
	t, ok := v.state.transactions[id]
	if !ok {
		return SaleTransaction{}, false
	}
	return cloneSaleTransaction(t), true
}

func (v transactionView) FindUser(id string) (User, bool) {
	u, ok := v.state.users[id]
	if !ok {
		return User{}, false
	}
	return cloneUser(u), true
}

func sortByCreation[T any](items []T, key func(T) (int64, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti != tj {
			return ti < tj
		}
		return idi < idj
	})
}
