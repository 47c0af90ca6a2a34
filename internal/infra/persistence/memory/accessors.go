package memory

// GetProperty returns the property with the given ID.
func (s *Store) GetProperty(id string) (Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.FindProperty(id)
}

// ListProperties returns all properties ordered by creation time, then ID.
func (s *Store) ListProperties() []Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.ListProperties()
}

// GetListing returns the listing with the given ID.
func (s *Store) GetListing(id string) (Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.FindListing(id)
}

// ListListings returns all listings ordered by creation time, then ID.
func (s *Store) ListListings() []Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.ListListings()
}

// GetClient returns the client with the given ID.
func (s *Store) GetClient(id string) (Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.FindClient(id)
}

// ListClients returns all clients ordered by creation time, then ID.
func (s *Store) ListClients() []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.ListClients()
}

// GetShowing returns the showing with the given ID.
func (s *Store) GetShowing(id string) (Showing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.FindShowing(id)
}

// ListShowings returns all showings ordered by creation time, then ID.
func (s *Store) ListShowings() []Showing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.ListShowings()
}

// GetOffer returns the offer with the given ID.
func (s *Store) GetOffer(id string) (Offer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.FindOffer(id)
}

// ListOffers returns all offers ordered by creation time, then ID.
func (s *Store) ListOffers() []Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.ListOffers()
}

// GetSaleTransaction returns the transaction with the given ID.
func (s *Store) GetSaleTransaction(id string) (SaleTransaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.FindSaleTransaction(id)
}

// ListSaleTransactions returns all transactions ordered by creation time, then ID.
func (s *Store) ListSaleTransactions() []SaleTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.ListSaleTransactions()
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.FindUser(id)
}

// ListUsers returns all users ordered by creation time, then ID.
func (s *Store) ListUsers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.ListUsers()
}
