package core

import (
	"context"

	"estatecore/pkg/domain"
)

// DashboardStats summarizes the portfolio for the overview page.
type DashboardStats struct {
	TotalProperties   int     `json:"total_properties"`
	ActiveListings    int     `json:"active_listings"`
	ScheduledShowings int     `json:"scheduled_showings"`
	PendingOffers     int     `json:"pending_offers"`
	TotalTransactions int     `json:"total_transactions"`
	TotalCommission   float64 `json:"total_commission"`
}

// Stats computes dashboard counts from a single consistent snapshot.
func (s *Service) Stats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	err := s.view(ctx, "stats", func(view domain.TransactionView) error {
		stats.TotalProperties = len(view.ListProperties())
		for _, listing := range view.ListListings() {
			if listing.Status == domain.ListingActive {
				stats.ActiveListings++
			}
		}
		for _, showing := range view.ListShowings() {
			if showing.Status == domain.ShowingScheduled {
				stats.ScheduledShowings++
			}
		}
		for _, offer := range view.ListOffers() {
			if offer.Status == domain.OfferPending {
				stats.PendingOffers++
			}
		}
		transactions := view.ListSaleTransactions()
		stats.TotalTransactions = len(transactions)
		for _, txn := range transactions {
			stats.TotalCommission += txn.CommissionAmount
		}
		return nil
	})
	return stats, err
}
