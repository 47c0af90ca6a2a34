package core

import (
	"context"
	"fmt"

	"estatecore/internal/notify"
	"estatecore/pkg/domain"
)

// CreateShowing schedules a viewing appointment. The candidate window must
// not overlap any other showing of the same listing.
func (s *Service) CreateShowing(ctx context.Context, showing Showing) (Showing, Result, error) {
	var created Showing
	res, err := s.run(ctx, "create_showing", func(tx domain.Transaction, events *[]notify.Event) error {
		view := tx.Snapshot()
		lc, err := resolveListingContext(view, showing.ListingID)
		if err != nil {
			return err
		}
		client, err := resolveClient(view, showing.ClientID)
		if err != nil {
			return err
		}
		if !showing.EndTime.After(showing.StartTime) {
			return fmt.Errorf("showing window must end after it starts")
		}
		if conflict, ok := findShowingConflict(view.ListShowings(), showing.ListingID, "", showing.StartTime, showing.EndTime); ok {
			return domain.ConflictError{
				Entity: domain.EntityShowing,
				ID:     conflict.ID,
				Reason: "there is a scheduling conflict with another showing",
			}
		}

		created, err = tx.CreateShowing(showing)
		if err != nil {
			return err
		}

		appendEvent(events, agentEvent(lc,
			notify.KindInfo,
			"New Showing Scheduled",
			fmt.Sprintf("A showing has been scheduled for %s on %s", lc.property.Address, formatDateTime(created.StartTime)),
			EntityShowing,
			created.ID,
			"/real-estate/showings/"+created.ID,
		))
		appendEvent(events, clientEmailEvent(client,
			"Property Showing Confirmation",
			"showing-confirmation",
			EntityShowing,
			created.ID,
			map[string]string{
				"clientName":      client.FullName(),
				"propertyAddress": lc.property.FullAddress(),
				"showingDate":     formatDate(created.StartTime),
				"showingTime":     formatWindow(created.StartTime, created.EndTime),
				"agentName":       lc.agent.FullName(),
				"agentEmail":      lc.agent.Email,
			},
		))
		return nil
	})
	return created, res, err
}

// UpdateShowing replaces a showing's fields. A changed window re-runs the
// conflict check excluding the showing itself.
func (s *Service) UpdateShowing(ctx context.Context, id string, updated Showing) (Showing, Result, error) {
	var result Showing
	res, err := s.run(ctx, "update_showing", func(tx domain.Transaction, events *[]notify.Event) error {
		view := tx.Snapshot()
		current, ok := view.FindShowing(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityShowing, ID: id}
		}
		lc, err := resolveListingContext(view, updated.ListingID)
		if err != nil {
			return err
		}
		client, err := resolveClient(view, updated.ClientID)
		if err != nil {
			return err
		}
		if !updated.EndTime.After(updated.StartTime) {
			return fmt.Errorf("showing window must end after it starts")
		}
		windowChanged := !updated.StartTime.Equal(current.StartTime) || !updated.EndTime.Equal(current.EndTime)
		if windowChanged || updated.ListingID != current.ListingID {
			if conflict, ok := findShowingConflict(view.ListShowings(), updated.ListingID, id, updated.StartTime, updated.EndTime); ok {
				return domain.ConflictError{
					Entity: domain.EntityShowing,
					ID:     conflict.ID,
					Reason: "there is a scheduling conflict with another showing",
				}
			}
		}

		result, err = tx.UpdateShowing(id, func(sh *Showing) error {
			sh.ListingID = updated.ListingID
			sh.ClientID = updated.ClientID
			sh.StartTime = updated.StartTime
			sh.EndTime = updated.EndTime
			sh.Status = updated.Status
			sh.Notes = updated.Notes
			sh.Feedback = updated.Feedback
			return nil
		})
		if err != nil {
			return err
		}

		if current.Status != result.Status {
			appendEvent(events, agentEvent(lc,
				notify.KindInfo,
				"Showing Status Updated",
				fmt.Sprintf("The showing for %s has been updated to %s", lc.property.Address, result.Status),
				EntityShowing,
				id,
				"/real-estate/showings/"+id,
			))
		}
		if result.Status == domain.ShowingCancelled && current.Status != domain.ShowingCancelled {
			appendEvent(events, clientEmailEvent(client,
				"Property Showing Cancelled",
				"showing-cancelled",
				EntityShowing,
				id,
				map[string]string{
					"clientName":      client.FullName(),
					"propertyAddress": lc.property.FullAddress(),
					"showingDate":     formatDate(result.StartTime),
					"showingTime":     formatWindow(result.StartTime, result.EndTime),
					"agentName":       lc.agent.FullName(),
					"agentEmail":      lc.agent.Email,
				},
			))
		} else if windowChanged {
			appendEvent(events, clientEmailEvent(client,
				"Property Showing Rescheduled",
				"showing-rescheduled",
				EntityShowing,
				id,
				map[string]string{
					"clientName":      client.FullName(),
					"propertyAddress": lc.property.FullAddress(),
					"showingDate":     formatDate(result.StartTime),
					"showingTime":     formatWindow(result.StartTime, result.EndTime),
					"previousDate":    formatDate(current.StartTime),
					"previousTime":    formatWindow(current.StartTime, current.EndTime),
					"agentName":       lc.agent.FullName(),
					"agentEmail":      lc.agent.Email,
				},
			))
		}
		return nil
	})
	return result, res, err
}

// DeleteShowing removes a showing. No entity cascade; the agent and client
// are informed.
func (s *Service) DeleteShowing(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_showing", func(tx domain.Transaction, events *[]notify.Event) error {
		view := tx.Snapshot()
		showing, ok := view.FindShowing(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityShowing, ID: id}
		}
		lc, lcErr := resolveListingContext(view, showing.ListingID)
		client, clientErr := resolveClient(view, showing.ClientID)
		if err := tx.DeleteShowing(id); err != nil {
			return err
		}
		if lcErr == nil {
			appendEvent(events, agentEvent(lc,
				notify.KindInfo,
				"Showing Deleted",
				fmt.Sprintf("The showing for %s on %s has been deleted", lc.property.Address, formatDateTime(showing.StartTime)),
				EntityShowing,
				id,
				"",
			))
			if clientErr == nil {
				appendEvent(events, clientEmailEvent(client,
					"Property Showing Cancelled",
					"showing-cancelled",
					EntityShowing,
					id,
					map[string]string{
						"clientName":      client.FullName(),
						"propertyAddress": lc.property.FullAddress(),
						"showingDate":     formatDate(showing.StartTime),
						"showingTime":     formatWindow(showing.StartTime, showing.EndTime),
						"agentName":       lc.agent.FullName(),
						"agentEmail":      lc.agent.Email,
					},
				))
			}
		}
		return nil
	})
}

// GetShowing fetches a showing by ID.
func (s *Service) GetShowing(ctx context.Context, id string) (Showing, error) {
	var showing Showing
	err := s.view(ctx, "get_showing", func(view domain.TransactionView) error {
		found, ok := view.FindShowing(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityShowing, ID: id}
		}
		showing = found
		return nil
	})
	return showing, err
}

// ListShowings returns all showings.
func (s *Service) ListShowings() []Showing {
	return s.store.ListShowings()
}
