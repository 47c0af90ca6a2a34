// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by estatecore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityProperty identifies a marketed property record.
	EntityProperty EntityType = "property"
	// EntityListing identifies an offer-to-sell record for a property.
	EntityListing EntityType = "listing"
	// EntityClient identifies a buyer/seller contact record.
	EntityClient EntityType = "client"
	// EntityShowing identifies a scheduled viewing appointment.
	EntityShowing EntityType = "showing"
	// EntityOffer identifies a client's bid against a listing.
	EntityOffer EntityType = "offer"
	// EntitySaleTransaction identifies the closing record created from an accepted offer.
	EntitySaleTransaction EntityType = "transaction"
	// EntityUser identifies an internal user (agents, managers).
	EntityUser EntityType = "user"
)

// PropertyStatus represents the marketability states of a property.
type PropertyStatus string

// Canonical property statuses driven by listing and transaction cascades.
const (
	PropertyAvailable PropertyStatus = "Available"
	PropertyInactive  PropertyStatus = "Inactive"
	PropertySold      PropertyStatus = "Sold"
)

// Valid reports whether the status is one of the canonical property states.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyAvailable, PropertyInactive, PropertySold:
		return true
	}
	return false
}

// ListingStatus enumerates listing workflow states.
type ListingStatus string

// Canonical listing statuses.
const (
	ListingActive    ListingStatus = "Active"
	ListingPending   ListingStatus = "Pending"
	ListingSold      ListingStatus = "Sold"
	ListingExpired   ListingStatus = "Expired"
	ListingCancelled ListingStatus = "Cancelled"
)

// Valid reports whether the status is one of the canonical listing states.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingActive, ListingPending, ListingSold, ListingExpired, ListingCancelled:
		return true
	}
	return false
}

// ShowingStatus enumerates showing appointment states.
type ShowingStatus string

// Canonical showing statuses.
const (
	ShowingScheduled ShowingStatus = "Scheduled"
	ShowingCompleted ShowingStatus = "Completed"
	ShowingCancelled ShowingStatus = "Cancelled"
)

// Valid reports whether the status is one of the canonical showing states.
func (s ShowingStatus) Valid() bool {
	switch s {
	case ShowingScheduled, ShowingCompleted, ShowingCancelled:
		return true
	}
	return false
}

// OfferStatus enumerates offer negotiation states.
type OfferStatus string

// Canonical offer statuses.
const (
	OfferPending   OfferStatus = "Pending"
	OfferAccepted  OfferStatus = "Accepted"
	OfferRejected  OfferStatus = "Rejected"
	OfferCountered OfferStatus = "Countered"
	OfferWithdrawn OfferStatus = "Withdrawn"
)

// Valid reports whether the status is one of the canonical offer states.
func (s OfferStatus) Valid() bool {
	switch s {
	case OfferPending, OfferAccepted, OfferRejected, OfferCountered, OfferWithdrawn:
		return true
	}
	return false
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Property represents a physical property marketed through listings.
type Property struct {
	Base
	Address      string         `json:"address"`
	City         string         `json:"city"`
	State        string         `json:"state"`
	Zip          string         `json:"zip"`
	Type         string         `json:"type"`
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    float64        `json:"bathrooms"`
	SquareFeet   int            `json:"square_feet"`
	LotSize      float64        `json:"lot_size"`
	YearBuilt    int            `json:"year_built"`
	Description  string         `json:"description,omitempty"`
	ListingPrice float64        `json:"listing_price"`
	SalePrice    *float64       `json:"sale_price"`
	Status       PropertyStatus `json:"status"`
}

// FullAddress renders the single-line postal address used in notifications.
func (p Property) FullAddress() string {
	return p.Address + ", " + p.City + ", " + p.State + " " + p.Zip
}

// Listing is a time-bounded offer-to-sell record for one property, owned by
// one agent. At most one listing per property may be Active at a time.
type Listing struct {
	Base
	PropertyID string        `json:"property_id"`
	AgentID    string        `json:"agent_id"`
	ListPrice  float64       `json:"list_price"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    *time.Time    `json:"end_date"`
	Status     ListingStatus `json:"status"`
}

// Client is a buyer or seller contact. Email, when present, is unique among
// clients.
type Client struct {
	Base
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	AgentID   *string `json:"agent_id"`
	Notes     string  `json:"notes,omitempty"`
}

// FullName renders the display name used in notifications.
func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Showing is a scheduled viewing appointment for a listing by a client. The
// [StartTime, EndTime) windows of a listing's showings never overlap.
type Showing struct {
	Base
	ListingID string        `json:"listing_id"`
	ClientID  string        `json:"client_id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Status    ShowingStatus `json:"status"`
	Notes     string        `json:"notes,omitempty"`
	Feedback  string        `json:"feedback,omitempty"`
}

// Offer is a client's bid against a listing. Offers are only accepted
// against Active listings.
type Offer struct {
	Base
	ListingID      string      `json:"listing_id"`
	ClientID       string      `json:"client_id"`
	OfferPrice     float64     `json:"offer_price"`
	OfferDate      time.Time   `json:"offer_date"`
	ExpirationDate *time.Time  `json:"expiration_date"`
	Status         OfferStatus `json:"status"`
	Contingencies  string      `json:"contingencies,omitempty"`
	Notes          string      `json:"notes,omitempty"`
}

// SaleTransaction is the closing record created from an accepted offer. At
// most one transaction may reference a given offer.
type SaleTransaction struct {
	Base
	OfferID          string    `json:"offer_id"`
	ClosingDate      time.Time `json:"closing_date"`
	CommissionAmount float64   `json:"commission_amount"`
	ClosingCosts     *float64  `json:"closing_costs"`
	Notes            string    `json:"notes,omitempty"`
}

// User is an internal platform user (agent, manager). Users are referenced
// by listings and resolved for role-targeted notifications.
type User struct {
	Base
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles,omitempty"`
	Active    bool     `json:"active"`
}

// FullName renders the display name used in notifications.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasRole reports whether the user carries the named role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before ChangePayload
	After  ChangePayload
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in the journal.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
