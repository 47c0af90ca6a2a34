package core

import "estatecore/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Base               = domain.Base
	Property           = domain.Property
	Listing            = domain.Listing
	Client             = domain.Client
	Showing            = domain.Showing
	Offer              = domain.Offer
	SaleTransaction    = domain.SaleTransaction
	User               = domain.User
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
)

const (
	EntityProperty        = domain.EntityProperty
	EntityListing         = domain.EntityListing
	EntityClient          = domain.EntityClient
	EntityShowing         = domain.EntityShowing
	EntityOffer           = domain.EntityOffer
	EntitySaleTransaction = domain.EntitySaleTransaction
	EntityUser            = domain.EntityUser
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
