package core

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"estatecore/internal/infra/persistence/memory"
	"estatecore/internal/notify"
	"estatecore/pkg/domain"
)

// EventSink accepts transition side effects for asynchronous delivery.
type EventSink interface {
	Enqueue(event notify.Event)
}

// Service exposes the lifecycle operations: entity CRUD with invariant
// checks, cross-entity cascades, and post-commit side-effect dispatch.
type Service struct {
	store   domain.PersistentStore
	logger  *slog.Logger
	metrics MetricsRecorder
	events  EventSink
}

// Option customizes service construction.
type Option func(*Service)

// WithLogger overrides the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder attaches an operation metrics recorder.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(s *Service) {
		s.metrics = recorder
	}
}

// WithEventSink attaches the side-effect dispatcher. Events are enqueued only
// after the primary transaction commits.
func WithEventSink(sink EventSink) Option {
	return func(s *Service) {
		s.events = sink
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over an in-memory store with the
// default invariant rules registered.
func NewInMemoryService(opts ...Option) *Service {
	return NewService(memory.NewStore(NewDefaultRulesEngine()), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// run executes one lifecycle operation: the closure performs reads, guards,
// and writes against the transaction; collected events dispatch only after a
// successful commit.
func (s *Service) run(ctx context.Context, operation string, fn func(tx domain.Transaction, events *[]notify.Event) error) (Result, error) {
	start := time.Now()
	var events []notify.Event
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		events = events[:0]
		return fn(tx, &events)
	})
	err = s.mapError(operation, err)
	success := err == nil
	if s.metrics != nil {
		s.metrics.Observe(ctx, operation, success, time.Since(start))
	}
	if err != nil {
		s.logger.Warn("lifecycle operation failed", "operation", operation, "error", err)
		return res, err
	}
	if s.events != nil {
		for _, event := range events {
			s.events.Enqueue(event)
		}
	}
	return res, nil
}

// view executes a read-only operation against a snapshot of the store.
func (s *Service) view(ctx context.Context, operation string, fn func(view domain.TransactionView) error) error {
	err := s.mapError(operation, s.store.View(ctx, fn))
	if err != nil {
		s.logger.Warn("lifecycle read failed", "operation", operation, "error", err)
	}
	return err
}

// mapError normalizes storage-level failures into the typed error taxonomy:
// context expiry surfaces as Timeout, blocked commits as Conflict.
func (s *Service) mapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.TimeoutError{Op: operation}
	}
	var ruleErr domain.RuleViolationError
	if errors.As(err, &ruleErr) {
		reason := "transaction blocked by invariant rules"
		var entity domain.EntityType
		var entityID string
		for _, v := range ruleErr.Result.Violations {
			if v.Severity == domain.SeverityBlock {
				reason = v.Message
				entity = v.Entity
				entityID = v.EntityID
				break
			}
		}
		return domain.ConflictError{Entity: entity, ID: entityID, Reason: reason}
	}
	return err
}
