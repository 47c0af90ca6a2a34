package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Dispatcher delivers transition events asynchronously. Events are queued
// fire-and-forget; delivery failures are logged, never returned to the
// enqueuing caller.
type Dispatcher struct {
	notifier  Notifier
	mailer    Mailer
	directory Directory
	logger    *slog.Logger

	queue chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// DispatcherOption customizes dispatcher construction.
type DispatcherOption func(*Dispatcher)

// WithQueueSize overrides the default event queue capacity.
func WithQueueSize(size int) DispatcherOption {
	return func(d *Dispatcher) {
		if size > 0 {
			d.queue = make(chan Event, size)
		}
	}
}

// WithLogger overrides the dispatch logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher constructs a dispatcher delivering through the supplied
// notifier, mailer, and directory.
func NewDispatcher(notifier Notifier, mailer Mailer, directory Directory, opts ...DispatcherOption) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		notifier:  notifier,
		mailer:    mailer,
		directory: directory,
		logger:    slog.Default(),
		queue:     make(chan Event, 64),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start begins processing queued events.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.loop()
}

// Stop signals the dispatcher to halt and waits for completion.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.cancel()
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue schedules an event for delivery. When the queue is full or the
// dispatcher is stopped, the event is dropped with a log entry; notifications
// are informational and never part of the consistency model.
func (d *Dispatcher) Enqueue(event Event) {
	if event.Module == "" {
		event.Module = Module
	}
	select {
	case <-d.ctx.Done():
		d.logger.Warn("dispatcher stopped, dropping event", "title", event.Title, "entity_type", event.EntityType, "entity_id", event.EntityID)
	case d.queue <- event:
	default:
		d.logger.Warn("dispatch queue full, dropping event", "title", event.Title, "entity_type", event.EntityType, "entity_id", event.EntityID)
	}
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case event := <-d.queue:
			d.process(event)
		}
	}
}

// process resolves recipients and delivers each channel independently. Role
// membership is read at dispatch time, and one recipient's failure never
// blocks the rest.
func (d *Dispatcher) process(event Event) {
	ctx := d.ctx

	var recipients []Recipient
	switch {
	case event.Role != "":
		resolved, err := d.directory.ActiveUsersByRole(ctx, event.Role)
		if err != nil {
			d.logger.Error("resolve role recipients", "role", event.Role, "title", event.Title, "error", err)
		} else {
			recipients = resolved
		}
	case event.TargetUserID != "":
		if recipient, ok := d.directory.User(ctx, event.TargetUserID); ok {
			recipients = append(recipients, recipient)
		} else {
			d.logger.Warn("notification target not found", "user_id", event.TargetUserID, "title", event.Title)
		}
	}

	for _, recipient := range recipients {
		d.deliverUser(ctx, event, recipient)
	}

	if event.ClientEmail != nil {
		if err := d.mailer.Send(ctx, *event.ClientEmail); err != nil {
			d.logger.Error("send client email", "to", event.ClientEmail.To, "subject", event.ClientEmail.Subject, "error", err)
		}
	}
}

func (d *Dispatcher) deliverUser(ctx context.Context, event Event, recipient Recipient) {
	n := Notification{
		ID:         uuid.NewString(),
		UserID:     recipient.UserID,
		Kind:       event.Kind,
		Title:      event.Title,
		Message:    event.Message,
		Module:     event.Module,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		ActionURL:  event.ActionURL,
		CreatedAt:  time.Now().UTC().UnixMilli(),
	}
	if err := d.notifier.Notify(ctx, n); err != nil {
		d.logger.Error("deliver notification", "user_id", recipient.UserID, "title", event.Title, "entity_id", event.EntityID, "error", err)
	}
	if event.SendEmail && recipient.Email != "" {
		email := Email{
			To:      recipient.Email,
			Subject: event.Title,
			Data:    map[string]string{"message": event.Message},
		}
		if err := d.mailer.Send(ctx, email); err != nil {
			d.logger.Error("send recipient email", "to", recipient.Email, "subject", email.Subject, "error", err)
		}
	}
}
