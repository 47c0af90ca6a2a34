package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type stubDirectory struct {
	roles map[string][]Recipient
	users map[string]Recipient
}

func (d stubDirectory) ActiveUsersByRole(_ context.Context, role string) ([]Recipient, error) {
	return d.roles[role], nil
}

func (d stubDirectory) User(_ context.Context, id string) (Recipient, bool) {
	r, ok := d.users[id]
	return r, ok
}

type recordingMailer struct {
	mu     sync.Mutex
	sent   []Email
	failTo map[string]bool
}

func (m *recordingMailer) Send(_ context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[email.To] {
		return fmt.Errorf("smtp refused %s", email.To)
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *recordingMailer) delivered() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.sent))
	copy(out, m.sent)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestDispatcherDeliversToUserAndClient(t *testing.T) {
	center := NewCenter(0)
	mailer := &recordingMailer{}
	dir := stubDirectory{users: map[string]Recipient{
		"agent-1": {UserID: "agent-1", Email: "agent@example.com"},
	}}
	d := NewDispatcher(center, mailer, dir)
	d.Start()
	defer func() { _ = d.Stop(context.Background()) }()

	d.Enqueue(Event{
		TargetUserID: "agent-1",
		Kind:         KindInfo,
		Title:        "New Showing Scheduled",
		Message:      "A showing has been scheduled",
		EntityType:   "showing",
		EntityID:     "s1",
		SendEmail:    true,
		ClientEmail: &Email{
			To:      "client@example.com",
			Subject: "Property Showing Confirmation",
		},
	})

	waitFor(t, func() bool { return len(mailer.delivered()) == 2 })
	if got := center.UnreadCount("agent-1"); got != 1 {
		t.Fatalf("expected 1 unread notification, got %d", got)
	}
	inbox := center.List("agent-1")
	if inbox[0].Module != Module {
		t.Fatalf("expected default module, got %s", inbox[0].Module)
	}
}

func TestDispatcherExpandsRoleAtDispatchTime(t *testing.T) {
	center := NewCenter(0)
	mailer := &recordingMailer{}
	dir := stubDirectory{roles: map[string][]Recipient{
		RoleManager: {
			{UserID: "mgr-1", Email: "mgr1@example.com"},
			{UserID: "mgr-2", Email: "mgr2@example.com"},
		},
	}}
	d := NewDispatcher(center, mailer, dir)
	d.Start()
	defer func() { _ = d.Stop(context.Background()) }()

	d.Enqueue(Event{Role: RoleManager, Kind: KindInfo, Title: "New Offer Received", SendEmail: true})

	waitFor(t, func() bool { return len(mailer.delivered()) == 2 })
	if center.UnreadCount("mgr-1") != 1 || center.UnreadCount("mgr-2") != 1 {
		t.Fatalf("expected both managers notified")
	}
}

func TestDispatcherIsolatesRecipientFailures(t *testing.T) {
	center := NewCenter(0)
	mailer := &recordingMailer{failTo: map[string]bool{"mgr1@example.com": true}}
	dir := stubDirectory{roles: map[string][]Recipient{
		RoleManager: {
			{UserID: "mgr-1", Email: "mgr1@example.com"},
			{UserID: "mgr-2", Email: "mgr2@example.com"},
		},
	}}
	d := NewDispatcher(center, mailer, dir)
	d.Start()
	defer func() { _ = d.Stop(context.Background()) }()

	d.Enqueue(Event{Role: RoleManager, Kind: KindWarning, Title: "Transaction Deleted", SendEmail: true})

	waitFor(t, func() bool { return len(mailer.delivered()) == 1 })
	if center.UnreadCount("mgr-2") != 1 {
		t.Fatalf("expected second manager still notified")
	}
	if center.UnreadCount("mgr-1") != 1 {
		t.Fatalf("expected in-app delivery despite email failure")
	}
}

func TestCenterMarkRead(t *testing.T) {
	center := NewCenter(2)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := center.Notify(ctx, Notification{ID: fmt.Sprintf("n%d", i), UserID: "u1", Title: "t"}); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	if got := len(center.List("u1")); got != 2 {
		t.Fatalf("expected capped inbox of 2, got %d", got)
	}
	if !center.MarkRead("u1", "n2") {
		t.Fatalf("expected mark read to find n2")
	}
	if center.MarkRead("u1", "n0") {
		t.Fatalf("expected evicted notification to be gone")
	}
	if got := center.UnreadCount("u1"); got != 1 {
		t.Fatalf("expected 1 unread, got %d", got)
	}
	if got := center.MarkAllRead("u1"); got != 1 {
		t.Fatalf("expected 1 affected, got %d", got)
	}
	if got := center.UnreadCount("u1"); got != 0 {
		t.Fatalf("expected 0 unread, got %d", got)
	}
}
