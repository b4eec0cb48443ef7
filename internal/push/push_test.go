package push

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kedarvyas/mandirapp/internal/config"
	"github.com/kedarvyas/mandirapp/internal/repository"
	"github.com/kedarvyas/mandirapp/pkg/logger"
)

func TestRouteForType(t *testing.T) {
	tests := []struct {
		name string
		typ  NotificationType
		want Destination
	}{
		{name: "announcement routes to news", typ: TypeAnnouncement, want: DestinationNews},
		{name: "check-in routes to home", typ: TypeCheckIn, want: DestinationHome},
		{name: "unknown type falls back to home", typ: NotificationType("mystery"), want: DestinationHome},
		{name: "empty type falls back to home", typ: NotificationType(""), want: DestinationHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RouteForType(tt.typ); got != tt.want {
				t.Errorf("RouteForType(%q) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

type fakeMemberRepo struct {
	members []repository.Member
}

func (f *fakeMemberRepo) List(ctx context.Context, filter repository.MemberRepositoryFilter) ([]repository.Member, error) {
	return f.members, nil
}

type recordingNotifier struct {
	sent    []string
	failFor string
}

func (n *recordingNotifier) Send(ctx context.Context, deviceToken string, notification Notification) error {
	if deviceToken == n.failFor {
		return errors.New("delivery failed")
	}
	n.sent = append(n.sent, deviceToken)
	return nil
}

func TestBroadcastSkipsUnreachableMembers(t *testing.T) {
	orgID := uuid.New()
	repo := &fakeMemberRepo{members: []repository.Member{
		{
			ID:                   uuid.New(),
			PushToken:            sql.NullString{String: "device-1", Valid: true},
			NotificationsEnabled: true,
		},
		{
			// Opted out.
			ID:                   uuid.New(),
			PushToken:            sql.NullString{String: "device-2", Valid: true},
			NotificationsEnabled: false,
		},
		{
			// Never registered a device.
			ID:                   uuid.New(),
			NotificationsEnabled: true,
		},
		{
			ID:                   uuid.New(),
			PushToken:            sql.NullString{String: "device-4", Valid: true},
			NotificationsEnabled: true,
		},
	}}

	notifier := &recordingNotifier{}
	service := NewService(logger.New(&config.Config{}), notifier, repo)

	err := service.Broadcast(context.Background(), orgID, Notification{
		Type:  TypeAnnouncement,
		Title: "Diwali schedule",
	})
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	want := []string{"device-1", "device-4"}
	if len(notifier.sent) != len(want) {
		t.Fatalf("sent to %v, want %v", notifier.sent, want)
	}
	for i := range want {
		if notifier.sent[i] != want[i] {
			t.Errorf("sent[%d] = %q, want %q", i, notifier.sent[i], want[i])
		}
	}
}

// One bad device must not stop delivery to the rest.
func TestBroadcastContinuesPastFailures(t *testing.T) {
	repo := &fakeMemberRepo{members: []repository.Member{
		{ID: uuid.New(), PushToken: sql.NullString{String: "device-1", Valid: true}, NotificationsEnabled: true},
		{ID: uuid.New(), PushToken: sql.NullString{String: "device-2", Valid: true}, NotificationsEnabled: true},
	}}

	notifier := &recordingNotifier{failFor: "device-1"}
	service := NewService(logger.New(&config.Config{}), notifier, repo)

	err := service.Broadcast(context.Background(), uuid.New(), Notification{Type: TypeCheckIn})
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != "device-2" {
		t.Errorf("sent = %v, want [device-2]", notifier.sent)
	}
}
