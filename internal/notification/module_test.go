package notification

import (
	"context"
	"testing"
	"time"

	"github.com/aipress24/aipress24-sub001/internal/events"
	"github.com/aipress24/aipress24-sub001/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct{}

func (testNotificationConfig) GetAppBaseURL() string { return "https://app.example.com/" }

type testSender struct {
	contactedCalls int
}

func (s *testSender) SendExpertContactedEmail(context.Context, string, string, string, string) error {
	s.contactedCalls++
	return nil
}
func (s *testSender) SendRDVProposedEmail(context.Context, string, string, string, []string, string) error {
	return nil
}
func (s *testSender) SendRDVAcceptedEmail(context.Context, string, string, string, string, string) error {
	return nil
}
func (s *testSender) SendRDVDeclinedEmail(context.Context, string, string, string, string) error {
	return nil
}
func (s *testSender) SendRDVConfirmedEmail(context.Context, string, string, string, string, string) error {
	return nil
}
func (s *testSender) SendRDVCancelledEmail(context.Context, string, string, string) error {
	return nil
}
func (s *testSender) SendRDVReminderEmail(context.Context, string, string, string, string, string) error {
	return nil
}

type unknownEvent struct{ events.BaseEvent }

func (unknownEvent) EventName() string { return "test.unknown" }

func TestHandleIgnoresUnknownEvents(t *testing.T) {
	m := New(nil, &testSender{}, testNotificationConfig{}, logger.New("development"))

	if err := m.Handle(context.Background(), unknownEvent{}); err != nil {
		t.Fatalf("unknown event should be ignored, got error: %v", err)
	}
}

func TestURLBuildersTrimTrailingSlash(t *testing.T) {
	m := New(nil, &testSender{}, testNotificationConfig{}, logger.New("development"))
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	contactURL := m.contactURL(id)
	want := "https://app.example.com/newsroom/contacts/11111111-2222-3333-4444-555555555555"
	if contactURL != want {
		t.Fatalf("contact URL = %q, want %q", contactURL, want)
	}

	noticeURL := m.noticeURL(id)
	want = "https://app.example.com/newsroom/notices/11111111-2222-3333-4444-555555555555"
	if noticeURL != want {
		t.Fatalf("notice URL = %q, want %q", noticeURL, want)
	}
}

func TestFrTime(t *testing.T) {
	ts := time.Date(2026, time.March, 9, 14, 30, 0, 0, time.UTC)
	if got := frTime(ts); got != "09/03/2026 à 14h30" {
		t.Fatalf("frTime = %q", got)
	}
}
