// Package email delivers the transactional emails of the platform:
// outreach to experts and the RDV negotiation notifications.
package email

import (
	"context"

	"github.com/aipress24/aipress24-sub001/platform/config"
)

// Sender sends transactional emails. All methods are safe to call from
// event handlers; failures are reported, never panicked.
type Sender interface {
	SendExpertContactedEmail(ctx context.Context, toEmail, expertName, noticeTitle, noticeURL string) error
	SendRDVProposedEmail(ctx context.Context, toEmail, expertName, rdvType string, slots []string, contactURL string) error
	SendRDVAcceptedEmail(ctx context.Context, toEmail, journalistName, expertName, slot, contactURL string) error
	SendRDVDeclinedEmail(ctx context.Context, toEmail, journalistName, expertName, contactURL string) error
	SendRDVConfirmedEmail(ctx context.Context, toEmail, recipientName, rdvType, rdvAt, coordinates string) error
	SendRDVCancelledEmail(ctx context.Context, toEmail, recipientName, noticeTitle string) error
	SendRDVReminderEmail(ctx context.Context, toEmail, recipientName, rdvType, rdvAt, coordinates string) error
}

// NoopSender discards every email. Used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendExpertContactedEmail(ctx context.Context, toEmail, expertName, noticeTitle, noticeURL string) error {
	return nil
}

func (NoopSender) SendRDVProposedEmail(ctx context.Context, toEmail, expertName, rdvType string, slots []string, contactURL string) error {
	return nil
}

func (NoopSender) SendRDVAcceptedEmail(ctx context.Context, toEmail, journalistName, expertName, slot, contactURL string) error {
	return nil
}

func (NoopSender) SendRDVDeclinedEmail(ctx context.Context, toEmail, journalistName, expertName, contactURL string) error {
	return nil
}

func (NoopSender) SendRDVConfirmedEmail(ctx context.Context, toEmail, recipientName, rdvType, rdvAt, coordinates string) error {
	return nil
}

func (NoopSender) SendRDVCancelledEmail(ctx context.Context, toEmail, recipientName, noticeTitle string) error {
	return nil
}

func (NoopSender) SendRDVReminderEmail(ctx context.Context, toEmail, recipientName, rdvType, rdvAt, coordinates string) error {
	return nil
}

// NewSender builds the configured sender. Returns NoopSender when email
// delivery is disabled.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
