package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendExpertContactedEmail(ctx context.Context, toEmail, expertName, noticeTitle, noticeURL string) error {
	subject := fmt.Sprintf(subjectExpertContactedFmt, noticeTitle)
	content, err := renderEmailTemplate("expert_contacted.html", expertContactedEmailData{
		baseEmailData: baseEmailData{
			Title:    "Avis d'enquête",
			Heading:  "Un journaliste souhaite vous solliciter",
			CTALabel: "Voir l'avis d'enquête",
			CTAURL:   noticeURL,
		},
		ExpertName:  expertName,
		NoticeTitle: noticeTitle,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendRDVProposedEmail(ctx context.Context, toEmail, expertName, rdvType string, slots []string, contactURL string) error {
	content, err := renderEmailTemplate("rdv_proposed.html", rdvProposedEmailData{
		baseEmailData: baseEmailData{
			Title:    "Proposition de rendez-vous",
			Heading:  "Proposition de rendez-vous",
			CTALabel: "Choisir un créneau",
			CTAURL:   contactURL,
		},
		ExpertName: expertName,
		RDVType:    rdvTypeLabel(rdvType),
		Slots:      slots,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectRDVProposed, content)
}

func (s *SMTPSender) SendRDVAcceptedEmail(ctx context.Context, toEmail, journalistName, expertName, slot, contactURL string) error {
	subject := fmt.Sprintf(subjectRDVAcceptedFmt, expertName)
	content, err := renderEmailTemplate("rdv_accepted.html", rdvAcceptedEmailData{
		baseEmailData: baseEmailData{
			Title:    "Rendez-vous accepté",
			Heading:  "Créneau accepté",
			CTALabel: "Confirmer le rendez-vous",
			CTAURL:   contactURL,
		},
		JournalistName: journalistName,
		ExpertName:     expertName,
		Slot:           slot,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendRDVDeclinedEmail(ctx context.Context, toEmail, journalistName, expertName, contactURL string) error {
	subject := fmt.Sprintf(subjectRDVDeclinedFmt, expertName)
	content, err := renderEmailTemplate("rdv_declined.html", rdvDeclinedEmailData{
		baseEmailData: baseEmailData{
			Title:    "Créneaux déclinés",
			Heading:  "Aucun créneau ne convient",
			CTALabel: "Proposer d'autres créneaux",
			CTAURL:   contactURL,
		},
		JournalistName: journalistName,
		ExpertName:     expertName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendRDVConfirmedEmail(ctx context.Context, toEmail, recipientName, rdvType, rdvAt, coordinates string) error {
	content, err := renderEmailTemplate("rdv_confirmed.html", rdvConfirmedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Rendez-vous confirmé",
			Heading: "Votre rendez-vous est confirmé",
		},
		RecipientName: recipientName,
		RDVType:       rdvTypeLabel(rdvType),
		RDVAt:         rdvAt,
		Coordinates:   coordinates,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectRDVConfirmed, content)
}

func (s *SMTPSender) SendRDVCancelledEmail(ctx context.Context, toEmail, recipientName, noticeTitle string) error {
	content, err := renderEmailTemplate("rdv_cancelled.html", rdvCancelledEmailData{
		baseEmailData: baseEmailData{
			Title:   "Rendez-vous annulé",
			Heading: "Rendez-vous annulé",
		},
		RecipientName: recipientName,
		NoticeTitle:   noticeTitle,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectRDVCancelled, content)
}

func (s *SMTPSender) SendRDVReminderEmail(ctx context.Context, toEmail, recipientName, rdvType, rdvAt, coordinates string) error {
	content, err := renderEmailTemplate("rdv_reminder.html", rdvReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Rappel de rendez-vous",
			Heading: "Votre rendez-vous approche",
		},
		RecipientName: recipientName,
		RDVType:       rdvTypeLabel(rdvType),
		RDVAt:         rdvAt,
		Coordinates:   coordinates,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectRDVReminder, content)
}
