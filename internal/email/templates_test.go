package email

import (
	"strings"
	"testing"
)

func TestRenderEmailTemplates(t *testing.T) {
	cases := []struct {
		template string
		data     any
		want     []string
	}{
		{
			template: "expert_contacted.html",
			data: expertContactedEmailData{
				baseEmailData: baseEmailData{Title: "Avis d'enquête", Heading: "Avis", CTALabel: "Voir", CTAURL: "https://example.com/n/1"},
				ExpertName:    "Marie Durand",
				NoticeTitle:   "Transition énergétique",
			},
			want: []string{"Marie Durand", "Transition énergétique", "https://example.com/n/1"},
		},
		{
			template: "rdv_proposed.html",
			data: rdvProposedEmailData{
				baseEmailData: baseEmailData{Title: "Proposition", Heading: "Proposition", CTALabel: "Choisir", CTAURL: "https://example.com/c/1"},
				ExpertName:    "Marie Durand",
				RDVType:       "par téléphone",
				Slots:         []string{"09/03/2026 à 14h30", "10/03/2026 à 10h00"},
			},
			want: []string{"par téléphone", "09/03/2026 à 14h30", "10/03/2026 à 10h00"},
		},
		{
			template: "rdv_accepted.html",
			data: rdvAcceptedEmailData{
				baseEmailData:  baseEmailData{Title: "Accepté", Heading: "Accepté", CTALabel: "Confirmer", CTAURL: "https://example.com/c/1"},
				JournalistName: "Paul Martin",
				ExpertName:     "Marie Durand",
				Slot:           "09/03/2026 à 14h30",
			},
			want: []string{"Paul Martin", "Marie Durand", "09/03/2026 à 14h30"},
		},
		{
			template: "rdv_declined.html",
			data: rdvDeclinedEmailData{
				baseEmailData:  baseEmailData{Title: "Décliné", Heading: "Décliné", CTALabel: "Proposer", CTAURL: "https://example.com/c/1"},
				JournalistName: "Paul Martin",
				ExpertName:     "Marie Durand",
			},
			want: []string{"Marie Durand", "décliné"},
		},
		{
			template: "rdv_confirmed.html",
			data: rdvConfirmedEmailData{
				baseEmailData: baseEmailData{Title: "Confirmé", Heading: "Confirmé"},
				RecipientName: "Marie Durand",
				RDVType:       "en visioconférence",
				RDVAt:         "09/03/2026 à 14h30",
				Coordinates:   "https://meet.example.com/abc",
			},
			want: []string{"en visioconférence", "https://meet.example.com/abc"},
		},
		{
			template: "rdv_cancelled.html",
			data: rdvCancelledEmailData{
				baseEmailData: baseEmailData{Title: "Annulé", Heading: "Annulé"},
				RecipientName: "Paul Martin",
				NoticeTitle:   "Transition énergétique",
			},
			want: []string{"Transition énergétique", "annulé"},
		},
		{
			template: "rdv_reminder.html",
			data: rdvReminderEmailData{
				baseEmailData: baseEmailData{Title: "Rappel", Heading: "Rappel"},
				RecipientName: "Marie Durand",
				RDVType:       "en personne",
				RDVAt:         "09/03/2026 à 14h30",
				Coordinates:   "12 rue de la Paix, Paris",
			},
			want: []string{"en personne", "12 rue de la Paix, Paris"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.template, func(t *testing.T) {
			html, err := renderEmailTemplate(tc.template, tc.data)
			if err != nil {
				t.Fatalf("render failed: %v", err)
			}
			for _, fragment := range tc.want {
				if !strings.Contains(html, fragment) {
					t.Errorf("rendered email missing %q", fragment)
				}
			}
		})
	}
}

func TestRDVTypeLabel(t *testing.T) {
	cases := map[string]string{
		"PHONE":     "par téléphone",
		"VIDEO":     "en visioconférence",
		"IN_PERSON": "en personne",
		"OTHER":     "OTHER",
	}
	for in, want := range cases {
		if got := rdvTypeLabel(in); got != want {
			t.Errorf("rdvTypeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNoopSenderNeverFails(t *testing.T) {
	var s Sender = NoopSender{}
	if err := s.SendRDVConfirmedEmail(t.Context(), "a@b.fr", "A", "PHONE", "now", "+33612345678"); err != nil {
		t.Fatalf("noop sender returned %v", err)
	}
}
