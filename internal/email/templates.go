package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type expertContactedEmailData struct {
	baseEmailData
	ExpertName  string
	NoticeTitle string
}

type rdvProposedEmailData struct {
	baseEmailData
	ExpertName string
	RDVType    string
	Slots      []string
}

type rdvAcceptedEmailData struct {
	baseEmailData
	JournalistName string
	ExpertName     string
	Slot           string
}

type rdvDeclinedEmailData struct {
	baseEmailData
	JournalistName string
	ExpertName     string
}

type rdvConfirmedEmailData struct {
	baseEmailData
	RecipientName string
	RDVType       string
	RDVAt         string
	Coordinates   string
}

type rdvCancelledEmailData struct {
	baseEmailData
	RecipientName string
	NoticeTitle   string
}

type rdvReminderEmailData struct {
	baseEmailData
	RecipientName string
	RDVType       string
	RDVAt         string
	Coordinates   string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// rdvTypeLabel maps the RDV type code to its French label.
func rdvTypeLabel(rdvType string) string {
	switch rdvType {
	case "PHONE":
		return "par téléphone"
	case "VIDEO":
		return "en visioconférence"
	case "IN_PERSON":
		return "en personne"
	default:
		return rdvType
	}
}
