package notification

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/google/uuid"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// TemplateData is the set of fields available to every template.
type TemplateData struct {
	RecipientName  string
	ApplicantName  string
	ApplicationID  int64
	JobID          int64
	JobTitle       string
	Status         string
	PreviousStatus string
	Link           string
}

var subjects = map[Kind]string{
	KindApplicationReceived: "Application received: %s",
	KindNewApplicant:        "New applicant for %s",
	KindStatusChanged:       "Application update: %s",
	KindTest:                "Test notification%s",
}

type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Renderer{html: html, text: text}, nil
}

// Render builds a message addressed to the given recipient.
func (r *Renderer) Render(kind Kind, to, toName string, data TemplateData) (Message, error) {
	format, ok := subjects[kind]
	if !ok {
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}

	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, string(kind)+".html", data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", kind, err)
	}
	if err := r.text.ExecuteTemplate(&text, string(kind)+".txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", kind, err)
	}

	return Message{
		ID:       uuid.New().String(),
		Kind:     kind,
		To:       to,
		ToName:   toName,
		Subject:  fmt.Sprintf(format, data.JobTitle),
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}
