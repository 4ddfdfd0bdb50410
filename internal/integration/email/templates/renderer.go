// Package templates renders the outgoing emails. Every template exists as a
// .html and a .txt file with the same base name.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed *.html *.txt
var templateFS embed.FS

// Renderer executes the embedded templates.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded templates. It fails when an HTML template
// has no text counterpart, so a job can never be sent with an empty body.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	for _, t := range html.Templates() {
		base, ok := strings.CutSuffix(t.Name(), ".html")
		if !ok {
			continue
		}
		if text.Lookup(base+".txt") == nil {
			return nil, fmt.Errorf("template %s has no text version", base)
		}
	}

	return &Renderer{html: html, text: text}, nil
}

// Render produces the HTML and plain text bodies of the named template.
func (r *Renderer) Render(name string, data any) (html, text string, err error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := r.html.ExecuteTemplate(&htmlBuf, name+".html", data); err != nil {
		return "", "", fmt.Errorf("failed to render %s.html: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&textBuf, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("failed to render %s.txt: %w", name, err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// PasswordResetData feeds password_reset.
type PasswordResetData struct {
	UserName  string `json:"user_name"`
	ResetURL  string `json:"reset_url"`
	ExpiresIn string `json:"expires_in"`
}

// InstallmentReminderData feeds installment_reminder.
type InstallmentReminderData struct {
	UserName     string         `json:"user_name"`
	Items        []ReminderLine `json:"items"`
	TotalDue     string         `json:"total_due"`
	OverdueCount int            `json:"overdue_count"`
	CalendarURL  string         `json:"calendar_url"`
}

// ReminderLine is one installment row of a reminder email.
type ReminderLine struct {
	Description       string `json:"description"`
	CardName          string `json:"card_name"`
	InstallmentNumber int    `json:"installment_number"`
	TotalInstallments int    `json:"total_installments"`
	Amount            string `json:"amount"`
	DueDate           string `json:"due_date"`
	Overdue           bool   `json:"overdue"`
}
