package notify

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	apperrors "gearguard-backend/internal/errors"
)

// Built-in template ids
const (
	TemplateWarrantyAlert   = "warranty_alert"
	TemplateOverdueReminder = "overdue_reminder"
)

const warrantyAlertSubject = `Warranty alert: {{.Equipment}}`

const warrantyAlertBody = `Warranty alert notification for {{.Equipment}}.
{{- if .WarrantyDate}}
Warranty ends on {{.WarrantyDate}}{{if gt .DaysToEnd 0}} ({{.DaysToEnd}} days left){{else}} (expired){{end}}.
{{- else}}
No warranty date is recorded.
{{- end}}`

const overdueReminderSubject = `{{len .Requests}} overdue maintenance request{{if ne (len .Requests) 1}}s{{end}}`

const overdueReminderBody = `Hello {{.Technician}},
the following maintenance requests are overdue:
{{- range .Requests}}
- {{.Name}} ({{.Equipment}}): scheduled {{.ScheduleDate}}, {{.DaysOverdue}} days overdue
{{- end}}`

// WarrantyAlertData is the input of the warranty_alert template
type WarrantyAlertData struct {
	Equipment    string
	WarrantyDate string
	DaysToEnd    int
	State        string
}

// OverdueItem is one request listed in an overdue reminder
type OverdueItem struct {
	Name         string
	Equipment    string
	ScheduleDate string
	DaysOverdue  int
}

// OverdueReminderData is the input of the overdue_reminder template
type OverdueReminderData struct {
	Technician string
	Requests   []OverdueItem
}

// Message is a rendered subject and body
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type messageTemplate struct {
	subject *template.Template
	body    *template.Template
}

// Registry holds the notification templates by id
type Registry struct {
	templates map[string]messageTemplate
}

// NewRegistry creates a registry with the built-in templates
func NewRegistry() *Registry {
	r := &Registry{templates: map[string]messageTemplate{}}
	r.MustRegister(TemplateWarrantyAlert, warrantyAlertSubject, warrantyAlertBody)
	r.MustRegister(TemplateOverdueReminder, overdueReminderSubject, overdueReminderBody)
	return r
}

// Register parses and adds a template, replacing one with the same id
func (r *Registry) Register(id, subject, body string) error {
	s, err := template.New(id + ".subject").Parse(subject)
	if err != nil {
		return fmt.Errorf("parse %s subject: %w", id, err)
	}
	b, err := template.New(id + ".body").Parse(body)
	if err != nil {
		return fmt.Errorf("parse %s body: %w", id, err)
	}
	r.templates[id] = messageTemplate{subject: s, body: b}
	return nil
}

// MustRegister is Register for templates known at compile time
func (r *Registry) MustRegister(id, subject, body string) {
	if err := r.Register(id, subject, body); err != nil {
		panic(err)
	}
}

// Has reports whether a template is registered
func (r *Registry) Has(id string) bool {
	_, ok := r.templates[id]
	return ok
}

// IDs lists the registered template ids
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Render executes a template against data
func (r *Registry) Render(id string, data interface{}) (*Message, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, apperrors.ErrTemplateNotFound
	}

	var subject, body bytes.Buffer
	if err := t.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("render %s subject: %w", id, err)
	}
	if err := t.body.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render %s body: %w", id, err)
	}
	return &Message{
		Subject: strings.TrimSpace(subject.String()),
		Body:    strings.TrimSpace(body.String()),
	}, nil
}
