package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"sort"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

const (
	Welcome           = "welcome"
	EnrollmentCreated = "enrollment_created"
)

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Role           string `json:"Role,omitempty"`

	ClassCode string `json:"ClassCode,omitempty"`
	ClassName string `json:"ClassName,omitempty"`

	CompanyName    string `json:"CompanyName,omitempty"`
	CompanyAddress string `json:"CompanyAddress,omitempty"`
	AppName        string `json:"AppName,omitempty"`
	LogoURL        string `json:"LogoURL,omitempty"`
	SupportURL     string `json:"SupportURL,omitempty"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

var funcs = map[string]any{
	"now":        func() time.Time { return time.Now().UTC() },
	"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
	"upper":      strings.ToUpper,
	"default":    defaultFn,
	"humanize":   func(s string) string { return strings.ReplaceAll(s, "_", " ") },
}

// set is the parsed subject/text/html triple of one template name.
type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	loadOnce sync.Once
	sets     map[string]*set
	loadErr  error
)

// load parses every <name>.{subject,text,html}.tmpl triple in FS once.
func load() (map[string]*set, error) {
	loadOnce.Do(func() {
		sets = map[string]*set{}
		for _, name := range []string{Welcome, EnrollmentCreated} {
			s := &set{}
			if s.subject, loadErr = texttpl.New(name).Funcs(funcs).ParseFS(FS, name+".subject.tmpl"); loadErr != nil {
				break
			}
			if s.text, loadErr = texttpl.New(name).Funcs(funcs).ParseFS(FS, name+".text.tmpl"); loadErr != nil {
				break
			}
			if s.html, loadErr = htmpl.New(name).Funcs(funcs).ParseFS(FS, name+".html.tmpl"); loadErr != nil {
				break
			}
			sets[name] = s
		}
	})
	return sets, loadErr
}

// Known reports whether name has a template set.
func Known(name string) bool {
	s, err := load()
	if err != nil {
		return false
	}
	_, ok := s[name]
	return ok
}

// Names lists the available templates.
func Names() []string {
	s, _ := load()
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Render executes the subject, text and html templates for name.
func Render(name string, data any) (subject string, text string, html string, err error) {
	all, err := load()
	if err != nil {
		return "", "", "", fmt.Errorf("load templates: %w", err)
	}
	s, ok := all[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := s.subject.ExecuteTemplate(&buf, name+".subject.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("exec %s subject: %w", name, err)
	}
	subject = strings.TrimSpace(buf.String())
	buf.Reset()
	if err := s.text.ExecuteTemplate(&buf, name+".text.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("exec %s text: %w", name, err)
	}
	text = buf.String()
	buf.Reset()
	if err := s.html.ExecuteTemplate(&buf, name+".html.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("exec %s html: %w", name, err)
	}
	return subject, text, buf.String(), nil
}
