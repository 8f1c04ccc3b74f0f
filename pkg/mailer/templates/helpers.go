package templates

import (
	"fmt"

	"github.com/oksasatya/go-ddd-campus/config"
)

// Option pattern
type Option func(*EmailData)

func WithRole(role string) Option { return func(d *EmailData) { d.Role = role } }
func WithClass(code, name string) Option {
	return func(d *EmailData) {
		d.ClassCode = code
		d.ClassName = name
	}
}

func NewBaseEmailData(name, email string, opts ...Option) EmailData {
	d := EmailData{Name: name, Email: email, RecipientEmail: email}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(name, email, role string) map[string]any {
	return ToMap(NewBaseEmailData(name, email, WithRole(role)))
}

func NewEnrollmentData(name, email, role, classCode, className string) map[string]any {
	return ToMap(NewBaseEmailData(name, email, WithRole(role), WithClass(classCode, className)))
}

// Branding returns the company fields every template may use, from config.
func Branding(cfg *config.Config) map[string]any {
	return map[string]any{
		"AppName":        cfg.AppName,
		"CompanyName":    cfg.CompanyName,
		"CompanyAddress": cfg.CompanyAddress,
		"LogoURL":        cfg.LogoURL,
		"SupportURL":     cfg.SupportURL,
	}
}

// ApplyDefaults copies defaults into data for keys that are missing or empty.
func ApplyDefaults(data, defaults map[string]any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	for k, v := range defaults {
		if cur, ok := data[k]; !ok || fmt.Sprintf("%v", cur) == "" {
			data[k] = v
		}
	}
	return data
}
