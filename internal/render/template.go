// Package render renders campaign bodies through the Liquid template
// language, so a campaign can personalize its content per contact:
//
//	Hi {{ contact.name | default: "there" }}, we found {{ contact.value }}.
package render

import (
	"fmt"
	"sync"

	"github.com/osteele/liquid"

	"github.com/juiceai/juice-server/internal/domain"
)

// TemplateService renders Liquid templates with parsed-template caching.
type TemplateService struct {
	engine *liquid.Engine
	cache  sync.Map // template source → *liquid.Template
}

// NewTemplateService creates a renderer with the custom filters
// campaign content relies on.
func NewTemplateService() *TemplateService {
	ts := &TemplateService{engine: liquid.NewEngine()}

	// {{ first_name | default: "Friend" }}
	ts.engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		if s := fmt.Sprintf("%v", value); s == "" || s == "<nil>" {
			return defaultVal
		}
		return value
	})

	return ts
}

// Render renders the template source with the given bindings.
func (ts *TemplateService) Render(source string, bindings map[string]any) (string, error) {
	var tpl *liquid.Template
	if cached, ok := ts.cache.Load(source); ok {
		tpl = cached.(*liquid.Template)
	} else {
		parsed, err := ts.engine.ParseString(source)
		if err != nil {
			return "", fmt.Errorf("parse template: %w", err)
		}
		ts.cache.Store(source, parsed)
		tpl = parsed
	}

	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

// RenderForContact renders a campaign body for one recipient contact.
func (ts *TemplateService) RenderForContact(c *domain.Campaign, contact *domain.Contact) (string, error) {
	bindings := map[string]any{
		"campaign": map[string]any{
			"name":    c.Name,
			"subject": c.Subject,
		},
		"contact": contactBindings(contact),
	}
	return ts.Render(c.Body, bindings)
}

func contactBindings(contact *domain.Contact) map[string]any {
	b := map[string]any{
		"type":   string(contact.Type),
		"value":  contact.Value,
		"source": contact.Source,
	}
	for k, v := range contact.Metadata {
		b[k] = v
	}
	return b
}
