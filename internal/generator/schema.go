package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nepfy/nepfy-backend/internal/agents"
	"github.com/nepfy/nepfy-backend/internal/projects/domain"
)

// schema checks a decoded model answer and builds the section from it. The
// returned value is only meaningful when the checker recorded no violation.
type schema func(c *agents.Checker, obj map[string]any) any

var schemas = map[domain.SectionKey]schema{
	domain.SectionIntroduction: introductionSchema,
	domain.SectionAboutUs:      aboutUsSchema,
	domain.SectionExpertise:    expertiseSchema,
	domain.SectionDeliverables: deliverablesSchema,
	domain.SectionTerms:        termsSchema,
	domain.SectionFAQ:          faqSchema,
	domain.SectionFooter:       footerSchema,
}

// Generatable reports whether section can be produced by the model.
func Generatable(section domain.SectionKey) bool {
	_, ok := schemas[section]
	return ok
}

// parseOutput decodes the model text and validates it against the schema
// for section, returning the section's JSON.
func parseOutput(section domain.SectionKey, text string) (json.RawMessage, error) {
	sc, ok := schemas[section]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotGeneratable, section)
	}

	var c agents.Checker
	var decoded any
	if err := json.Unmarshal([]byte(stripFences(text)), &decoded); err != nil {
		c.Fail("output", "output must be a JSON object: "+err.Error())
		return nil, c.Err()
	}
	obj, ok := c.Object(decoded, "output")
	if !ok {
		return nil, c.Err()
	}

	value := sc(&c, obj)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return json.Marshal(value)
}

// stripFences removes a markdown code fence the model may wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func text(c *agents.Checker, obj map[string]any, key, field string, max int) string {
	s, ok := c.String(obj[key], field)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	c.LengthBetween(s, 1, max, field)
	return s
}

// list checks obj[key] is an array of min..max objects and calls fn for
// each one with its field prefix.
func list(c *agents.Checker, obj map[string]any, key, field string, min, max int, fn func(i int, item map[string]any, prefix string)) {
	items, ok := c.Array(obj[key], field)
	if !ok {
		return
	}
	c.ItemCount(items, min, max, field)
	for i, raw := range items {
		prefix := fmt.Sprintf("%s[%d]", field, i)
		if item, ok := c.Object(raw, prefix); ok {
			fn(i, item, prefix)
		}
	}
}

func introductionSchema(c *agents.Checker, obj map[string]any) any {
	out := &domain.Introduction{
		Title:    text(c, obj, "title", "introduction.title", 60),
		Subtitle: text(c, obj, "subtitle", "introduction.subtitle", 100),
		Services: []domain.IntroService{},
	}

	items, ok := c.Array(obj["services"], "introduction.services")
	if !ok {
		return out
	}
	c.ItemCount(items, 1, 6, "introduction.services")
	for i, raw := range items {
		field := fmt.Sprintf("introduction.services[%d]", i)
		if s, ok := c.String(raw, field); ok && c.LengthBetween(s, 1, 30, field) {
			out.Services = append(out.Services, domain.IntroService{ServiceName: s, SortOrder: i})
		}
	}
	return out
}

func aboutUsSchema(c *agents.Checker, obj map[string]any) any {
	return &domain.AboutUs{
		Title:       text(c, obj, "title", "aboutUs.title", 155),
		Subtitle:    text(c, obj, "subtitle", "aboutUs.subtitle", 250),
		MarqueeText: text(c, obj, "marqueeText", "aboutUs.marqueeText", 60),
	}
}

func expertiseSchema(c *agents.Checker, obj map[string]any) any {
	out := &domain.Expertise{
		Title:  text(c, obj, "title", "expertise.title", 60),
		Topics: []domain.ExpertiseTopic{},
	}
	list(c, obj, "topics", "expertise.topics", 1, 9, func(i int, item map[string]any, p string) {
		out.Topics = append(out.Topics, domain.ExpertiseTopic{
			Title:       text(c, item, "title", p+".title", 30),
			Description: text(c, item, "description", p+".description", 130),
			SortOrder:   i,
		})
	})
	return out
}

func deliverablesSchema(c *agents.Checker, obj map[string]any) any {
	out := &domain.Deliverables{Items: []domain.Deliverable{}}
	list(c, obj, "items", "deliverables.items", 2, 5, func(i int, item map[string]any, p string) {
		out.Items = append(out.Items, domain.Deliverable{
			Title:       text(c, item, "title", p+".title", 35),
			Description: text(c, item, "description", p+".description", 300),
			SortOrder:   i,
		})
	})
	return out
}

func termsSchema(c *agents.Checker, obj map[string]any) any {
	out := &domain.Terms{Items: []domain.Term{}}
	list(c, obj, "items", "terms.items", 1, 3, func(i int, item map[string]any, p string) {
		out.Items = append(out.Items, domain.Term{
			Title:       text(c, item, "title", p+".title", 30),
			Description: text(c, item, "description", p+".description", 180),
			SortOrder:   i,
		})
	})
	return out
}

func faqSchema(c *agents.Checker, obj map[string]any) any {
	out := &domain.FAQ{Items: []domain.FAQItem{}}
	list(c, obj, "items", "faq.items", 4, 10, func(i int, item map[string]any, p string) {
		out.Items = append(out.Items, domain.FAQItem{
			Question:  text(c, item, "question", p+".question", 100),
			Answer:    text(c, item, "answer", p+".answer", 300),
			SortOrder: i,
		})
	})
	return out
}

func footerSchema(c *agents.Checker, obj map[string]any) any {
	return &domain.Footer{
		ThankYouMessage: text(c, obj, "thankYouMessage", "footer.thankYouMessage", 60),
		CTAMessage:      text(c, obj, "ctaMessage", "footer.ctaMessage", 120),
	}
}
