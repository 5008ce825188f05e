// Package render turns a proposal document into the ordered blocks a
// template displays. It never mutates the document.
package render

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/nepfy/nepfy-backend/internal/projects/domain"
)

// Field is one visible value of a block or item.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Item is one entry of a list section, already in display order.
type Item struct {
	SortOrder int     `json:"sortOrder"`
	Fields    []Field `json:"fields"`
	Items     []Item  `json:"items,omitempty"`
}

// Block is a visible section.
type Block struct {
	Key    domain.SectionKey `json:"key"`
	Fields []Field           `json:"fields"`
	Items  []Item            `json:"items,omitempty"`
}

// Page is the presentational form of a document for one template.
type Page struct {
	Template domain.TemplateType `json:"template"`
	Blocks   []Block             `json:"blocks"`
}

var layouts = map[domain.TemplateType][]domain.SectionKey{
	domain.TemplateFlash: {
		domain.SectionIntroduction, domain.SectionAboutUs, domain.SectionTeam,
		domain.SectionExpertise, domain.SectionResults, domain.SectionClients,
		domain.SectionCTA, domain.SectionTestimonials, domain.SectionDeliverables,
		domain.SectionInvestment, domain.SectionPlans, domain.SectionTerms,
		domain.SectionFAQ, domain.SectionFooter,
	},
	domain.TemplatePrime: {
		domain.SectionIntroduction, domain.SectionAboutUs, domain.SectionTeam,
		domain.SectionExpertise, domain.SectionResults, domain.SectionClients,
		domain.SectionCTA, domain.SectionTestimonials, domain.SectionInvestment,
		domain.SectionDeliverables, domain.SectionPlans, domain.SectionTerms,
		domain.SectionFAQ, domain.SectionFooter,
	},
	domain.TemplateMinimal: {
		domain.SectionIntroduction, domain.SectionAboutUs, domain.SectionTeam,
		domain.SectionClients, domain.SectionCTA, domain.SectionInvestment,
		domain.SectionDeliverables, domain.SectionPlans, domain.SectionTerms,
		domain.SectionFAQ, domain.SectionFooter,
	},
}

// Layout returns the section order of template. Unknown templates use the
// flash layout.
func Layout(template domain.TemplateType) []domain.SectionKey {
	if l, ok := layouts[template]; ok {
		return slices.Clone(l)
	}
	return slices.Clone(layouts[domain.TemplateFlash])
}

// Render builds the page for the document's own template. A nil document
// renders as an empty flash page.
func Render(doc *domain.Document) Page {
	if doc == nil {
		return RenderAs(nil, domain.TemplateFlash)
	}
	return RenderAs(doc, doc.Template)
}

// RenderAs builds the page for template regardless of the document's own
// template, which lets the editor preview a template switch.
func RenderAs(doc *domain.Document, template domain.TemplateType) Page {
	d := doc.Clone()
	d.Normalize()
	if !template.Valid() {
		template = domain.TemplateFlash
	}

	page := Page{Template: template, Blocks: make([]Block, 0, len(domain.SectionKeys))}
	for _, key := range Layout(template) {
		if b, ok := renderSection(d, key); ok {
			page.Blocks = append(page.Blocks, b)
		}
	}
	return page
}

// Has reports whether the page contains a block for key.
func (p Page) Has(key domain.SectionKey) bool {
	return slices.ContainsFunc(p.Blocks, func(b Block) bool { return b.Key == key })
}

// Block returns the block for key.
func (p Page) Block(key domain.SectionKey) (Block, bool) {
	i := slices.IndexFunc(p.Blocks, func(b Block) bool { return b.Key == key })
	if i < 0 {
		return Block{}, false
	}
	return p.Blocks[i], true
}

type fields []Field

// add appends a field unless it is hidden or blank.
func (f *fields) add(name, value string, hidden bool) {
	if hidden || strings.TrimSpace(value) == "" {
		return
	}
	*f = append(*f, Field{Name: name, Value: value})
}

func sorted(items []Item) []Item {
	slices.SortStableFunc(items, func(a, b Item) int { return cmp.Compare(a.SortOrder, b.SortOrder) })
	return items
}

func renderSection(d *domain.Document, key domain.SectionKey) (Block, bool) {
	b := Block{Key: key}
	var f fields

	switch key {
	case domain.SectionIntroduction:
		s := d.Introduction
		if s.HideSection {
			return b, false
		}
		f.add("userName", s.UserName, false)
		f.add("email", s.Email, false)
		f.add("title", s.Title, false)
		f.add("subtitle", s.Subtitle, s.HideSubtitle)
		f.add("buttonTitle", s.ButtonTitle, false)
		for _, it := range s.Services {
			var itf fields
			itf.add("serviceName", it.ServiceName, false)
			b.Items = append(b.Items, Item{SortOrder: it.SortOrder, Fields: itf})
		}

	case domain.SectionAboutUs:
		s := d.AboutUs
		if s.HideSection {
			return b, false
		}
		f.add("title", s.Title, s.HideTitle)
		f.add("subtitle", s.Subtitle, s.HideSubtitle)
		f.add("supportText", s.SupportText, s.HideSupportText)
		f.add("marqueeText", s.MarqueeText, s.HideMarqueeText)

	case domain.SectionTeam:
		s := d.Team
		if s.HideSection {
			return b, false
		}
		f.add("title", s.Title, s.HideTitle)
		for _, m := range s.Members {
			var itf fields
			itf.add("name", m.Name, false)
			itf.add("role", m.Role, false)
			itf.add("image", m.Image, m.HideImage)
			b.Items = append(b.Items, Item{SortOrder: m.SortOrder, Fields: itf})
		}

	case domain.SectionExpertise:
		s := d.Expertise
		if s.HideSection {
			return b, false
		}
		f.add("title", s.Title, s.HideTitle)
		for _, t := range s.Topics {
			var itf fields
			itf.add("icon", t.Icon, t.HideIcon)
			itf.add("title", t.Title, false)
			itf.add("description", t.Description, false)
			b.Items = append(b.Items, Item{SortOrder: t.SortOrder, Fields: itf})
		}

	case domain.SectionResults:
		s := d.Results
		if s.HideSection {
			return b, false
		}
		f.add("title", s.Title, s.HideTitle)
		for _, r := range s.Items {
			var itf fields
			itf.add("client", r.Client, false)
			itf.add("subtitle", r.Subtitle, false)
			itf.add("photo", r.Photo, r.HidePhoto)
			itf.add("investment", r.Investment, false)
			itf.add("roi", r.ROI, false)
			b.Items = append(b.Items, Item{SortOrder: r.SortOrder, Fields: itf})
		}

	case domain.SectionClients:
		s := d.Clients
		if s.HideSection {
			return b, false
		}
		f.add("title", s.Title, s.HideTitle)
		for _, c := range s.Items {
			var itf fields
			itf.add("name", c.Name, c.HideClientName)
			itf.add("logo", c.Logo, c.HideLogo)
			b.Items = append(b.Items, Item{SortOrder: c.SortOrder, Fields: itf})
		}

	case domain.SectionCTA:
		s := d.CTA
		if s.HideSection {
			return b, false
		}
		f.add("title", s.Title, false)
		f.add("buttonTitle", s.ButtonTitle, false)
		f.add("backgroundImage", s.BackgroundImage, s.HideBackgroundImage)

	case domain.SectionTestimonials:
		s := d.Testimonials
		if s.HideSection {
			return b, false
		}
		for _, t := range s.Items {
			var itf fields
			itf.add("testimonial", t.Testimonial, false)
			itf.add("name", t.Name, false)
			itf.add("role", t.Role, false)
			itf.add("photo", t.Photo, t.HidePhoto)
			b.Items = append(b.Items, Item{SortOrder: t.SortOrder, Fields: itf})
		}

	case domain.SectionInvestment:
		s := d.Investment
		if s.HideSection {
			return b, false
		}
		f.add("title", s.Title, false)
		f.add("projectScope", s.ProjectScope, s.HideProjectScope)

	case domain.SectionDeliverables:
		s := d.Deliverables
		if s.HideSection {
			return b, false
		}
		f.add("title", s.Title, false)
		for _, it := range s.Items {
			var itf fields
			itf.add("title", it.Title, false)
			itf.add("description", it.Description, false)
			b.Items = append(b.Items, Item{SortOrder: it.SortOrder, Fields: itf})
		}

	case domain.SectionPlans:
		s := d.Plans
		if s.HideSection {
			return b, false
		}
		for _, p := range s.Items {
			var itf fields
			itf.add("title", p.Title, p.HideTitle)
			itf.add("description", p.Description, false)
			itf.add("price", strconv.FormatFloat(p.Price, 'f', 2, 64), p.HidePrice)
			itf.add("planPeriod", p.PlanPeriod, false)
			if p.Recommended {
				itf.add("recommended", "true", false)
			}
			itf.add("buttonTitle", p.ButtonTitle, false)

			included := make([]Item, 0, len(p.IncludedItems))
			for _, inc := range p.IncludedItems {
				var incf fields
				incf.add("description", inc.Description, false)
				included = append(included, Item{SortOrder: inc.SortOrder, Fields: incf})
			}
			b.Items = append(b.Items, Item{SortOrder: p.SortOrder, Fields: itf, Items: sorted(included)})
		}

	case domain.SectionTerms:
		s := d.Terms
		if s.HideSection {
			return b, false
		}
		f.add("title", s.Title, false)
		for _, t := range s.Items {
			var itf fields
			itf.add("title", t.Title, false)
			itf.add("description", t.Description, false)
			b.Items = append(b.Items, Item{SortOrder: t.SortOrder, Fields: itf})
		}

	case domain.SectionFAQ:
		s := d.FAQ
		if s.HideSection {
			return b, false
		}
		f.add("title", s.Title, false)
		for _, q := range s.Items {
			var itf fields
			itf.add("question", q.Question, false)
			itf.add("answer", q.Answer, false)
			b.Items = append(b.Items, Item{SortOrder: q.SortOrder, Fields: itf})
		}

	case domain.SectionFooter:
		s := d.Footer
		if s.HideSection {
			return b, false
		}
		f.add("thankYouMessage", s.ThankYouMessage, false)
		f.add("ctaMessage", s.CTAMessage, false)
		f.add("disclaimer", s.Disclaimer, s.HideDisclaimer)
		f.add("email", s.Email, false)
		f.add("phone", s.Phone, false)

	default:
		return b, false
	}

	b.Fields = f
	if b.Fields == nil {
		b.Fields = []Field{}
	}
	b.Items = sorted(b.Items)
	return b, true
}
