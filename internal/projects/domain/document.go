package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CurrentDocumentVersion is written into every stored document envelope.
const CurrentDocumentVersion = 1

type SectionKey string

const (
	SectionIntroduction SectionKey = "introduction"
	SectionAboutUs      SectionKey = "aboutUs"
	SectionTeam         SectionKey = "team"
	SectionExpertise    SectionKey = "expertise"
	SectionResults      SectionKey = "results"
	SectionClients      SectionKey = "clients"
	SectionCTA          SectionKey = "cta"
	SectionTestimonials SectionKey = "testimonials"
	SectionInvestment   SectionKey = "investment"
	SectionDeliverables SectionKey = "deliverables"
	SectionPlans        SectionKey = "plans"
	SectionTerms        SectionKey = "terms"
	SectionFAQ          SectionKey = "faq"
	SectionFooter       SectionKey = "footer"
)

// SectionKeys lists every section in canonical order.
var SectionKeys = []SectionKey{
	SectionIntroduction,
	SectionAboutUs,
	SectionTeam,
	SectionExpertise,
	SectionResults,
	SectionClients,
	SectionCTA,
	SectionTestimonials,
	SectionInvestment,
	SectionDeliverables,
	SectionPlans,
	SectionTerms,
	SectionFAQ,
	SectionFooter,
}

func ParseSectionKey(s string) (SectionKey, error) {
	for _, k := range SectionKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// Document is the single JSON document holding every section of a proposal.
type Document struct {
	Version  int          `json:"version"`
	Template TemplateType `json:"template" validate:"omitempty,oneof=flash minimal prime"`

	Introduction *Introduction `json:"introduction,omitempty"`
	AboutUs      *AboutUs      `json:"aboutUs,omitempty"`
	Team         *Team         `json:"team,omitempty"`
	Expertise    *Expertise    `json:"expertise,omitempty"`
	Results      *Results      `json:"results,omitempty"`
	Clients      *Clients      `json:"clients,omitempty"`
	CTA          *CTA          `json:"cta,omitempty"`
	Testimonials *Testimonials `json:"testimonials,omitempty"`
	Investment   *Investment   `json:"investment,omitempty"`
	Deliverables *Deliverables `json:"deliverables,omitempty"`
	Plans        *Plans        `json:"plans,omitempty"`
	Terms        *Terms        `json:"terms,omitempty"`
	FAQ          *FAQ          `json:"faq,omitempty"`
	Footer       *Footer       `json:"footer,omitempty"`
}

// NewDocument returns the default-shaped document a project starts with.
func NewDocument(template TemplateType) *Document {
	d := &Document{Version: CurrentDocumentVersion, Template: template}
	d.Normalize()
	return d
}

// Normalize fills every missing section and list so that readers never
// deal with nil.
func (d *Document) Normalize() {
	if d.Version == 0 {
		d.Version = CurrentDocumentVersion
	}
	if d.Introduction == nil {
		d.Introduction = &Introduction{}
	}
	if d.Introduction.Services == nil {
		d.Introduction.Services = []IntroService{}
	}
	if d.AboutUs == nil {
		d.AboutUs = &AboutUs{}
	}
	if d.Team == nil {
		d.Team = &Team{}
	}
	if d.Team.Members == nil {
		d.Team.Members = []TeamMember{}
	}
	if d.Expertise == nil {
		d.Expertise = &Expertise{}
	}
	if d.Expertise.Topics == nil {
		d.Expertise.Topics = []ExpertiseTopic{}
	}
	if d.Results == nil {
		d.Results = &Results{}
	}
	if d.Results.Items == nil {
		d.Results.Items = []Result{}
	}
	if d.Clients == nil {
		d.Clients = &Clients{}
	}
	if d.Clients.Items == nil {
		d.Clients.Items = []Client{}
	}
	if d.CTA == nil {
		d.CTA = &CTA{}
	}
	if d.Testimonials == nil {
		d.Testimonials = &Testimonials{}
	}
	if d.Testimonials.Items == nil {
		d.Testimonials.Items = []Testimonial{}
	}
	if d.Investment == nil {
		d.Investment = &Investment{}
	}
	if d.Deliverables == nil {
		d.Deliverables = &Deliverables{}
	}
	if d.Deliverables.Items == nil {
		d.Deliverables.Items = []Deliverable{}
	}
	if d.Plans == nil {
		d.Plans = &Plans{}
	}
	if d.Plans.Items == nil {
		d.Plans.Items = []Plan{}
	}
	for i := range d.Plans.Items {
		if d.Plans.Items[i].IncludedItems == nil {
			d.Plans.Items[i].IncludedItems = []PlanItem{}
		}
	}
	if d.Terms == nil {
		d.Terms = &Terms{}
	}
	if d.Terms.Items == nil {
		d.Terms.Items = []Term{}
	}
	if d.FAQ == nil {
		d.FAQ = &FAQ{}
	}
	if d.FAQ.Items == nil {
		d.FAQ.Items = []FAQItem{}
	}
	if d.Footer == nil {
		d.Footer = &Footer{}
	}
}

// DecodeDocument parses a stored document. Unknown top-level or section
// fields are rejected. An empty payload yields the default document.
func DecodeDocument(data []byte, template TemplateType) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return NewDocument(template), nil
	}

	var d Document
	if err := strictUnmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode proposal document: %w", err)
	}
	if d.Template == "" {
		d.Template = template
	}
	d.Normalize()
	return &d, nil
}

// Section returns the JSON encoding of one section.
func (d *Document) Section(key SectionKey) (json.RawMessage, error) {
	var v any
	switch key {
	case SectionIntroduction:
		v = d.Introduction
	case SectionAboutUs:
		v = d.AboutUs
	case SectionTeam:
		v = d.Team
	case SectionExpertise:
		v = d.Expertise
	case SectionResults:
		v = d.Results
	case SectionClients:
		v = d.Clients
	case SectionCTA:
		v = d.CTA
	case SectionTestimonials:
		v = d.Testimonials
	case SectionInvestment:
		v = d.Investment
	case SectionDeliverables:
		v = d.Deliverables
	case SectionPlans:
		v = d.Plans
	case SectionTerms:
		v = d.Terms
	case SectionFAQ:
		v = d.FAQ
	case SectionFooter:
		v = d.Footer
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, key)
	}
	return json.Marshal(v)
}

// SetSection replaces one section with the decoded raw value. The previous
// section content is discarded, not merged.
func (d *Document) SetSection(key SectionKey, raw json.RawMessage) error {
	var err error
	switch key {
	case SectionIntroduction:
		d.Introduction, err = decodeSection[Introduction](raw)
	case SectionAboutUs:
		d.AboutUs, err = decodeSection[AboutUs](raw)
	case SectionTeam:
		d.Team, err = decodeSection[Team](raw)
	case SectionExpertise:
		d.Expertise, err = decodeSection[Expertise](raw)
	case SectionResults:
		d.Results, err = decodeSection[Results](raw)
	case SectionClients:
		d.Clients, err = decodeSection[Clients](raw)
	case SectionCTA:
		d.CTA, err = decodeSection[CTA](raw)
	case SectionTestimonials:
		d.Testimonials, err = decodeSection[Testimonials](raw)
	case SectionInvestment:
		d.Investment, err = decodeSection[Investment](raw)
	case SectionDeliverables:
		d.Deliverables, err = decodeSection[Deliverables](raw)
	case SectionPlans:
		d.Plans, err = decodeSection[Plans](raw)
	case SectionTerms:
		d.Terms, err = decodeSection[Terms](raw)
	case SectionFAQ:
		d.FAQ, err = decodeSection[FAQ](raw)
	case SectionFooter:
		d.Footer, err = decodeSection[Footer](raw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, key)
	}
	if err != nil {
		return fmt.Errorf("section %s: %w: %w", key, ErrInvalidPayload, err)
	}
	d.Normalize()
	return nil
}

// Merge applies a shallow merge: every top-level key of partial replaces the
// corresponding key of d. "version" is ignored, "template" is taken as is.
func (d *Document) Merge(partial map[string]json.RawMessage) error {
	for k, raw := range partial {
		switch k {
		case "version":
			continue
		case "template":
			var t TemplateType
			if err := json.Unmarshal(raw, &t); err != nil {
				return fmt.Errorf("template: %w: %w", ErrInvalidPayload, err)
			}
			d.Template = t
		default:
			key, err := ParseSectionKey(k)
			if err != nil {
				return err
			}
			if err := d.SetSection(key, raw); err != nil {
				return err
			}
		}
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	b, err := json.Marshal(d)
	if err != nil {
		panic(fmt.Sprintf("marshal proposal document: %v", err))
	}
	var out Document
	if err := json.Unmarshal(b, &out); err != nil {
		panic(fmt.Sprintf("unmarshal proposal document: %v", err))
	}
	return &out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError lists every constraint the document violates.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid proposal document: " + strings.Join(e.Violations, "; ")
}

// Validate checks the document against its schema and reports all
// violations at once.
func (d *Document) Validate() error {
	if d.Version > CurrentDocumentVersion {
		return &ValidationError{Violations: []string{
			fmt.Sprintf("version %d is newer than supported version %d", d.Version, CurrentDocumentVersion),
		}}
	}

	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Violations: make([]string, 0, len(verrs))}
	for _, fe := range verrs {
		out.Violations = append(out.Violations, describeFieldError(fe))
	}
	return out
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Document.")
	switch fe.Tag() {
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], received %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func decodeSection[T any](raw json.RawMessage) (*T, error) {
	var v T
	if err := strictUnmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
