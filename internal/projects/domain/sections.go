package domain

// Section payloads. Every section carries HideSection; fields that can be
// switched off individually carry a matching Hide<Field> flag. List items
// carry SortOrder and are displayed ascending.

type Introduction struct {
	HideSection  bool           `json:"hideSection"`
	UserName     string         `json:"userName,omitempty"`
	Email        string         `json:"email,omitempty" validate:"omitempty,email"`
	ButtonTitle  string         `json:"buttonTitle,omitempty"`
	Title        string         `json:"title,omitempty"`
	Subtitle     string         `json:"subtitle,omitempty"`
	HideSubtitle bool           `json:"hideSubtitle,omitempty"`
	Services     []IntroService `json:"services" validate:"dive"`
}

type IntroService struct {
	ServiceName string `json:"serviceName"`
	SortOrder   int    `json:"sortOrder" validate:"gte=0"`
}

type AboutUs struct {
	HideSection     bool   `json:"hideSection"`
	Title           string `json:"title,omitempty"`
	HideTitle       bool   `json:"hideTitle,omitempty"`
	Subtitle        string `json:"subtitle,omitempty"`
	HideSubtitle    bool   `json:"hideSubtitle,omitempty"`
	SupportText     string `json:"supportText,omitempty"`
	HideSupportText bool   `json:"hideSupportText,omitempty"`
	MarqueeText     string `json:"marqueeText,omitempty"`
	HideMarqueeText bool   `json:"hideMarqueeText,omitempty"`
}

type Team struct {
	HideSection bool         `json:"hideSection"`
	Title       string       `json:"title,omitempty"`
	HideTitle   bool         `json:"hideTitle,omitempty"`
	Members     []TeamMember `json:"members" validate:"dive"`
}

type TeamMember struct {
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	Image     string `json:"image,omitempty" validate:"omitempty,url"`
	HideImage bool   `json:"hideImage,omitempty"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
}

type Expertise struct {
	HideSection bool             `json:"hideSection"`
	Title       string           `json:"title,omitempty"`
	HideTitle   bool             `json:"hideTitle,omitempty"`
	Topics      []ExpertiseTopic `json:"topics" validate:"dive"`
}

type ExpertiseTopic struct {
	Icon        string `json:"icon,omitempty"`
	HideIcon    bool   `json:"hideIcon,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sortOrder" validate:"gte=0"`
}

type Results struct {
	HideSection bool     `json:"hideSection"`
	Title       string   `json:"title,omitempty"`
	HideTitle   bool     `json:"hideTitle,omitempty"`
	Items       []Result `json:"items" validate:"dive"`
}

type Result struct {
	Client     string `json:"client"`
	Subtitle   string `json:"subtitle,omitempty"`
	Photo      string `json:"photo,omitempty" validate:"omitempty,url"`
	HidePhoto  bool   `json:"hidePhoto,omitempty"`
	Investment string `json:"investment,omitempty"`
	ROI        string `json:"roi,omitempty"`
	SortOrder  int    `json:"sortOrder" validate:"gte=0"`
}

type Clients struct {
	HideSection bool     `json:"hideSection"`
	Title       string   `json:"title,omitempty"`
	HideTitle   bool     `json:"hideTitle,omitempty"`
	Items       []Client `json:"items" validate:"dive"`
}

type Client struct {
	Name           string `json:"name"`
	HideClientName bool   `json:"hideClientName,omitempty"`
	Logo           string `json:"logo,omitempty" validate:"omitempty,url"`
	HideLogo       bool   `json:"hideLogo,omitempty"`
	SortOrder      int    `json:"sortOrder" validate:"gte=0"`
}

type CTA struct {
	HideSection         bool   `json:"hideSection"`
	Title               string `json:"title,omitempty"`
	ButtonTitle         string `json:"buttonTitle,omitempty"`
	BackgroundImage     string `json:"backgroundImage,omitempty" validate:"omitempty,url"`
	HideBackgroundImage bool   `json:"hideBackgroundImage,omitempty"`
}

type Testimonials struct {
	HideSection bool          `json:"hideSection"`
	Items       []Testimonial `json:"items" validate:"dive"`
}

type Testimonial struct {
	Testimonial string `json:"testimonial"`
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	Photo       string `json:"photo,omitempty" validate:"omitempty,url"`
	HidePhoto   bool   `json:"hidePhoto,omitempty"`
	SortOrder   int    `json:"sortOrder" validate:"gte=0"`
}

type Investment struct {
	HideSection      bool   `json:"hideSection"`
	Title            string `json:"title,omitempty"`
	ProjectScope     string `json:"projectScope,omitempty"`
	HideProjectScope bool   `json:"hideProjectScope,omitempty"`
}

type Deliverables struct {
	HideSection bool          `json:"hideSection"`
	Title       string        `json:"title,omitempty"`
	Items       []Deliverable `json:"items" validate:"dive"`
}

type Deliverable struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sortOrder" validate:"gte=0"`
}

type Plans struct {
	HideSection bool   `json:"hideSection"`
	Items       []Plan `json:"items" validate:"dive"`
}

type Plan struct {
	Title         string     `json:"title"`
	HideTitle     bool       `json:"hideTitle,omitempty"`
	Description   string     `json:"description,omitempty"`
	Price         float64    `json:"price" validate:"gte=0"`
	HidePrice     bool       `json:"hidePrice,omitempty"`
	PlanPeriod    string     `json:"planPeriod,omitempty" validate:"omitempty,oneof=monthly yearly one-time"`
	Recommended   bool       `json:"recommended,omitempty"`
	ButtonTitle   string     `json:"buttonTitle,omitempty"`
	IncludedItems []PlanItem `json:"includedItems" validate:"dive"`
	SortOrder     int        `json:"sortOrder" validate:"gte=0"`
}

type PlanItem struct {
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder" validate:"gte=0"`
}

type Terms struct {
	HideSection bool   `json:"hideSection"`
	Title       string `json:"title,omitempty"`
	Items       []Term `json:"items" validate:"dive"`
}

type Term struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sortOrder" validate:"gte=0"`
}

type FAQ struct {
	HideSection bool      `json:"hideSection"`
	Title       string    `json:"title,omitempty"`
	Items       []FAQItem `json:"items" validate:"dive"`
}

type FAQItem struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
}

type Footer struct {
	HideSection     bool   `json:"hideSection"`
	ThankYouMessage string `json:"thankYouMessage,omitempty"`
	CTAMessage      string `json:"ctaMessage,omitempty"`
	Disclaimer      string `json:"disclaimer,omitempty"`
	HideDisclaimer  bool   `json:"hideDisclaimer,omitempty"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string `json:"phone,omitempty"`
}
