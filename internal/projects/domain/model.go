package domain

import (
	"time"

	"github.com/google/uuid"
)

type TemplateType string

const (
	TemplateFlash   TemplateType = "flash"
	TemplateMinimal TemplateType = "minimal"
	TemplatePrime   TemplateType = "prime"
)

func (t TemplateType) Valid() bool {
	switch t {
	case TemplateFlash, TemplateMinimal, TemplatePrime:
		return true
	}
	return false
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// MaxProjectURLLength bounds the project part of a public subdomain.
const MaxProjectURLLength = 60

// Project is one proposal owned by a user. The proposal content lives in
// the Document stored alongside it.
type Project struct {
	ID           uuid.UUID    `json:"id"`
	UserID       string       `json:"user_id"`
	ClientName   string       `json:"client_name"`
	ProjectName  string       `json:"project_name"`
	ProjectURL   string       `json:"project_url,omitempty"`
	TemplateType TemplateType `json:"template_type"`
	Status       Status       `json:"status"`
	DataVersion  int64        `json:"data_version"`
	PublishedAt  *time.Time   `json:"published_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CreateProjectInput carries what the wizard collects before content exists.
type CreateProjectInput struct {
	ClientName   string       `json:"client_name" binding:"required"`
	ProjectName  string       `json:"project_name" binding:"required"`
	TemplateType TemplateType `json:"template_type" binding:"required"`
}

// UpdateProjectInput patches project metadata; nil fields are left alone.
type UpdateProjectInput struct {
	ClientName  *string `json:"client_name,omitempty"`
	ProjectName *string `json:"project_name,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

// PublicProposal is what a subdomain visitor receives.
type PublicProposal struct {
	Project  Project  `json:"project"`
	UserName string   `json:"user_name"`
	Document Document `json:"document"`
}
