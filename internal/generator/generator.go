package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nepfy/nepfy-backend/internal/agents"
	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/logging"
	"github.com/nepfy/nepfy-backend/internal/projects/domain"
)

// ErrNotGeneratable is returned for sections the model cannot write.
var ErrNotGeneratable = errors.New("section cannot be generated")

// AgentSource looks up the agent for a service type and template.
type AgentSource interface {
	Get(serviceType, templateType string) (agents.AgentConfig, error)
}

// ProposalWriter stores generated sections.
type ProposalWriter interface {
	UpdateProposalSection(ctx context.Context, projectID uuid.UUID, key domain.SectionKey, value json.RawMessage) (*domain.Document, error)
	MergeProposalData(ctx context.Context, projectID uuid.UUID, partial map[string]json.RawMessage) (*domain.Document, error)
}

// Input is what the user tells the generator about the job.
type Input struct {
	ServiceType        string `json:"service_type" binding:"required"`
	ProjectDescription string `json:"project_description"`
	CompanyInfo        string `json:"company_info"`
}

type Options struct {
	// MaxAttempts bounds how many times a section is requested when the
	// model keeps returning invalid output.
	MaxAttempts int
	// Timeout applies to each model call.
	Timeout time.Duration
	// Concurrency bounds parallel section requests in GenerateProposal.
	Concurrency int
}

type Service struct {
	model     Model
	agents    AgentSource
	proposals ProposalWriter
	opts      Options
}

// NewService builds a generator. A nil model makes every call fail as not
// configured.
func NewService(model Model, agentSource AgentSource, proposals ProposalWriter, opts Options) *Service {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}
	return &Service{model: model, agents: agentSource, proposals: proposals, opts: opts}
}

// Configured reports whether a model is available.
func (s *Service) Configured() bool { return s.model != nil }

// GenerateSection writes one section of the project's proposal.
func (s *Service) GenerateSection(ctx context.Context, project *domain.Project, section domain.SectionKey, in Input) (*domain.Document, error) {
	agent, err := s.prepare(project, in)
	if err != nil {
		return nil, err
	}
	if !Generatable(section) {
		return nil, apperr.Validation("section %s cannot be generated", section)
	}

	raw, err := s.generate(ctx, agent, project, section, in)
	if err != nil {
		return nil, err
	}
	return s.proposals.UpdateProposalSection(ctx, project.ID, section, raw)
}

// GenerateProposal writes every section the agent has a prompt for, in
// parallel, and stores them in a single merge.
func (s *Service) GenerateProposal(ctx context.Context, project *domain.Project, in Input) (*domain.Document, error) {
	agent, err := s.prepare(project, in)
	if err != nil {
		return nil, err
	}

	var sections []domain.SectionKey
	for _, key := range domain.SectionKeys {
		if Generatable(key) && agent.SectionPrompt(string(key)) != "" {
			sections = append(sections, key)
		}
	}
	if len(sections) == 0 {
		return nil, apperr.Validation("agent %s has no generatable sections", agent.Key())
	}

	var mu sync.Mutex
	partial := make(map[string]json.RawMessage, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for _, key := range sections {
		g.Go(func() error {
			raw, err := s.generate(gctx, agent, project, key, in)
			if err != nil {
				return err
			}
			mu.Lock()
			partial[string(key)] = raw
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("proposal generated",
		"project_id", project.ID, "agent", agent.Key().String(), "sections", len(partial))
	return s.proposals.MergeProposalData(ctx, project.ID, partial)
}

func (s *Service) prepare(project *domain.Project, in Input) (agents.AgentConfig, error) {
	if s.model == nil {
		return agents.AgentConfig{}, apperr.NotConfigured("ai generation")
	}
	if in.ServiceType == "" {
		return agents.AgentConfig{}, apperr.Validation("service_type is required")
	}
	agent, err := s.agents.Get(in.ServiceType, string(project.TemplateType))
	if err != nil {
		if errors.Is(err, agents.ErrNotFound) {
			return agents.AgentConfig{}, apperr.Validation("no agent configured for service type %q", in.ServiceType)
		}
		return agents.AgentConfig{}, apperr.Internal("agent lookup", err)
	}
	return agent, nil
}

// generate asks the model for one section until it returns valid output or
// the attempts run out. Each retry tells the model what was wrong.
func (s *Service) generate(ctx context.Context, agent agents.AgentConfig, project *domain.Project, section domain.SectionKey, in Input) (json.RawMessage, error) {
	tpl := agent.SectionPrompt(string(section))
	if tpl == "" {
		return nil, apperr.Validation("agent %s has no prompt for section %s", agent.Key(), section)
	}

	user := agents.RenderPrompt(tpl, map[string]string{
		"clientName":         project.ClientName,
		"projectName":        project.ProjectName,
		"templateType":       string(project.TemplateType),
		"serviceType":        in.ServiceType,
		"projectDescription": in.ProjectDescription,
		"companyInfo":        in.CompanyInfo,
	})
	prompt := Prompt{
		Model:       agent.Model,
		System:      agents.CreateCompleteSystemPrompt(agent.SystemPrompt),
		User:        user,
		Temperature: agent.Temperature,
	}

	log := logging.FromContext(ctx).With("project_id", project.ID, "section", section)

	var lastErr error
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		out, err := s.call(ctx, prompt)
		if err != nil {
			return nil, err
		}

		raw, err := parseOutput(section, out)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		log.Warn("model output rejected", "attempt", attempt, "err", err)
		prompt.User = fmt.Sprintf("%s\n\nYour previous answer was rejected: %v. Fix every problem and answer again.", user, err)
	}

	return nil, apperr.Upstream(http.StatusBadGateway, fmt.Sprintf("model output for %s was invalid", section), lastErr)
}

func (s *Service) call(ctx context.Context, p Prompt) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	return s.model.Generate(ctx, p)
}
