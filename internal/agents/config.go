// Package agents holds the prompt configuration used to instruct the AI
// model, keyed by service type and template, with output validators for
// what the model returns.
package agents

import (
	"fmt"
	"sort"
	"strings"
)

// BaseTemplate is the template type used when no template-specific agent
// exists for a service type.
const BaseTemplate = "base"

// Key identifies an agent.
type Key struct {
	ServiceType  string
	TemplateType string
}

func (k Key) String() string { return k.ServiceType + ":" + k.TemplateType }

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	svc, tpl, ok := strings.Cut(s, ":")
	if !ok || svc == "" || tpl == "" {
		return Key{}, fmt.Errorf("invalid agent key %q", s)
	}
	return Key{ServiceType: svc, TemplateType: tpl}, nil
}

// AgentConfig is the prompt set for one (service, template) pair.
type AgentConfig struct {
	ServiceType    string            `json:"service_type" yaml:"service_type"`
	TemplateType   string            `json:"template_type" yaml:"template_type"`
	Name           string            `json:"name" yaml:"name"`
	SystemPrompt   string            `json:"system_prompt" yaml:"system_prompt"`
	SectionPrompts map[string]string `json:"section_prompts" yaml:"section_prompts"`
	Model          string            `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature    float32           `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

func (a AgentConfig) Key() Key {
	return Key{ServiceType: a.ServiceType, TemplateType: a.TemplateType}
}

// SectionPrompt returns the prompt fragment for section, or "" if the
// agent has none.
func (a AgentConfig) SectionPrompt(section string) string {
	return a.SectionPrompts[section]
}

// Validate reports every missing or malformed field at once.
func (a AgentConfig) Validate() error {
	var c Checker
	c.Matches(a.ServiceType, keyPattern, "service_type")
	c.Matches(a.TemplateType, keyPattern, "template_type")
	c.LengthBetween(a.SystemPrompt, 1, 20000, "system_prompt")
	if a.Temperature < 0 || a.Temperature > 2 {
		c.Fail("temperature", fmt.Sprintf("temperature must be between 0 and 2, received %v", a.Temperature))
	}
	for section, prompt := range a.SectionPrompts {
		c.LengthBetween(prompt, 1, 10000, "section_prompts."+section)
	}
	return c.Err()
}

func sortConfigs(cfgs []AgentConfig) {
	sort.Slice(cfgs, func(i, j int) bool {
		return cfgs[i].Key().String() < cfgs[j].Key().String()
	})
}
