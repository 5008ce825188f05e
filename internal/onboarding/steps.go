// Package onboarding serves the options of the signup wizard and stores the
// answers once the user finishes it.
package onboarding

import (
	"fmt"
	"strings"

	"github.com/nepfy/nepfy-backend/internal/auth/domain"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Step struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Options []Option `json:"options"`
}

const (
	StepJobType    = "job-type-step"
	StepDiscovery  = "discovery-step"
	StepUsedBefore = "used-before-step"
)

var steps = map[string]Step{
	StepJobType: {
		Key:   StepJobType,
		Title: "Qual é a sua área de atuação?",
		Options: []Option{
			{Value: "marketing", Label: "Marketing digital"},
			{Value: "design", Label: "Design"},
			{Value: "development", Label: "Desenvolvimento"},
			{Value: "architecture", Label: "Arquitetura"},
			{Value: "photography", Label: "Fotografia"},
			{Value: "consulting", Label: "Consultoria"},
			{Value: "other", Label: "Outro"},
		},
	},
	StepDiscovery: {
		Key:   StepDiscovery,
		Title: "Como você conheceu a Nepfy?",
		Options: []Option{
			{Value: "instagram", Label: "Instagram"},
			{Value: "google", Label: "Google"},
			{Value: "linkedin", Label: "LinkedIn"},
			{Value: "youtube", Label: "YouTube"},
			{Value: "referral", Label: "Indicação"},
			{Value: "other", Label: "Outro"},
		},
	},
	StepUsedBefore: {
		Key:   StepUsedBefore,
		Title: "Você já usou alguma ferramenta de propostas?",
		Options: []Option{
			{Value: "yes", Label: "Sim"},
			{Value: "no", Label: "Não"},
		},
	},
}

// GetStep returns the options of one wizard step.
func GetStep(key string) (Step, bool) {
	s, ok := steps[key]
	return s, ok
}

func (s Step) has(value string) bool {
	for _, o := range s.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// ValidateAnswers checks every answer against its step's options. Optional
// answers may be empty. All problems are reported together.
func ValidateAnswers(a domain.OnboardingAnswers) error {
	var problems []string
	check := func(step, field, value string, required bool) {
		if value == "" {
			if required {
				problems = append(problems, field+" is required")
			}
			return
		}
		if !steps[step].has(value) {
			problems = append(problems, fmt.Sprintf("%s %q is not a valid option", field, value))
		}
	}

	check(StepJobType, "job_type", a.JobType, true)
	check(StepDiscovery, "discovery", a.Discovery, false)
	check(StepUsedBefore, "used_before", a.UsedBefore, false)

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
