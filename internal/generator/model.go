// Package generator fills proposal sections with content written by an AI
// model, following the prompts of the matching agent.
package generator

import "context"

// Prompt is one request to the model.
type Prompt struct {
	Model       string
	System      string
	User        string
	Temperature float32
}

// Model returns the raw text the model produced for p.
type Model interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}
