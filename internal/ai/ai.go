package ai

import "context"

// Generator is the completion backend abstraction: prompt in, text out. The
// text is expected to contain JSON, but callers must tolerate decoration
// around it (see CleanResponse and ExtractArray).
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
