package gemini

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	_, err := NewGenerator(context.Background(), "   ", "", zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestNewGeneratorDefaultsModel(t *testing.T) {
	gen, err := NewGenerator(context.Background(), "test-key", "  ", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.Model() != defaultModel {
		t.Fatalf("expected default model %q, got %q", defaultModel, gen.Model())
	}
}

func TestGenerateContentRejectsEmptyPrompt(t *testing.T) {
	gen, err := NewGenerator(context.Background(), "test-key", "", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := gen.GenerateContent(context.Background(), "  \n "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestNilGeneratorIsSafe(t *testing.T) {
	var gen *Generator
	if gen.Model() != "" {
		t.Fatal("expected empty model for nil generator")
	}
	if _, err := gen.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for nil generator")
	}
}
