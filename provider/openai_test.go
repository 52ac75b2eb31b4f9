package provider

import (
	"context"
	"strings"
	"testing"
)

func TestBuildSystemPrompt(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	req := TranslateRequest{
		TargetLang:    "es_ES",
		SourceLang:    "en",
		Context:       "Fitness tracking app",
		ExcludedTerms: []string{"FitTrack", "GPS"},
	}

	prompt := p.buildSystemPrompt(req)

	// Check key elements are present
	if !strings.Contains(prompt, "Spanish (Spain)") {
		t.Error("Prompt should contain target language name")
	}
	if !strings.Contains(prompt, "Fitness tracking app") {
		t.Error("Prompt should contain context")
	}
	if !strings.Contains(prompt, "FitTrack") || !strings.Contains(prompt, "GPS") {
		t.Error("Prompt should contain excluded terms")
	}
	if !strings.Contains(prompt, "peninsular Spanish") {
		t.Error("Prompt should contain locale clarification for es_ES")
	}
	if !strings.Contains(prompt, "{count, plural") {
		t.Error("Prompt should instruct the model to preserve ICU placeholders")
	}
}

func TestBuildSystemPrompt_WithGlossaryAndStyle(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	req := TranslateRequest{
		TargetLang: "pt_BR",
		SourceLang: "en",
		Glossary: map[string]string{
			"workout": "treino",
			"streak":  "sequência",
		},
		Style: "marketing",
	}

	prompt := p.buildSystemPrompt(req)

	// Check glossary is included
	if !strings.Contains(prompt, "workout") {
		t.Error("Prompt should contain glossary source term")
	}
	if !strings.Contains(prompt, "treino") {
		t.Error("Prompt should contain glossary target term")
	}

	// Check style description is included
	if !strings.Contains(prompt, "persuasive") {
		t.Error("Prompt should contain marketing style description")
	}

	// Check locale clarification for Brazilian Portuguese
	if !strings.Contains(prompt, "Brazilian") {
		t.Error("Prompt should contain Brazilian Portuguese clarification")
	}
}

func TestBuildUserMessage_SimpleArray(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	req := TranslateRequest{
		Texts: []string{"Hello", "World"},
	}

	msg := p.buildUserMessage(req)

	if msg != `["Hello","World"]` {
		t.Errorf("Expected JSON array, got: %s", msg)
	}
}

func TestBuildUserMessage_WithDescriptions(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	req := TranslateRequest{
		Texts:        []string{"Start workout", "Save"},
		TextContexts: []string{"Button on the home screen", ""},
	}

	msg := p.buildUserMessage(req)

	if !strings.Contains(msg, `"text":"Start workout"`) {
		t.Errorf("Message should contain text field, got: %s", msg)
	}
	if !strings.Contains(msg, `"description":"Button on the home screen"`) {
		t.Errorf("Message should contain description field, got: %s", msg)
	}
	// Empty descriptions are omitted
	if strings.Contains(msg, `"text":"Save","description"`) {
		t.Errorf("Empty description should be omitted, got: %s", msg)
	}
}

func TestParseResponse_TranslationsKey(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	content := `{"translations": ["Hola", "Mundo"]}`
	result, err := p.parseResponse(content, 2)

	if err != nil {
		t.Fatalf("parseResponse failed: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 translations, got %d", len(result))
	}

	if result[0] != "Hola" || result[1] != "Mundo" {
		t.Errorf("Unexpected translations: %v", result)
	}
}

func TestParseResponse_DirectArray(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	content := `["Hola", "Mundo"]`
	result, err := p.parseResponse(content, 2)

	if err != nil {
		t.Fatalf("parseResponse failed: %v", err)
	}

	if result[0] != "Hola" || result[1] != "Mundo" {
		t.Errorf("Unexpected translations: %v", result)
	}
}

func TestParseResponse_FallbackArrayKey(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	// Some models return with a different key
	content := `{"results": ["Hola", "Mundo"]}`
	result, err := p.parseResponse(content, 2)

	if err != nil {
		t.Fatalf("parseResponse failed: %v", err)
	}

	if result[0] != "Hola" || result[1] != "Mundo" {
		t.Errorf("Unexpected translations: %v", result)
	}
}

func TestParseResponse_CountMismatch(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	content := `{"translations": ["Hola"]}`
	_, err := p.parseResponse(content, 2)

	if err == nil {
		t.Error("Expected error for count mismatch")
	}
}

func TestParseResponse_Garbage(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	_, err := p.parseResponse("I'm sorry, I can't help with that.", 2)
	if err == nil {
		t.Error("Expected error for non-JSON response")
	}
}

func TestMockProvider(t *testing.T) {
	m := NewMockProvider()

	req := TranslateRequest{
		Texts:      []string{"Hello", "Unknown text"},
		TargetLang: "es",
	}

	result, err := m.Translate(context.Background(), req)
	if err != nil {
		t.Fatalf("MockProvider.Translate failed: %v", err)
	}

	if result[0] != "Hola" {
		t.Errorf("Expected 'Hola', got %q", result[0])
	}

	if result[1] != "[Unknown text]" {
		t.Errorf("Expected '[Unknown text]', got %q", result[1])
	}

	if m.CallCount != 1 {
		t.Errorf("Expected CallCount 1, got %d", m.CallCount)
	}
}

func TestMockProvider_PlaceholderEntry(t *testing.T) {
	m := NewMockProvider()

	result, err := m.Translate(context.Background(), TranslateRequest{
		Texts:      []string{"Delete {count}"},
		TargetLang: "es",
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if result[0] != "Eliminar {count}" {
		t.Errorf("Placeholder should survive mock translation, got %q", result[0])
	}
}
