package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a mock AI provider for testing. Safe for concurrent use
// so it can back a BatchTranslator.
type MockProvider struct {
	Translations map[string]string // Map of source text to translation
	CallCount    int               // Number of times Translate was called
	LastRequest  *TranslateRequest // Last request received

	mu sync.Mutex
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":            "Hola",
			"World":            "Mundo",
			"Hello World":      "Hola Mundo",
			"Welcome back!":    "¡Bienvenido de nuevo!",
			"Save the file":    "Guardar el archivo",
			"Delete {count}":   "Eliminar {count}",
			"Settings":         "Configuración",
			"Sign in to begin": "Inicia sesión para comenzar",
		},
	}
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastRequest = &req
	m.mu.Unlock()

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.Translations[text]; ok {
			results[i] = translation
		} else {
			// Return bracketed text for unknown translations
			results[i] = fmt.Sprintf("[%s]", text)
		}
	}

	return results, nil
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	m.CallCount = 0
	m.LastRequest = nil
	m.mu.Unlock()
}

// Verify MockProvider implements AIProvider
var _ AIProvider = (*MockProvider)(nil)
