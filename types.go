package arbtrans

// TranslationStyle controls the tone and formality of translations.
type TranslationStyle string

const (
	// StyleFormal uses formal, professional language suitable for official documents.
	StyleFormal TranslationStyle = "formal"
	// StyleNeutral uses a neutral, professional tone suitable for general content.
	StyleNeutral TranslationStyle = "neutral"
	// StyleCasual uses casual, conversational language suitable for consumer apps.
	StyleCasual TranslationStyle = "casual"
	// StyleMarketing uses persuasive, engaging language for promotional content.
	StyleMarketing TranslationStyle = "marketing"
	// StyleTechnical uses precise, technical language for documentation.
	StyleTechnical TranslationStyle = "technical"
)

// styleDescriptions maps each style to the register instruction given to
// the AI.
var styleDescriptions = map[TranslationStyle]string{
	StyleFormal:    "Use formal, professional language. Prefer polite forms of address where the language distinguishes them.",
	StyleNeutral:   "Use a neutral, professional tone suitable for general application content.",
	StyleCasual:    "Use casual, conversational language. Prefer informal forms of address where the language distinguishes them.",
	StyleMarketing: "Use persuasive, engaging language suitable for promotional content.",
	StyleTechnical: "Use precise, technical language suitable for documentation.",
}

// GetStyleDescription returns the register instruction for a style,
// defaulting to neutral.
func GetStyleDescription(style TranslationStyle) string {
	if desc, ok := styleDescriptions[style]; ok {
		return desc
	}
	return styleDescriptions[StyleNeutral]
}

// TextNode represents a translatable unit of content.
type TextNode struct {
	ID       string            // Unique identifier (ARB key or generated)
	Text     string            // Original text content (trimmed)
	Hash     string            // SHA-256 hash of Text
	NodeType string            // Content type: "arb_value", "html_text", etc.
	Context  string            // Disambiguation context (ARB @key description)
	Metadata map[string]string // Additional info (placeholders, parent tag, etc.)
}

// TranslationConfig holds configuration for the translator.
type TranslationConfig struct {
	TargetLang    string            // Target language code (e.g., "es_ES", "ja_JP")
	SourceLang    string            // Source language code (default: "en")
	ExcludedTerms []string          // Terms to never translate (e.g., ["API", "SDK"])
	Context       string            // Global context for all translations
	Glossary      map[string]string // Preferred translations for specific phrases
	Style         TranslationStyle  // Translation style/register (default: neutral)
}

// ProcessedContent is the result of a translation operation.
type ProcessedContent struct {
	Content         string // Translated content
	TranslatedCount int    // Number of newly translated items
	CachedCount     int    // Number of cache or memory hits
	TotalNodes      int    // Total translatable nodes found
}

// LanguageResult is the outcome of translating one document to one language.
type LanguageResult struct {
	Language string // Target language code
	Content  string // Translated document, empty on failure
	Err      error  // Non-nil if translation failed
}

// BatchSummary summarizes a multi-language translation run.
type BatchSummary struct {
	TotalLanguages int
	Successful     int
	Failed         int
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// IgnoredTags contains HTML tags whose content should not be translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}
