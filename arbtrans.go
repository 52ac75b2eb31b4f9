// Package arbtrans provides an AI-powered localization engine for ARB files.
//
// Arbtrans translates Flutter ARB resource bundles (and HTML content) using
// AI providers with a persistent translation memory, exact-match caching,
// context-aware disambiguation, and support for right-to-left languages.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/SauravKhanalgit/arb-translator-sub001"
//	    "github.com/SauravKhanalgit/arb-translator-sub001/memory"
//	    "github.com/SauravKhanalgit/arb-translator-sub001/processor"
//	    "github.com/SauravKhanalgit/arb-translator-sub001/provider"
//	)
//
//	func main() {
//	    // Create provider
//	    p := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    // Create a persistent translation memory
//	    mem := memory.New(memory.Config{Path: ".arbtrans/memory.json"})
//	    defer mem.Dispose()
//
//	    // Create translator
//	    t := arbtrans.NewTranslator("es_ES", p,
//	        arbtrans.WithMemory(mem),
//	        arbtrans.WithProcessor(processor.NewARBProcessor()),
//	    )
//
//	    // Translate an ARB document
//	    result, err := t.Process(context.Background(), arbContent, "arb")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Content)
//	}
package arbtrans
