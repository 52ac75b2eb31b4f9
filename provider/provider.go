// Package provider defines the AI provider interface and implementations.
package provider

import arbtrans "github.com/SauravKhanalgit/arb-translator-sub001"

// AIProvider is the interface for AI translation backends.
// This is an alias to the main package interface for convenience.
type AIProvider = arbtrans.AIProvider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = arbtrans.TranslateRequest
