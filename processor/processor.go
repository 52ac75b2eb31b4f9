// Package processor provides content processing implementations.
package processor

import arbtrans "github.com/SauravKhanalgit/arb-translator-sub001"

// ContentProcessor is an alias to the main package interface.
type ContentProcessor = arbtrans.ContentProcessor

// TextNode is an alias to the main package type.
type TextNode = arbtrans.TextNode
