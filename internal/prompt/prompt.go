// internal/prompt/prompt.go

// Package prompt assembles the chat messages sent to the model: a
// style-specific system message, optional few-shot examples, and the user
// message carrying the retrieved context. It consumes the retrieved chunks
// as an opaque ordered sequence of strings.
package prompt

import (
	"fmt"
	"strings"

	"github.com/mwiater/wikirag/internal/providers"
)

// DefaultStyle is the style used when none is selected.
const DefaultStyle = "default"

type styleSpec struct {
	description string
	system      string
	examples    []providers.ChatMessage
}

var styleOrder = []string{"default", "pirate", "kid", "bullets"}

var styles = map[string]styleSpec{
	"default": {
		description: "Normal factual responses",
		system: "You are a helpful assistant that answers questions based on Wikipedia content. " +
			"Provide accurate, informative responses using the given context. " +
			"If the context doesn't contain enough information to answer the question, " +
			"say so clearly and provide what information you can.",
	},
	"pirate": {
		description: "Pirate-themed responses with 'arr' and 'matey'",
		system: "You are a pirate who answers questions based on Wikipedia content. " +
			"Respond in pirate speak with 'arr', 'matey', 'ye', and other pirate expressions. " +
			"Still provide accurate information from the context, but make it fun and pirate-like. " +
			"If ye don't have enough information in the context, say so like a true pirate!",
		examples: []providers.ChatMessage{
			{
				Role:    providers.RoleUser,
				Content: "Context: The ocean covers 71% of Earth's surface.\n\nWhat percentage of Earth is covered by ocean?",
			},
			{
				Role: providers.RoleAssistant,
				Content: "Arr matey! According to me trusty knowledge, the mighty ocean covers 71% of our beautiful Earth's surface! " +
					"That be more than two-thirds of our planet, ye savvy sailor! The seas be vast and full of treasures!",
			},
		},
	},
	"kid": {
		description: "Simple explanations suitable for children",
		system: "You are a friendly teacher who explains things to children. " +
			"Use simple words, short sentences, and fun examples. " +
			"Make complex topics easy to understand for kids. " +
			"Use the Wikipedia context to give accurate but kid-friendly explanations. " +
			"If the context doesn't have enough info, explain that in a nice way kids can understand.",
		examples: []providers.ChatMessage{
			{
				Role:    providers.RoleUser,
				Content: "Context: Elephants are the largest land animals. They can weigh up to 6,000 kilograms.\n\nHow big are elephants?",
			},
			{
				Role: providers.RoleAssistant,
				Content: "Wow! Elephants are REALLY big! They're the biggest animals that walk on land. " +
					"An elephant can weigh as much as 6,000 kilograms - that's like 4 cars put together! " +
					"Isn't that amazing? They're like gentle giants!",
			},
		},
	},
	"bullets": {
		description: "Organized bullet-point format",
		system: "You are an assistant that provides clear, organized answers in bullet point format. " +
			"Structure your responses using bullet points and sub-bullets when helpful. " +
			"Base your answers on the Wikipedia context provided. " +
			"Use bullet points to break down complex information into digestible pieces. " +
			"If context is insufficient, clearly state this in bullet format.",
		examples: []providers.ChatMessage{
			{
				Role:    providers.RoleUser,
				Content: "Context: Python is a programming language created by Guido van Rossum in 1991. It emphasizes code readability.\n\nTell me about Python programming language.",
			},
			{
				Role: providers.RoleAssistant,
				Content: "• **Creator**: Guido van Rossum\n" +
					"• **Year Created**: 1991\n" +
					"• **Key Feature**: Emphasizes code readability\n" +
					"• **Type**: Programming language\n" +
					"• **Philosophy**: Makes code easy to read and understand",
			},
		},
	},
}

// Styles returns the available style names in presentation order.
func Styles() []string {
	return append([]string(nil), styleOrder...)
}

// Describe returns the one-line description for a style, or an empty string
// for an unknown style.
func Describe(style string) string {
	return styles[style].description
}

// Valid reports whether the style name is known.
func Valid(style string) bool {
	_, ok := styles[style]
	return ok
}

// BuildMessages assembles the full conversation for one question. An unknown
// style falls back to the default.
func BuildMessages(context []string, question, style string) []providers.ChatMessage {
	spec, ok := styles[style]
	if !ok {
		spec = styles[DefaultStyle]
	}

	formattedContext := "No relevant context found."
	if len(context) > 0 {
		formattedContext = strings.Join(context, "\n\n")
	}

	messages := make([]providers.ChatMessage, 0, len(spec.examples)+2)
	messages = append(messages, providers.ChatMessage{Role: providers.RoleSystem, Content: spec.system})
	messages = append(messages, spec.examples...)
	messages = append(messages, providers.ChatMessage{
		Role:    providers.RoleUser,
		Content: fmt.Sprintf("Context from Wikipedia:\n%s\n\nQuestion: %s", formattedContext, question),
	})

	return messages
}

// ContextPreview produces a short preview of the retrieved context for
// display, truncated at a word boundary.
func ContextPreview(chunks []string, maxLen int) string {
	if len(chunks) == 0 {
		return "No context available"
	}

	full := strings.Join(chunks, " ")
	runes := []rune(full)
	if len(runes) <= maxLen {
		return full
	}

	preview := string(runes[:maxLen])
	if cut := strings.LastIndexByte(preview, ' '); cut > 0 {
		preview = preview[:cut]
	}
	return preview + "..."
}
