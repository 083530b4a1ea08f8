package prompts

import (
	"fmt"
	"strings"
)

// Builder composes a prompt from fragments with simple {{key}} variable
// substitution.
type Builder struct {
	fragments []string
	variables map[string]string
}

// NewBuilder creates a builder seeded with a base template.
func NewBuilder(base string) *Builder {
	return &Builder{
		fragments: []string{base},
		variables: make(map[string]string),
	}
}

// AddFragment appends a fragment to the prompt.
func (b *Builder) AddFragment(text string) *Builder {
	b.fragments = append(b.fragments, text)
	return b
}

// SetVariable sets a variable for template substitution.
func (b *Builder) SetVariable(key, value string) *Builder {
	b.variables[key] = value
	return b
}

// Build constructs the final prompt string.
func (b *Builder) Build() string {
	result := strings.Join(b.fragments, "\n\n")
	for key, value := range b.variables {
		placeholder := fmt.Sprintf("{{%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}
