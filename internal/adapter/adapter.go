// Package adapter defines the contract every target format implements and the
// registry used to resolve adapters by id.
package adapter

import (
	"fmt"

	"github.com/metalagman/uamc/internal/uam"
)

// Adapter compiles a validated document into one assistant's native files.
// Implementations hold no per-call state and are safe for concurrent use.
type Adapter interface {
	// ID is the registry key, e.g. "claude-code".
	ID() string
	// Name is a display string.
	Name() string
	// Compile renders doc. Unsupported blocks are skipped and reported as
	// warnings; an error means the adapter itself failed.
	Compile(doc uam.Document) (Result, error)
}

// CompiledFile is one generated file. Path is relative and adapter-chosen.
type CompiledFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Result is the output of Adapter.Compile. File paths are unique.
type Result struct {
	Files    []CompiledFile `json:"files"`
	Warnings []string       `json:"warnings"`
}

// Warnf appends a formatted warning.
func (r *Result) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
