// Package uam defines the Universal Agent Model document: a vendor-neutral set of
// instruction blocks that adapters compile into assistant-specific files.
package uam

import "strings"

// SchemaVersion is the only document schema version currently understood.
const SchemaVersion = 1

// Block kinds recognized by the validator.
const (
	KindInstruction = "instruction"
	KindMarkdown    = "markdown"
	KindRule        = "rule"
	KindComment     = "comment"
)

// Kinds lists every recognized block kind.
func Kinds() []string {
	return []string{KindInstruction, KindMarkdown, KindRule, KindComment}
}

// KnownKind reports whether kind is a recognized block kind.
func KnownKind(kind string) bool {
	for _, k := range Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// Document is a validated instruction set.
type Document struct {
	SchemaVersion int     `json:"schemaVersion" yaml:"schemaVersion" mapstructure:"schemaVersion"`
	Meta          Meta    `json:"meta"          yaml:"meta"          mapstructure:"meta"`
	Blocks        []Block `json:"blocks"        yaml:"blocks"        mapstructure:"blocks"`
}

// Meta carries document-level metadata.
type Meta struct {
	Title       string   `json:"title"                 yaml:"title"                 mapstructure:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Version     string   `json:"version,omitempty"     yaml:"version,omitempty"     mapstructure:"version"`
	Targets     []string `json:"targets,omitempty"     yaml:"targets,omitempty"     mapstructure:"targets"`
}

// Block is one instruction fragment.
type Block struct {
	ID      string   `json:"id"                yaml:"id"                mapstructure:"id"`
	Kind    string   `json:"kind,omitempty"    yaml:"kind,omitempty"    mapstructure:"kind"`
	Title   string   `json:"title,omitempty"   yaml:"title,omitempty"   mapstructure:"title"`
	Content string   `json:"content,omitempty" yaml:"content,omitempty" mapstructure:"content"`
	Body    string   `json:"body,omitempty"    yaml:"body,omitempty"    mapstructure:"body"`
	ScopeID string   `json:"scopeId,omitempty" yaml:"scopeId,omitempty" mapstructure:"scopeId"`
	Scopes  []string `json:"scopes,omitempty"  yaml:"scopes,omitempty"  mapstructure:"scopes"`
}

// Text returns the block content, falling back to body.
func (b Block) Text() string {
	if b.Content != "" {
		return b.Content
	}
	return b.Body
}

// EffectiveKind returns the block kind, treating an empty kind as an instruction.
func (b Block) EffectiveKind() string {
	if b.Kind == "" {
		return KindInstruction
	}
	return b.Kind
}

// ScopeSet returns the scopes the block applies to: scopeId first, then scopes,
// with blank and repeated entries removed. An empty result means the block is global.
func (b Block) ScopeSet() []string {
	var out []string
	seen := make(map[string]struct{}, len(b.Scopes)+1)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	add(b.ScopeID)
	for _, s := range b.Scopes {
		add(s)
	}
	return out
}

// IsGlobal reports whether the block applies everywhere.
func (b Block) IsGlobal() bool {
	return len(b.ScopeSet()) == 0
}
