// Package compiler runs the full pipeline over a raw payload: validation,
// secret scanning, adapter lookup, compilation and packaging.
package compiler

import (
	"fmt"
	"strings"

	"github.com/metalagman/uamc/internal/adapter"
	"github.com/metalagman/uamc/internal/archive"
	"github.com/metalagman/uamc/internal/secrets"
	"github.com/metalagman/uamc/internal/uam"
	"github.com/metalagman/uamc/internal/validate"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// SecretPolicy decides what a secret match does to a compile.
type SecretPolicy string

const (
	// PolicyBlock fails the compile with a *SecretsError.
	PolicyBlock SecretPolicy = "block"
	// PolicyWarn compiles and adds one warning per match.
	PolicyWarn SecretPolicy = "warn"
	// PolicyOff skips the scan.
	PolicyOff SecretPolicy = "off"
)

// ParsePolicy parses a policy name; the empty string means PolicyBlock.
func ParsePolicy(s string) (SecretPolicy, error) {
	switch p := SecretPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyBlock, nil
	case PolicyBlock, PolicyWarn, PolicyOff:
		return p, nil
	default:
		return "", fmt.Errorf("unknown secrets policy %q (want block, warn or off)", s)
	}
}

// Compiler is safe for concurrent use once constructed.
type Compiler struct {
	registry *adapter.Registry
	scanner  *secrets.Scanner
	policy   SecretPolicy
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithScanner replaces the default secret scanner.
func WithScanner(s *secrets.Scanner) Option {
	return func(c *Compiler) { c.scanner = s }
}

// WithSecretPolicy sets the secret policy.
func WithSecretPolicy(p SecretPolicy) Option {
	return func(c *Compiler) { c.policy = p }
}

// New returns a compiler resolving adapters from reg.
func New(reg *adapter.Registry, opts ...Option) *Compiler {
	c := &Compiler{
		registry: reg,
		scanner:  secrets.New(),
		policy:   PolicyBlock,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the adapter registry.
func (c *Compiler) Registry() *adapter.Registry {
	return c.registry
}

// TargetResult is the output of one adapter.
type TargetResult struct {
	AdapterID string
	Result    adapter.Result
}

// Output is a successful compile.
type Output struct {
	Document *uam.Document
	Targets  []TargetResult
	// Files merges every target's files in target order.
	Files    []adapter.CompiledFile
	Warnings []string
	Scan     secrets.Result
}

// Archive packages the merged files into a zip blob.
func (o *Output) Archive() ([]byte, error) {
	files := make([]archive.File, 0, len(o.Files))
	for _, f := range o.Files {
		files = append(files, archive.File{Path: f.Path, Content: f.Content})
	}
	return archive.Create(files)
}

// Validate validates raw, returning the document or a *ValidationError.
func (c *Compiler) Validate(raw any) (*uam.Document, error) {
	res := validate.Validate(raw)
	if !res.Success() {
		return nil, &ValidationError{Issues: res.Issues}
	}
	return res.Document, nil
}

// Scan validates raw and scans the resulting document.
func (c *Compiler) Scan(raw any) (secrets.Result, error) {
	doc, err := c.Validate(raw)
	if err != nil {
		return secrets.Result{}, err
	}
	return c.scanner.ScanDocument(*doc), nil
}

// Compile validates raw and compiles it for ids, or for the document's
// meta.targets when ids is empty.
func (c *Compiler) Compile(raw any, ids ...string) (*Output, error) {
	doc, err := c.Validate(raw)
	if err != nil {
		return nil, err
	}
	return c.CompileDocument(*doc, ids...)
}

// CompileDocument compiles an already validated document.
func (c *Compiler) CompileDocument(doc uam.Document, ids ...string) (*Output, error) {
	if len(ids) == 0 {
		ids = doc.Meta.Targets
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, ErrNoTargets
	}

	adapters := make([]adapter.Adapter, 0, len(ids))
	for _, id := range ids {
		a, ok := c.registry.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAdapter, id)
		}
		adapters = append(adapters, a)
	}

	out := &Output{Document: &doc, Scan: secrets.Result{Matches: []secrets.Match{}}}
	if c.policy != PolicyOff {
		out.Scan = c.scanner.ScanDocument(doc)
		if out.Scan.HasSecrets {
			if c.policy == PolicyBlock {
				return nil, &SecretsError{Scan: out.Scan}
			}
			for _, m := range out.Scan.Matches {
				log.Warn().Str("pattern", m.Pattern).Str("field", m.Field).Str("preview", m.Preview).Msg("possible secret in document")
				out.Warnings = append(out.Warnings, secretWarning(m))
			}
		}
	}

	results := make([]TargetResult, len(adapters))
	var g errgroup.Group
	for i, a := range adapters {
		g.Go(func() error {
			res, err := a.Compile(doc)
			if err != nil {
				return fmt.Errorf("compile %s: %w", a.ID(), err)
			}
			log.Debug().Str("adapter", a.ID()).Int("files", len(res.Files)).Int("warnings", len(res.Warnings)).Msg("compiled target")
			results[i] = TargetResult{AdapterID: a.ID(), Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	owner := make(map[string]string)
	for _, tr := range results {
		for _, f := range tr.Result.Files {
			if prev, ok := owner[f.Path]; ok {
				return nil, fmt.Errorf("%w: %s (%s, %s)", ErrPathConflict, f.Path, prev, tr.AdapterID)
			}
			owner[f.Path] = tr.AdapterID
			out.Files = append(out.Files, f)
		}
		out.Warnings = append(out.Warnings, tr.Result.Warnings...)
	}
	out.Targets = results
	return out, nil
}

func secretWarning(m secrets.Match) string {
	where := m.Field
	if m.BlockID != "" {
		where = fmt.Sprintf("block %q", m.BlockID)
	}
	return fmt.Sprintf("possible %s in %s: %s", m.Pattern, where, m.Preview)
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
