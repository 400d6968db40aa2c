// Package targets holds the built-in adapters, one per assistant file format.
package targets

import (
	"strings"

	"github.com/metalagman/uamc/internal/adapter"
	"github.com/metalagman/uamc/internal/scope"
	"github.com/metalagman/uamc/internal/uam"
)

// renderKinds are the block kinds the built-in adapters emit. Comment blocks
// are author notes and never reach generated files.
var renderKinds = map[string]bool{
	uam.KindInstruction: true,
	uam.KindMarkdown:    true,
	uam.KindRule:        true,
}

// singleFile renders a document into one file: the global group without a
// heading, then each scope group under a "## <heading>" line.
type singleFile struct {
	id      string
	name    string
	path    string
	heading func(scope string) string
}

func (a *singleFile) ID() string   { return a.id }
func (a *singleFile) Name() string { return a.name }

func (a *singleFile) Compile(doc uam.Document) (adapter.Result, error) {
	var res adapter.Result
	r := newRenderer(a.id, &res)
	groups := scope.Partition(doc.Blocks)

	var sections []string
	if body := r.join(groups.Global()); body != "" {
		sections = append(sections, body)
	}
	for _, key := range groups.Keys() {
		body := r.join(groups.Scoped(key))
		if body == "" {
			continue
		}
		sections = append(sections, "## "+a.heading(key)+"\n\n"+body)
	}

	res.Files = []adapter.CompiledFile{{
		Path:    a.path,
		Content: strings.Join(sections, "\n\n") + "\n",
	}}
	return res, nil
}

// renderer joins block text and records one warning per skipped block, even
// when the block is replicated into several scope groups.
type renderer struct {
	adapterID string
	res       *adapter.Result
	warned    map[string]bool
}

func newRenderer(adapterID string, res *adapter.Result) *renderer {
	return &renderer{adapterID: adapterID, res: res, warned: map[string]bool{}}
}

func (r *renderer) join(blocks []uam.Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		kind := b.EffectiveKind()
		if !renderKinds[kind] {
			if !r.warned[b.ID] {
				r.warned[b.ID] = true
				r.res.Warnf("block %q skipped: kind %q is not supported by %s", b.ID, kind, r.adapterID)
			}
			continue
		}
		text := strings.TrimRight(b.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n")
}
