package targets

import (
	"fmt"
	"strings"

	"github.com/metalagman/uamc/internal/adapter"
	"github.com/metalagman/uamc/internal/scope"
	"github.com/metalagman/uamc/internal/uam"
	"gopkg.in/yaml.v3"
)

const cursorRulesDir = ".cursor/rules"

type mdcFrontmatter struct {
	Description string `yaml:"description"`
	Globs       string `yaml:"globs,omitempty"`
	AlwaysApply bool   `yaml:"alwaysApply"`
}

// cursorProjectRules writes one .mdc rule file per group: global.mdc for the
// global group (always applied) and <slug>.mdc per scope with the scope as glob.
type cursorProjectRules struct{}

// NewCursorProjectRules returns the .cursor/rules/*.mdc adapter.
func NewCursorProjectRules() adapter.Adapter {
	return cursorProjectRules{}
}

func (cursorProjectRules) ID() string   { return CursorProjectRules }
func (cursorProjectRules) Name() string { return "Cursor project rules (.mdc)" }

func (a cursorProjectRules) Compile(doc uam.Document) (adapter.Result, error) {
	var res adapter.Result
	r := newRenderer(CursorProjectRules, &res)
	groups := scope.Partition(doc.Blocks)
	used := map[string]bool{}

	if body := r.join(groups.Global()); body != "" {
		desc := strings.TrimSpace(doc.Meta.Title)
		content, err := mdcFile(mdcFrontmatter{Description: desc, AlwaysApply: true}, body)
		if err != nil {
			return adapter.Result{}, err
		}
		used["global"] = true
		res.Files = append(res.Files, adapter.CompiledFile{Path: cursorRulesDir + "/global.mdc", Content: content})
	}

	for _, key := range groups.Keys() {
		blocks := groups.Scoped(key)
		body := r.join(blocks)
		if body == "" {
			continue
		}
		fm := mdcFrontmatter{Description: groupDescription(key, blocks), Globs: key}
		content, err := mdcFile(fm, body)
		if err != nil {
			return adapter.Result{}, err
		}
		name := uniqueSlug(slugify(key), used)
		res.Files = append(res.Files, adapter.CompiledFile{Path: cursorRulesDir + "/" + name + ".mdc", Content: content})
	}
	return res, nil
}

func groupDescription(key string, blocks []uam.Block) string {
	for _, b := range blocks {
		if t := strings.TrimSpace(b.Title); t != "" {
			return t
		}
	}
	return `Rules for files matching "` + key + `"`
}

func mdcFile(fm mdcFrontmatter, body string) (string, error) {
	head, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshal mdc frontmatter: %w", err)
	}
	return "---\n" + string(head) + "---\n\n" + body + "\n", nil
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "scope"
	}
	return out
}

func uniqueSlug(base string, used map[string]bool) string {
	name := base
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s-%d", base, n)
	}
	used[name] = true
	return name
}
