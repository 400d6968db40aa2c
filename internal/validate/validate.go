// Package validate turns an untyped payload into a uam.Document or a complete
// list of path-tagged issues.
package validate

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/metalagman/uamc/internal/uam"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed uam.schema.json
var schemaJSON string

// SupportedVersions lists the schemaVersion values Validate accepts.
var SupportedVersions = []int{uam.SchemaVersion}

// Issue is one validation problem. Path uses dotted/bracketed notation, e.g. blocks[2].id.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Result is the outcome of Validate. Exactly one of Document and Issues is set.
type Result struct {
	Document *uam.Document `json:"data,omitempty"`
	Issues   []Issue       `json:"issues,omitempty"`
}

// Success reports whether the payload validated.
func (r Result) Success() bool {
	return r.Document != nil && len(r.Issues) == 0
}

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
})

// Validate checks raw against the UAM schema and the document rules that a JSON
// schema cannot express (supported version, unique block ids, content presence).
// All issues are reported in one pass; Validate never panics on malformed input.
func Validate(raw any) Result {
	raw, err := generic(raw)
	if err != nil {
		return Result{Issues: []Issue{{Message: fmt.Sprintf("payload is not a JSON document: %v", err)}}}
	}
	issues := schemaIssues(raw)
	issues = append(issues, documentIssues(raw)...)
	issues = normalize(issues)
	if len(issues) > 0 {
		return Result{Issues: issues}
	}

	var doc uam.Document
	if err := mapstructure.Decode(raw, &doc); err != nil {
		return Result{Issues: []Issue{{Message: fmt.Sprintf("decode document: %v", err)}}}
	}
	return Result{Document: &doc}
}

// generic re-encodes typed values (structs, YAML maps) into the plain JSON shapes
// the checks below inspect.
func generic(raw any) (any, error) {
	if _, ok := raw.(map[string]any); ok {
		return raw, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func schemaIssues(raw any) []Issue {
	schema, err := compiledSchema()
	if err != nil {
		return []Issue{{Message: fmt.Sprintf("load document schema: %v", err)}}
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return []Issue{{Message: fmt.Sprintf("payload is not a JSON document: %v", err)}}
	}
	if result.Valid() {
		return nil
	}

	issues := make([]Issue, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		path := fieldPath(schemaErr.Field())
		if schemaErr.Type() == "required" {
			if prop, ok := schemaErr.Details()["property"].(string); ok {
				path = joinPath(path, prop)
			}
		}
		issues = append(issues, Issue{Path: path, Message: schemaErr.Description()})
	}
	return issues
}

func documentIssues(raw any) []Issue {
	root, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	var issues []Issue
	if v, ok := asInt(root["schemaVersion"]); ok && !supported(v) {
		issues = append(issues, Issue{
			Path:    "schemaVersion",
			Message: fmt.Sprintf("unsupported schema version %d (supported: %s)", v, joinInts(SupportedVersions)),
		})
	}

	if meta, ok := root["meta"].(map[string]any); ok {
		if title, ok := meta["title"].(string); ok && title != "" && strings.TrimSpace(title) == "" {
			issues = append(issues, Issue{Path: "meta.title", Message: "title must not be blank"})
		}
	}

	blocks, ok := root["blocks"].([]any)
	if !ok {
		return issues
	}
	firstSeen := make(map[string]int, len(blocks))
	for i, item := range blocks {
		block, ok := item.(map[string]any)
		if !ok {
			continue
		}
		prefix := fmt.Sprintf("blocks[%d]", i)
		if id, ok := block["id"].(string); ok && id != "" {
			if j, dup := firstSeen[id]; dup {
				issues = append(issues, Issue{
					Path:    prefix + ".id",
					Message: fmt.Sprintf("duplicate block id %q (first used by blocks[%d])", id, j),
				})
			} else {
				firstSeen[id] = i
			}
		}
		_, hasContent := block["content"]
		_, hasBody := block["body"]
		if !hasContent && !hasBody {
			issues = append(issues, Issue{Path: prefix + ".content", Message: "content or body is required"})
		}
	}
	return issues
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func supported(v int) bool {
	for _, s := range SupportedVersions {
		if s == v {
			return true
		}
	}
	return false
}

func joinInts(vals []int) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ", ")
}

// fieldPath converts a gojsonschema field ("blocks.0.id", "(root)") into
// bracketed notation ("blocks[0].id", "").
func fieldPath(field string) string {
	if field == "" || field == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
		return ""
	}
	field = strings.TrimPrefix(field, gojsonschema.STRING_ROOT_SCHEMA_PROPERTY+".")
	var b strings.Builder
	for i, seg := range strings.Split(field, ".") {
		if _, err := strconv.Atoi(seg); err == nil {
			b.WriteString("[" + seg + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

// normalize drops repeated issues and orders them by path, comparing array
// indices numerically so blocks[10] sorts after blocks[2].
func normalize(issues []Issue) []Issue {
	if len(issues) == 0 {
		return nil
	}
	seen := make(map[Issue]struct{}, len(issues))
	out := issues[:0]
	for _, is := range issues {
		if _, ok := seen[is]; ok {
			continue
		}
		seen[is] = struct{}{}
		out = append(out, is)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sortKey(out[i].Path) < sortKey(out[j].Path)
	})
	return out
}

func sortKey(path string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(path, '[')
		if open < 0 {
			b.WriteString(path)
			return b.String()
		}
		end := strings.IndexByte(path[open:], ']')
		if end < 0 {
			b.WriteString(path)
			return b.String()
		}
		end += open
		b.WriteString(path[:open+1])
		if n, err := strconv.Atoi(path[open+1 : end]); err == nil {
			fmt.Fprintf(&b, "%010d", n)
		} else {
			b.WriteString(path[open+1 : end])
		}
		path = path[end:]
	}
}
