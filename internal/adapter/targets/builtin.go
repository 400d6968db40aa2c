package targets

import "github.com/metalagman/uamc/internal/adapter"

// Built-in adapter ids.
const (
	ClaudeCode          = "claude-code"
	CursorRules         = "cursor-rules"
	GeminiCLI           = "gemini-cli"
	WindsurfRules       = "windsurf-rules"
	AgentsMD            = "agents-md"
	CopilotInstructions = "copilot-instructions"
	CursorProjectRules  = "cursor-project-rules"
)

func scopeHeading(s string) string { return "Scope: " + s }

// NewClaude returns the CLAUDE.md adapter.
func NewClaude() adapter.Adapter {
	return &singleFile{id: ClaudeCode, name: "Claude Code", path: "CLAUDE.md", heading: scopeHeading}
}

// NewCursor returns the legacy .cursorrules adapter.
func NewCursor() adapter.Adapter {
	return &singleFile{
		id:   CursorRules,
		name: "Cursor (.cursorrules)",
		path: ".cursorrules",
		heading: func(s string) string {
			return `Rules for files matching "` + s + `"`
		},
	}
}

// NewGemini returns the GEMINI.md adapter. Scope headings follow the CLAUDE.md style.
func NewGemini() adapter.Adapter {
	return &singleFile{id: GeminiCLI, name: "Gemini CLI", path: "GEMINI.md", heading: scopeHeading}
}

// NewWindsurf returns the .windsurfrules adapter.
func NewWindsurf() adapter.Adapter {
	return &singleFile{
		id:   WindsurfRules,
		name: "Windsurf",
		path: ".windsurfrules",
		heading: func(s string) string {
			return `Rules for "` + s + `"`
		},
	}
}

// NewAgentsMD returns the AGENTS.md adapter.
func NewAgentsMD() adapter.Adapter {
	return &singleFile{id: AgentsMD, name: "AGENTS.md", path: "AGENTS.md", heading: scopeHeading}
}

// NewCopilot returns the GitHub Copilot repository instructions adapter.
func NewCopilot() adapter.Adapter {
	return &singleFile{
		id:   CopilotInstructions,
		name: "GitHub Copilot",
		path: ".github/copilot-instructions.md",
		heading: func(s string) string {
			return "Applies to `" + s + "`"
		},
	}
}

// Builtins returns fresh instances of every built-in adapter in listing order.
func Builtins() []adapter.Adapter {
	return []adapter.Adapter{
		NewClaude(),
		NewCursor(),
		NewGemini(),
		NewWindsurf(),
		NewAgentsMD(),
		NewCopilot(),
		NewCursorProjectRules(),
	}
}

// RegisterBuiltins registers every built-in adapter with reg.
func RegisterBuiltins(reg *adapter.Registry) {
	for _, a := range Builtins() {
		reg.Register(a)
	}
}

// NewRegistry returns a registry populated with the built-in adapters.
func NewRegistry() *adapter.Registry {
	reg := adapter.NewRegistry()
	RegisterBuiltins(reg)
	return reg
}
