package secrets

import "regexp"

// Pattern is one named credential shape. PrefixLen is how many leading
// characters of a match are kept in the redacted preview. When Regexp has a
// capture group, the first group is the reported span.
type Pattern struct {
	Name        string
	Description string
	Regexp      *regexp.Regexp
	PrefixLen   int
}

// tokenBoundary keeps a token from starting inside a longer word, such as the
// "sk-" in "disk-usage".
const tokenBoundary = `(?:^|[^A-Za-z0-9_-])`

func token(expr string) *regexp.Regexp {
	return regexp.MustCompile(tokenBoundary + "(" + expr + ")")
}

// defaultPatterns is ordered most specific first: where two patterns match the same
// text, the earlier one claims it.
var defaultPatterns = []Pattern{
	{
		Name:        "github-pat",
		Description: "GitHub personal access token",
		Regexp:      token(`ghp_[A-Za-z0-9]{36,}`),
		PrefixLen:   len("ghp_"),
	},
	{
		Name:        "github-fine-grained-pat",
		Description: "GitHub fine-grained personal access token",
		Regexp:      token(`github_pat_[A-Za-z0-9_]{22,}`),
		PrefixLen:   len("github_pat_"),
	},
	{
		Name:        "github-oauth",
		Description: "GitHub OAuth, app or refresh token",
		Regexp:      token(`gh[ousr]_[A-Za-z0-9]{36,}`),
		PrefixLen:   len("gho_"),
	},
	{
		Name:        "anthropic-api-key",
		Description: "Anthropic API key",
		Regexp:      token(`sk-ant-[A-Za-z0-9_-]{20,}`),
		PrefixLen:   len("sk-ant-"),
	},
	{
		Name:        "openai-api-key",
		Description: "OpenAI API key",
		Regexp:      token(`sk-[A-Za-z0-9_-]{20,}`),
		PrefixLen:   len("sk-"),
	},
	{
		Name:        "aws-access-key-id",
		Description: "AWS access key id",
		Regexp:      token(`AKIA[0-9A-Z]{16}`),
		PrefixLen:   len("AKIA"),
	},
	{
		Name:        "google-api-key",
		Description: "Google API key",
		Regexp:      token(`AIza[0-9A-Za-z_-]{35}`),
		PrefixLen:   len("AIza"),
	},
	{
		Name:        "slack-token",
		Description: "Slack bot, user or app token",
		Regexp:      token(`xox[abposr]-[A-Za-z0-9-]{10,}`),
		PrefixLen:   len("xoxb-"),
	},
	{
		Name:        "stripe-secret-key",
		Description: "Stripe live secret key",
		Regexp:      token(`sk_live_[A-Za-z0-9]{24,}`),
		PrefixLen:   len("sk_live_"),
	},
	{
		Name:        "private-key",
		Description: "PEM private key header",
		Regexp:      regexp.MustCompile(`-----BEGIN (?:[A-Z]+ )?PRIVATE KEY-----`),
		PrefixLen:   len("-----BEGIN "),
	},
}

// DefaultPatterns returns a copy of the built-in pattern table.
func DefaultPatterns() []Pattern {
	return append([]Pattern(nil), defaultPatterns...)
}

// PatternNames lists the names of the built-in patterns.
func PatternNames() []string {
	names := make([]string, 0, len(defaultPatterns))
	for _, p := range defaultPatterns {
		names = append(names, p.Name)
	}
	return names
}
