package usage

import "strings"

// DefaultBaseURL is the usage endpoint base used when no override is
// configured.
const DefaultBaseURL = "https://chatgpt.com/backend-api"

// NormalizeBaseURL trims trailing slashes and appends /backend-api for the
// hosted endpoints that require it.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimRight(raw, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if (strings.HasPrefix(base, "https://chatgpt.com") ||
		strings.HasPrefix(base, "https://chat.openai.com")) &&
		!strings.Contains(base, "/backend-api") {
		base += "/backend-api"
	}
	return base
}

// URL resolves the full usage endpoint for a base URL. Backend-api bases use
// the wham path; everything else uses the public codex path.
func URL(baseURL string) string {
	base := NormalizeBaseURL(baseURL)
	if strings.Contains(base, "/backend-api") {
		return base + "/wham/usage"
	}
	return base + "/api/codex/usage"
}
