package connecthealth

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseBaseURL validates the Kafka Connect REST base URL and returns it in
// normalized form, without a trailing slash.
// Only http:// and https:// schemes are accepted; query strings and
// fragments are rejected because request paths are appended to the URL.
func ParseBaseURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("empty URL")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		return "", fmt.Errorf("missing scheme in URL %q", rawURL)
	}
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q", scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in URL %q", rawURL)
	}
	if u.Port() == "" && strings.HasSuffix(u.Host, ":") {
		return "", fmt.Errorf("empty port in URL %q", rawURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("query or fragment not allowed in URL %q", rawURL)
	}

	u.Scheme = scheme
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String(), nil
}
