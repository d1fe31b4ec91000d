package config

import (
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// BaseURLEnv names the environment variable holding the public base URL.
const BaseURLEnv = "BASE_URL"

// ErrMissingBaseURL is returned when no source provides a base URL.
var ErrMissingBaseURL = errors.New("base URL is not configured (use --base-url, " + BaseURLEnv + " or [server] base-url)")

// ResolveBaseURL picks the base URL from the flag, then the environment,
// then the config file, and normalizes it.
func ResolveBaseURL(flagValue string, file FileConfig) (string, error) {
	candidates := []string{flagValue, os.Getenv(BaseURLEnv)}
	if file.Server.BaseURL != nil {
		candidates = append(candidates, *file.Server.BaseURL)
	}
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return NormalizeBaseURL(c)
		}
	}
	return "", ErrMissingBaseURL
}

// NormalizeBaseURL checks that raw is an absolute http(s) URL with a host
// and strips trailing slashes.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(err, "invalid base URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", errors.Errorf("invalid base URL %q: missing host", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", errors.Errorf("invalid base URL %q: query and fragment are not allowed", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}
