package auth

import (
	"net/url"
)

// CookieSettings contains cookie security settings derived from base URL.
type CookieSettings struct {
	// Secure indicates whether the cookie should only be sent over HTTPS.
	Secure bool
	// Domain is the cookie domain scope; empty means host-only.
	Domain string
}

// DeriveCookieSettings determines cookie security from the public base URL:
//   - http://localhost:5000 → Secure: false, Domain: ""
//   - https://lens.example.org → Secure: true, Domain: ""
//
// A non-empty configCookieDomain overrides the domain, for deployments that
// serve the UI and the API from sibling subdomains.
func DeriveCookieSettings(baseURL string, configCookieDomain string) CookieSettings {
	parsedURL, err := url.Parse(baseURL)
	if err != nil || baseURL == "" {
		return CookieSettings{Secure: true, Domain: configCookieDomain}
	}

	return CookieSettings{
		Secure: parsedURL.Scheme != "http",
		Domain: configCookieDomain,
	}
}
