package handlers

const (
	// OAuth providers
	providerGoogle = "google"
	providerGitHub = "github"

	// Cookie domain for web clients (leading dot covers subdomains)
	cookieDomain = ".chatty.chat"

	forwardedProtoHTTPS = "https"
)
