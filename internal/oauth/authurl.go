package oauth

import (
	"strings"

	"golang.org/x/oauth2"
)

// AuthorizeURL is the browser-facing Xero authorization endpoint.
const AuthorizeURL = "https://login.xero.com/identity/connect/authorize"

// Endpoint is the Xero OAuth2 endpoint pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:  AuthorizeURL,
	TokenURL: DefaultTokenURL,
}

// AuthorizationURL builds the authorization URL the user opens in the
// browser. Scope is a space-separated scope string.
func AuthorizationURL(clientID, redirectURI, scope, state string) string {
	cfg := oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      strings.Fields(scope),
		Endpoint:    Endpoint,
	}
	return cfg.AuthCodeURL(state)
}
