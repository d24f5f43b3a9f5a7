// Package oauth implements the OAuth 2.0 authorization-code and
// refresh-token flows against the Xero identity service.
//
// # Architecture
//
// The package provides:
//   - Exchanger: the two grant exchanges (authorization_code, refresh_token)
//     with HTTP Basic client authentication, persisting results through the
//     injected credential store
//   - CallbackServer: a one-shot local HTTP listener for the OAuth redirect
//   - Authorization URL construction and anti-CSRF state handling
//   - A cross-platform browser opener
//
// # Login flow
//
//	server := oauth.NewCallbackServer(port)
//	redirectURI, err := server.Start(ctx)
//	state, _ := oauth.GenerateState()
//	url := oauth.AuthorizationURL(clientID, redirectURI, scope, state)
//	_ = oauth.OpenBrowser(url)
//	result, err := server.WaitForCallback(ctx)
//	// verify state, then:
//	token, err := exchanger.ExchangeAuthorizationCode(ctx, result.Code, redirectURI)
//
// Successful exchanges update the credential store atomically; a refresh
// grant whose response omits a new refresh token keeps the previous one.
package oauth
