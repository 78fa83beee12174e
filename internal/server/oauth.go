package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/ipeirotis/callbackd/internal/shared"
	"golang.org/x/oauth2"
)

// CallbackPath is the route serving OAuth2 authorization-code redirects.
const CallbackPath = "/callback"

// AuthResult contains the outcome of an OAuth authorization flow.
type AuthResult struct {
	Token *oauth2.Token
	err   error
}

func (a *AuthResult) Error() error {
	return a.err
}

// NewOAuthConfig builds an [oauth2.Config] from the application's OAuth settings.
func NewOAuthConfig(cfg shared.OAuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
		},
	}
}

// OAuthHandler handles OAuth2 callback requests for the authorization code flow.
// Implements the [Handler] interface for registration with a [Router].
//
// The handler processes at most one callback: it validates the state
// parameter, exchanges the authorization code for tokens, delivers the result
// over a one-shot channel, and posts the server's stop signal.
type OAuthHandler struct {
	config      *oauth2.Config
	state       string
	stop        func()
	resultChan  chan AuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewOAuthHandler creates an OAuth handler with the given OAuth2 config and state token.
// The state token should be cryptographically random for CSRF protection.
// The stop function, when non-nil, is called after a callback has been processed.
func NewOAuthHandler(config *oauth2.Config, state string, stop func()) *OAuthHandler {
	return &OAuthHandler{
		config:     config,
		state:      state,
		stop:       stop,
		resultChan: make(chan AuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{CallbackPath}
}

// ServeHTTP handles the OAuth callback request.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle the callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	if h.stop != nil {
		defer h.stop()
	}

	state := r.URL.Query().Get("state")
	if state != h.state {
		h.send(AuthResult{err: shared.ErrStateMismatch})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		errDesc := r.URL.Query().Get("error_description")
		h.send(AuthResult{err: fmt.Errorf("%w: %s - %s", shared.ErrAuthFailed, errParam, errDesc)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.send(AuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(AuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, callbackSuccessPage)
}

// send delivers the result through the channel exactly once.
func (h *OAuthHandler) send(result AuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel carrying the flow outcome.
//
// The channel receives exactly one result and is then closed.
func (h *OAuthHandler) Result() <-chan AuthResult {
	return h.resultChan
}

const callbackSuccessPage = `<!DOCTYPE html>
<html>
<head>
    <title>Authorization Complete</title>
    <style>
        body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center;
               height: 100vh; margin: 0; background: #fafafa; }
        main { text-align: center; background: white; padding: 2rem 3rem;
               border-radius: 6px; box-shadow: 0 1px 3px rgba(0,0,0,0.15); }
        h1 { color: #2b6cb0; margin: 0 0 0.75rem 0; }
        p { color: #555; margin: 0; }
    </style>
</head>
<body>
    <main>
        <h1>Authorization complete</h1>
        <p>You can close this tab and return to the terminal.</p>
    </main>
</body>
</html>
`
