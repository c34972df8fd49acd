package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	yh "github.com/tj-smith47/yandexhome-go"
)

// loginFlow runs the OAuth authorization code flow against a local callback
// and saves the resulting token.
type loginFlow struct {
	conf   *oauth2.Config
	store  *yh.FileCredentialStore
	state  string
	logger *zap.Logger

	// done receives the token once, or the error that ended the flow.
	done chan loginResult
}

type loginResult struct {
	token *oauth2.Token
	err   error
}

func newLoginFlow(conf *oauth2.Config, store *yh.FileCredentialStore, logger *zap.Logger) (*loginFlow, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	return &loginFlow{
		conf:   conf,
		store:  store,
		state:  state,
		logger: logger,
		done:   make(chan loginResult, 1),
	}, nil
}

// AuthURL is the page the user opens to grant access.
func (f *loginFlow) AuthURL() string {
	return f.conf.AuthCodeURL(f.state, oauth2.AccessTypeOffline)
}

func (f *loginFlow) Handler(callbackPath string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, f.AuthURL(), http.StatusTemporaryRedirect)
	})
	r.Get(callbackPath, f.callback)
	return r
}

func (f *loginFlow) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if errParam := q.Get("error"); errParam != "" {
		err := fmt.Errorf("authorization denied: %s %s", errParam, q.Get("error_description"))
		http.Error(w, err.Error(), http.StatusBadRequest)
		f.finish(loginResult{err: err})
		return
	}
	if q.Get("state") != f.state {
		http.Error(w, "invalid state parameter", http.StatusBadRequest)
		return
	}
	code := q.Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	tok, err := f.conf.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "failed to exchange code", http.StatusBadGateway)
		f.finish(loginResult{err: fmt.Errorf("exchange code: %w", err)})
		return
	}
	if err := f.store.Save(r.Context(), yh.CredentialsFromToken(tok, "")); err != nil {
		http.Error(w, "failed to save token", http.StatusInternalServerError)
		f.finish(loginResult{err: err})
		return
	}

	f.logger.Info("token saved", zap.Time("expiry", tok.Expiry))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Authorized. You can close this window.")
	f.finish(loginResult{token: tok})
}

// finish reports the first result; later callbacks are ignored.
func (f *loginFlow) finish(res loginResult) {
	select {
	case f.done <- res:
	default:
	}
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (a *app) login(ctx context.Context) error {
	oc := a.cfg.OAuth
	if oc.ClientID == "" || oc.ClientSecret == "" {
		return errors.New("login needs oauth.client_id and oauth.client_secret")
	}
	if a.cfg.TokenFile == "" {
		return errors.New("login needs token_file to save the token to")
	}
	redirect, err := url.Parse(oc.RedirectURL)
	if err != nil || redirect.Host == "" {
		return fmt.Errorf("invalid oauth.redirect_url %q", oc.RedirectURL)
	}
	callbackPath := redirect.Path
	if callbackPath == "" {
		callbackPath = "/"
	}

	flow, err := newLoginFlow(yh.OAuthConfig(oc.ClientID, oc.ClientSecret, oc.RedirectURL), yh.NewFileCredentialStore(a.cfg.TokenFile), a.logger)
	if err != nil {
		return err
	}

	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	server := &http.Server{
		Addr:              redirect.Host,
		Handler:           flow.Handler(callbackPath),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- runServer(serverCtx, server) }()

	fmt.Fprintf(a.stdout, "Open this URL to authorize access:\n\n  %s\n\n", flow.AuthURL())

	select {
	case res := <-flow.done:
		cancel()
		<-serveErr
		if res.err != nil {
			return res.err
		}
		fmt.Fprintf(a.stdout, "token saved to %s\n", a.cfg.TokenFile)
		if res.token.RefreshToken != "" {
			fmt.Fprintln(a.stdout, "the refresh token is stored with it and renews the token while oauth.client_id is set")
		}
		return nil
	case err := <-serveErr:
		if err == nil {
			err = ctx.Err()
		}
		return err
	}
}

// fileClient builds a client from token_file. When the file holds a refresh
// token and the OAuth client is configured, the token is renewed before use
// and every renewed token is written back to the file.
func (a *app) fileClient(ctx context.Context, opts []yh.Option) (*yh.Client, func(context.Context) error, error) {
	store := yh.NewFileCredentialStore(a.cfg.TokenFile)
	creds, err := store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	oc := a.cfg.OAuth
	if creds.RefreshToken == "" || oc.ClientID == "" {
		c, err := yh.NewClientFromSource(store, opts...)
		if err != nil {
			return nil, nil, err
		}
		return c, func(context.Context) error { return c.Reload(store) }, nil
	}

	conf := yh.OAuthConfig(oc.ClientID, oc.ClientSecret, "")
	ts := &savingTokenSource{
		src:      conf.TokenSource(ctx, creds.OAuthToken()),
		store:    store,
		endpoint: creds.Endpoint,
		last:     creds.Token,
	}
	tok, err := ts.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("oauth refresh: %w", err)
	}
	if creds.Endpoint != "" {
		opts = append([]yh.Option{yh.WithEndpoint(creds.Endpoint)}, opts...)
	}
	c, err := yh.NewClient(tok.AccessToken, opts...)
	if err != nil {
		return nil, nil, err
	}
	return c, func(ctx context.Context) error { return c.RefreshFrom(ctx, ts) }, nil
}

// savingTokenSource writes every renewed token to the credential store.
type savingTokenSource struct {
	src      oauth2.TokenSource
	store    *yh.FileCredentialStore
	endpoint string

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken == s.last {
		return tok, nil
	}
	if err := s.store.Save(context.Background(), yh.CredentialsFromToken(tok, s.endpoint)); err != nil {
		return nil, fmt.Errorf("save renewed token: %w", err)
	}
	s.last = tok.AccessToken
	return tok, nil
}
