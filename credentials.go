package yandexhome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// OAuthEndpoint is the Yandex OAuth server.
var OAuthEndpoint = oauth2.Endpoint{
	AuthURL:  "https://oauth.yandex.ru/authorize",
	TokenURL: "https://oauth.yandex.ru/token",
}

// Smart home OAuth scopes.
const (
	ScopeRead    = "iot:view"
	ScopeControl = "iot:control"
)

// OAuthConfig returns an oauth2 configuration for the smart home API with
// both the read and control scopes.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     OAuthEndpoint,
		Scopes:       []string{ScopeRead, ScopeControl},
	}
}

// CredentialSource supplies the token and endpoint a client uses. A false
// second result means the value is not available.
type CredentialSource interface {
	Token() (string, bool)
	Endpoint() (string, bool)
}

// Credentials is a stored token and endpoint. An empty Endpoint means
// DefaultEndpoint. RefreshToken and Expiry are set when the token came from
// an OAuth authorization and can be renewed.
type Credentials struct {
	Token        string    `json:"token"`
	Endpoint     string    `json:"endpoint,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
}

// CredentialsFromToken converts an OAuth token for storage.
func CredentialsFromToken(tok *oauth2.Token, endpoint string) Credentials {
	return Credentials{
		Token:        tok.AccessToken,
		Endpoint:     endpoint,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
}

// OAuthToken returns the credentials as an OAuth token, for use with
// oauth2.Config.TokenSource.
func (c Credentials) OAuthToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.Token,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// NewClientFromSource creates a client from a credential source.
func NewClientFromSource(src CredentialSource, opts ...Option) (*Client, error) {
	token, ok := src.Token()
	if !ok || token == "" {
		return nil, ErrEmptyToken
	}
	if endpoint, ok := src.Endpoint(); ok && endpoint != "" {
		opts = append([]Option{WithEndpoint(endpoint)}, opts...)
	}
	return NewClient(token, opts...)
}

// Reload replaces the client credentials with the ones src currently holds.
// A source without an endpoint resets the client to DefaultEndpoint.
func (c *Client) Reload(src CredentialSource) error {
	token, ok := src.Token()
	if !ok || token == "" {
		return ErrEmptyToken
	}
	endpoint, ok := src.Endpoint()
	if !ok || endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return c.SetCredentials(token, endpoint)
}

// RefreshFrom takes a token from ts and installs it, keeping the endpoint.
// With an oauth2.ReuseTokenSource this refreshes only when the cached token
// has expired.
func (c *Client) RefreshFrom(ctx context.Context, ts oauth2.TokenSource) error {
	tok, err := ts.Token()
	if err != nil {
		return fmt.Errorf("yandexhome: refresh token: %w", err)
	}
	if !tok.Valid() {
		return fmt.Errorf("yandexhome: refresh token: %w", ErrEmptyToken)
	}
	if err := c.SetToken(tok.AccessToken); err != nil {
		return err
	}
	if c.logger != nil {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "token_refreshed",
			slog.Time("expiry", tok.Expiry),
		)
	}
	return nil
}

// ErrNoCredentials is returned by a store that holds nothing.
var ErrNoCredentials = errors.New("yandexhome: no credentials stored")

// FileCredentialStore stores credentials in a JSON file.
type FileCredentialStore struct {
	filepath string
	mu       sync.RWMutex
}

// NewFileCredentialStore creates a new FileCredentialStore.
func NewFileCredentialStore(filepath string) *FileCredentialStore {
	return &FileCredentialStore{
		filepath: filepath,
	}
}

// Save writes the credentials to the file.
func (f *FileCredentialStore) Save(ctx context.Context, creds Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if creds.Token == "" {
		return ErrEmptyToken
	}

	// Ensure the directory exists
	dir := filepath.Dir(f.filepath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create credentials directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	// Write to a temporary file first, then rename for atomicity
	tmpFile := f.filepath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	if err := os.Rename(tmpFile, f.filepath); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to save credentials file: %w", err)
	}

	return nil
}

// Load reads the credentials from the file.
func (f *FileCredentialStore) Load(ctx context.Context) (Credentials, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, fmt.Errorf("%w: %w", ErrNoCredentials, err)
		}
		return Credentials{}, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return creds, nil
}

// Token implements CredentialSource.
func (f *FileCredentialStore) Token() (string, bool) {
	creds, err := f.Load(context.Background())
	if err != nil || creds.Token == "" {
		return "", false
	}
	return creds.Token, true
}

// Endpoint implements CredentialSource.
func (f *FileCredentialStore) Endpoint() (string, bool) {
	creds, err := f.Load(context.Background())
	if err != nil || creds.Endpoint == "" {
		return "", false
	}
	return creds.Endpoint, true
}

// Delete removes the credentials file.
func (f *FileCredentialStore) Delete(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.filepath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credentials file: %w", err)
	}
	return nil
}

// Exists checks if the credentials file exists.
func (f *FileCredentialStore) Exists() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, err := os.Stat(f.filepath)
	return err == nil
}

// MemoryCredentialStore stores credentials in memory (useful for testing).
type MemoryCredentialStore struct {
	creds *Credentials
	mu    sync.RWMutex
}

// NewMemoryCredentialStore creates a new in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

// Save stores the credentials.
func (m *MemoryCredentialStore) Save(ctx context.Context, creds Credentials) error {
	if creds.Token == "" {
		return ErrEmptyToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = &creds
	return nil
}

// Load returns the stored credentials.
func (m *MemoryCredentialStore) Load(ctx context.Context) (Credentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.creds == nil {
		return Credentials{}, ErrNoCredentials
	}
	return *m.creds, nil
}

// Token implements CredentialSource.
func (m *MemoryCredentialStore) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.creds == nil || m.creds.Token == "" {
		return "", false
	}
	return m.creds.Token, true
}

// Endpoint implements CredentialSource.
func (m *MemoryCredentialStore) Endpoint() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.creds == nil || m.creds.Endpoint == "" {
		return "", false
	}
	return m.creds.Endpoint, true
}

// Clear removes stored credentials.
func (m *MemoryCredentialStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
}
