package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	yh "github.com/tj-smith47/yandexhome-go"
)

func newTestFlow(t *testing.T, tokenHandler http.HandlerFunc) (*loginFlow, *yh.FileCredentialStore) {
	t.Helper()
	tokenServer := httptest.NewServer(tokenHandler)
	t.Cleanup(tokenServer.Close)

	conf := yh.OAuthConfig("app", "secret", "http://localhost:8080/callback")
	conf.Endpoint = oauth2.Endpoint{
		AuthURL:  "https://oauth.example.com/authorize",
		TokenURL: tokenServer.URL + "/token",
	}
	store := yh.NewFileCredentialStore(filepath.Join(t.TempDir(), "token.json"))
	flow, err := newLoginFlow(conf, store, zap.NewNop())
	if err != nil {
		t.Fatalf("newLoginFlow failed: %v", err)
	}
	return flow, store
}

func grantToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"access_token":"fresh-token","token_type":"bearer","refresh_token":"refresh-1","expires_in":3600}`))
}

func TestLoginFlow_AuthURL(t *testing.T) {
	flow, _ := newTestFlow(t, grantToken)

	u, err := url.Parse(flow.AuthURL())
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if q.Get("state") != flow.state || q.Get("client_id") != "app" {
		t.Errorf("query = %v", q)
	}
	if q.Get("scope") != "iot:view iot:control" {
		t.Errorf("scope = %q", q.Get("scope"))
	}

	server := httptest.NewServer(flow.Handler("/callback"))
	defer server.Close()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTemporaryRedirect || resp.Header.Get("Location") != flow.AuthURL() {
		t.Errorf("redirect = %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestLoginFlow_Callback(t *testing.T) {
	var exchanged string
	flow, store := newTestFlow(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		exchanged = r.Form.Get("code")
		grantToken(w, r)
	})
	handler := flow.Handler("/callback")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state="+flow.state+"&code=abc", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Authorized") {
		t.Fatalf("response = %d %s", rec.Code, rec.Body.String())
	}
	if exchanged != "abc" {
		t.Errorf("exchanged code = %q", exchanged)
	}

	select {
	case res := <-flow.done:
		if res.err != nil || res.token.RefreshToken != "refresh-1" {
			t.Errorf("result = %+v", res)
		}
	default:
		t.Fatal("flow did not finish")
	}

	if token, ok := store.Token(); !ok || token != "fresh-token" {
		t.Errorf("stored token = %q, %v", token, ok)
	}
	creds, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if creds.RefreshToken != "refresh-1" || creds.Expiry.IsZero() {
		t.Errorf("stored credentials = %+v", creds)
	}
}

func TestLoginFlow_CallbackRejects(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode int
		finishes bool
	}{
		{"wrong state", "state=forged&code=abc", http.StatusBadRequest, false},
		{"missing code", "state=%s", http.StatusBadRequest, false},
		{"denied", "error=access_denied&error_description=user+said+no", http.StatusBadRequest, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, store := newTestFlow(t, grantToken)
			query := tt.query
			if strings.Contains(query, "%s") {
				query = strings.Replace(query, "%s", flow.state, 1)
			}

			rec := httptest.NewRecorder()
			flow.Handler("/callback").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+query, nil))
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			select {
			case res := <-flow.done:
				if !tt.finishes || res.err == nil {
					t.Errorf("unexpected result %+v", res)
				}
			default:
				if tt.finishes {
					t.Error("flow did not finish")
				}
			}
			if store.Exists() {
				t.Error("token saved for a rejected callback")
			}
		})
	}
}

func TestLoginFlow_ExchangeFailure(t *testing.T) {
	flow, _ := newTestFlow(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Code has expired"}`))
	})

	rec := httptest.NewRecorder()
	flow.Handler("/callback").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state="+flow.state+"&code=old", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	res := <-flow.done
	if res.err == nil || !strings.Contains(res.err.Error(), "exchange code") {
		t.Errorf("err = %v", res.err)
	}
}

func TestRun_LoginNeedsConfig(t *testing.T) {
	t.Setenv("YANDEXHOME_OAUTH_CLIENT_ID", "")
	code, _, stderr := runCLI(t, "-log-level", "error", "login")
	if code != 1 || !strings.Contains(stderr, "oauth.client_id") {
		t.Errorf("exit = %d, stderr = %s", code, stderr)
	}
}

// useTokenServer points the OAuth endpoint at a test server for one test.
func useTokenServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	saved := yh.OAuthEndpoint
	yh.OAuthEndpoint = oauth2.Endpoint{AuthURL: server.URL + "/authorize", TokenURL: server.URL + "/token"}
	t.Cleanup(func() { yh.OAuthEndpoint = saved })
}

func TestRun_TokenFileRefresh(t *testing.T) {
	_, api := newFakeAPI(t)
	var refreshes atomic.Int32
	useTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("grant_type") != "refresh_token" || r.Form.Get("refresh_token") != "refresh-1" {
			t.Errorf("token request form = %v", r.Form)
		}
		refreshes.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"cli-token","token_type":"bearer","expires_in":3600}`))
	})

	path := filepath.Join(t.TempDir(), "token.json")
	store := yh.NewFileCredentialStore(path)
	stale := yh.Credentials{Token: "stale", RefreshToken: "refresh-1", Expiry: time.Now().Add(-time.Hour)}
	if err := store.Save(context.Background(), stale); err != nil {
		t.Fatal(err)
	}
	t.Setenv("YANDEXHOME_TOKEN", "")
	t.Setenv("YANDEXHOME_TOKEN_FILE", path)
	t.Setenv("YANDEXHOME_OAUTH_CLIENT_ID", "app")
	t.Setenv("YANDEXHOME_OAUTH_CLIENT_SECRET", "secret")

	code, _, stderr := runCLI(t, "-endpoint", api.URL, "-output", "json", "-log-level", "error", "info")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if refreshes.Load() != 1 {
		t.Errorf("refreshes = %d, want 1", refreshes.Load())
	}

	creds, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if creds.Token != "cli-token" || creds.RefreshToken != "refresh-1" || !creds.Expiry.After(time.Now()) {
		t.Errorf("stored credentials = %+v", creds)
	}

	t.Run("refresh failure", func(t *testing.T) {
		useTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
		})
		if err := store.Save(context.Background(), stale); err != nil {
			t.Fatal(err)
		}
		code, _, stderr := runCLI(t, "-endpoint", api.URL, "-log-level", "error", "info")
		if code != 1 || !strings.Contains(stderr, "oauth refresh") {
			t.Errorf("exit = %d, stderr = %s", code, stderr)
		}
	})
}
