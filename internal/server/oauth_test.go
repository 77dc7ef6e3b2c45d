package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/oauth2"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

func newTestConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		RedirectURL:  "http://127.0.0.1:8484/callback",
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("exchanges code and delivers token", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse form: %v", err)
			}
			if r.Form.Get("code") != "auth-code" {
				t.Errorf("expected code auth-code, got %s", r.Form.Get("code"))
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "granted",
				"refresh_token": "refresher",
				"token_type":    "Bearer",
				"expires_in":    3600,
			})
		}))
		defer tokenServer.Close()

		handler := NewOAuthHandler(newTestConfig(tokenServer.URL), "state-123")

		req := httptest.NewRequest(http.MethodGet, "/callback?"+url.Values{
			"state": {"state-123"},
			"code":  {"auth-code"},
		}.Encode(), nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token.AccessToken != "granted" {
			t.Errorf("expected access token 'granted', got %s", result.Token.AccessToken)
		}
		if result.Token.RefreshToken != "refresher" {
			t.Errorf("expected refresh token 'refresher', got %s", result.Token.RefreshToken)
		}
	})

	t.Run("rejects state mismatch", func(t *testing.T) {
		handler := NewOAuthHandler(newTestConfig("http://unused"), "expected-state")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=forged&code=whatever", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", result.Error())
		}
	})

	t.Run("surfaces provider denial", func(t *testing.T) {
		handler := NewOAuthHandler(newTestConfig("http://unused"), "s")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=s&error=access_denied&error_description=user+cancelled", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		result := <-handler.Result()
		if !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", result.Error())
		}
	})

	t.Run("second callback is rejected", func(t *testing.T) {
		handler := NewOAuthHandler(newTestConfig("http://unused"), "s")

		first := httptest.NewRequest(http.MethodGet, "/callback?state=bad", nil)
		handler.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/callback?state=s&code=late", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 on replay, got %d", rec.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("filters by method", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodPost, "/only-post", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/only-post", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for GET, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-post", nil))
		if rec.Code != http.StatusCreated {
			t.Errorf("expected 201 for POST, got %d", rec.Code)
		}
	})

	t.Run("applies middleware in registration order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("outer"), mw("inner"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if len(order) != 3 || order[0] != "outer" || order[1] != "inner" || order[2] != "handler" {
			t.Errorf("unexpected execution order: %v", order)
		}
	})

	t.Run("registers Handler routes", func(t *testing.T) {
		router := NewBasicRouter()
		handler := NewOAuthHandler(newTestConfig("http://unused"), "s")
		router.Handler(handler)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=bad", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected the callback route to be registered, got %d", rec.Code)
		}
	})
}
