package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/guildadmin/internal/client/models"
	"github.com/go-chi/chi/v5"
)

// fakeBackend imitates the auth and bot endpoints. Protected routes accept
// only "Bearer <valid>".
type fakeBackend struct {
	srv *httptest.Server

	mu            sync.Mutex
	valid         string
	refreshToken  string
	issueToken    string
	rotateRefresh string
	refreshStatus int
	refreshDelay  time.Duration
	onRefresh     func()
	pinValid      bool
	guilds        []models.Guild
	authHeaders   []string
	logouts       int

	refreshCalls   atomic.Int32
	protectedCalls atomic.Int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		valid:         "a1",
		refreshToken:  "r1",
		issueToken:    "a2",
		refreshStatus: http.StatusOK,
	}

	r := chi.NewRouter()
	r.Post("/auth/refresh-token", b.handleRefresh)
	r.Get("/echo", func(w http.ResponseWriter, r *http.Request) {
		b.recordAuth(r)
		writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	})
	r.Get("/protected", b.protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	}))
	r.Get("/auth/discord/redirect", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("code") {
		case "good":
			writeJSON(w, http.StatusOK, models.Pair{AccessToken: "a1", RefreshToken: "r1"})
		case "empty":
			writeJSON(w, http.StatusOK, map[string]string{})
		default:
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid code"})
		}
	})
	r.Get("/auth/status", b.protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"isAuthenticated": true})
	}))
	r.Get("/auth/guilds", b.protected(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.guilds)
	}))
	r.Post("/auth/logout", b.protected(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.logouts++
		b.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	r.Get("/status/{code}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "code") {
		case "403":
			writeJSON(w, http.StatusForbidden, map[string]any{"message": "Missing Permissions"})
		case "404":
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Unknown Channel"})
		case "422":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": []string{"name too short", "type invalid"}})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	b.srv = httptest.NewServer(r)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) URL() string { return b.srv.URL }

func (b *fakeBackend) set(fn func(b *fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func (b *fakeBackend) recordAuth(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))
}

func (b *fakeBackend) headers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.authHeaders...)
}

func (b *fakeBackend) protected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.protectedCalls.Add(1)
		b.recordAuth(r)
		b.mu.Lock()
		ok := r.Header.Get("Authorization") == "Bearer "+b.valid
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)

	var req refreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	delay, status, onRefresh := b.refreshDelay, b.refreshStatus, b.onRefresh
	b.mu.Unlock()

	time.Sleep(delay)
	if onRefresh != nil {
		onRefresh()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if status != http.StatusOK || req.RefreshToken != b.refreshToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid refresh token"})
		return
	}
	if !b.pinValid {
		b.valid = b.issueToken
	}
	resp := refreshResponse{AccessToken: b.issueToken}
	if b.rotateRefresh != "" {
		resp.RefreshToken = b.rotateRefresh
		b.refreshToken = b.rotateRefresh
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
