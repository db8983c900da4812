package webshell

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/JoelChinoP/voting-system-front/internal/config"
	"github.com/JoelChinoP/voting-system-front/internal/credstore"

	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, apiURL string) (*Server, *credstore.FileStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	credFile := filepath.Join(t.TempDir(), "token.json")
	cfg := &config.Config{
		APIBaseURL:       apiURL,
		APITimeoutMS:     5000,
		TokenExpiryHours: 1,
		PollInterval:     time.Minute,
		CredentialFile:   credFile,
		ListenAddr:       ":0",
	}

	s, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.provider.Run(ctx)
	<-s.provider.Ready()

	store, err := credstore.NewFileStore(credFile, nil)
	require.NoError(t, err)
	return s, store
}

func signIn(t *testing.T, s *Server, store *credstore.FileStore, role string) {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "voter-1",
		"role":  role,
		"email": "alice@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, store.Set(signed, time.Hour))

	s.provider.Focus()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.provider.Snapshot().IsAuthenticated {
			return
		}
		s.provider.Focus()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("provider never saw the credential")
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHomeRedirectsWhenSignedOut(t *testing.T) {
	s, _ := newTestServer(t, "http://localhost:0")

	rec := get(s, "/")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestHomeRendersWhenSignedIn(t *testing.T) {
	s, store := newTestServer(t, "http://localhost:0")
	signIn(t, s, store, "user")

	rec := get(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "alice@example.com")
	require.NotContains(t, rec.Body.String(), "/admin", "non-admins must not see the admin link")
}

func TestAdminLinkRenderedForAdmins(t *testing.T) {
	s, store := newTestServer(t, "http://localhost:0")
	signIn(t, s, store, "admin")

	rec := get(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/admin")
}

func TestAdminRouteForbiddenForUsers(t *testing.T) {
	s, store := newTestServer(t, "http://localhost:0")
	signIn(t, s, store, "user")

	rec := get(s, "/admin")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/forbidden", rec.Header().Get("Location"))
}

func TestLoginValidationMessageInline(t *testing.T) {
	s, _ := newTestServer(t, "http://localhost:0")

	form := url.Values{"email": {"not-an-email"}, "password": {"Secret123"}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid email format")
}

func TestLoginFlowAgainstMockAPI(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "voter-1",
		"role":  "user",
		"email": "alice@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"token":"` + signed + `"}`))
	}))
	defer api.Close()

	s, _ := newTestServer(t, api.URL)

	form := url.Values{"email": {"alice@example.com"}, "password": {"Secret123"}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestNotFoundPage(t *testing.T) {
	s, _ := newTestServer(t, "http://localhost:0")
	rec := get(s, "/no-such-page")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForbiddenPage(t *testing.T) {
	s, _ := newTestServer(t, "http://localhost:0")
	rec := get(s, "/forbidden")
	require.Equal(t, http.StatusForbidden, rec.Code)
}
