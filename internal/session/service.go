// Package session derives the authenticated-user state from the stored
// credential and owns the login/logout operations around it.
//
// The token's claims are decoded without signature verification: the
// client only needs the identity for rendering and navigation, and the
// server revalidates the token on every privileged call. Expiry is
// still enforced locally so a stale token never produces a user.
package session

import (
	"context"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/JoelChinoP/voting-system-front/internal/credstore"
	"github.com/JoelChinoP/voting-system-front/internal/gateway"
	"github.com/JoelChinoP/voting-system-front/internal/validators"
)

// UserIdentity is the non-persisted value derived from the credential.
// It is recomputed fresh on every check and replaced wholesale, never
// mutated.
type UserIdentity struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Email string `json:"email"`
}

// AuthenticationError is the deliberately opaque wrapper around login
// failures. Gateway detail (status codes, server payloads) is dropped
// here so the UI layer only ever renders a generic failure message.
type AuthenticationError struct {
	msg string
}

func (e *AuthenticationError) Error() string {
	return e.msg
}

// claims is the payload shape embedded in the credential.
type claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// authResponse is the login endpoint's reply shape.
type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Service composes the credential store and the request gateway into
// the session lifecycle.
type Service struct {
	store    credstore.Store
	api      *gateway.Client
	tokenTTL time.Duration
	log      zerolog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTokenTTL sets the slot lifetime used when persisting a token.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// New creates a session service over the given store and gateway.
func New(store credstore.Store, api *gateway.Client, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		api:      api,
		tokenTTL: credstore.DefaultTTL,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates with email and password. Input is validated
// before anything touches the network; invalid input surfaces as
// *validators.ValidationError without a request being made. Gateway
// failures come back as a generic *AuthenticationError.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if err := validators.IsNotEmpty(email, password); err != nil {
		return "", err
	}
	if err := validators.IsValidEmail(email); err != nil {
		return "", err
	}

	var resp authResponse
	err := s.api.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		s.log.Debug().Err(err).Msg("login request failed")
		return "", &AuthenticationError{msg: "authentication failed"}
	}

	if err := s.store.Set(resp.Token, s.tokenTTL); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// LoginWithGoogle exchanges an OAuth authorization code for a token.
// The code is opaque, so no pre-validation happens.
func (s *Service) LoginWithGoogle(ctx context.Context, code string) (string, error) {
	var resp authResponse
	endpoint := "/auth/google/callback?code=" + url.QueryEscape(code)
	if err := s.api.Post(ctx, endpoint, nil, &resp); err != nil {
		s.log.Debug().Err(err).Msg("google login request failed")
		return "", &AuthenticationError{msg: "google authentication failed"}
	}

	if err := s.store.Set(resp.Token, s.tokenTTL); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// CurrentUser derives the identity from the stored credential. A
// missing, undecodable or expired token yields nil; the latter two
// also evict the credential so the bad token is not rechecked forever.
func (s *Service) CurrentUser() *UserIdentity {
	token, err := s.store.Get()
	if err != nil {
		return nil
	}

	var cl claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &cl); err != nil {
		s.log.Debug().Err(err).Msg("evicting undecodable credential")
		s.Logout()
		return nil
	}
	if cl.ExpiresAt == nil || !cl.ExpiresAt.After(time.Now()) {
		s.Logout()
		return nil
	}

	return &UserIdentity{
		ID:    cl.Subject,
		Role:  Role(cl.Role),
		Email: cl.Email,
	}
}

// Logout removes the credential unconditionally. Safe to call any
// number of times.
func (s *Service) Logout() {
	if err := s.store.Remove(); err != nil {
		s.log.Warn().Err(err).Msg("failed to remove credential")
	}
}

// IsTokenValid reports whether a live, decodable credential exists.
// This runs the full decode, so calling it evicts an expired or
// corrupt credential as a side effect.
func (s *Service) IsTokenValid() bool {
	return s.CurrentUser() != nil
}
