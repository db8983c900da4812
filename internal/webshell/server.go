// Package webshell serves the navigation surface of the voting-system
// front: /login, the protected home and admin pages, /forbidden, and a
// catch-all. Markup is deliberately minimal; the pages exist to carry
// the guard and session contracts, not to be looked at.
package webshell

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/JoelChinoP/voting-system-front/internal/authstate"
	"github.com/JoelChinoP/voting-system-front/internal/config"
	"github.com/JoelChinoP/voting-system-front/internal/credstore"
	"github.com/JoelChinoP/voting-system-front/internal/gateway"
	"github.com/JoelChinoP/voting-system-front/internal/guard"
	"github.com/JoelChinoP/voting-system-front/internal/session"
)

// Server is the web shell.
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	log      zerolog.Logger
	svc      *session.Service
	provider *authstate.Provider
}

// New assembles the full auth stack behind the shell.
func New(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	store, err := credstore.NewFileStore(cfg.CredentialFile, nil)
	if err != nil {
		return nil, err
	}

	api := gateway.New(cfg.APIBaseURL,
		gateway.WithTimeout(cfg.APITimeout()),
		gateway.WithStore(store),
		gateway.WithLogger(log),
	)
	svc := session.New(store, api,
		session.WithTokenTTL(cfg.TokenTTL()),
		session.WithLogger(log),
	)
	provider := authstate.New(svc,
		authstate.WithPollInterval(cfg.PollInterval),
		authstate.WithWatcher(credstore.NewWatcher(store.Path(), 0)),
		authstate.WithLogger(log),
	)

	s := &Server{
		router:   gin.New(),
		cfg:      cfg,
		log:      log,
		svc:      svc,
		provider: provider,
	}
	s.setupRouter()
	return s, nil
}

func (s *Server) setupRouter() {
	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// A page request is the shell's focus-regain moment: re-derive the
	// snapshot so credential changes made elsewhere show up now, not at
	// the next poll tick.
	s.router.Use(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			s.provider.Focus()
		}
		c.Next()
	})

	s.router.GET("/login", s.loginPage)
	s.router.POST("/login", s.login)
	s.router.POST("/logout", s.logout)

	s.router.GET("/", guard.Middleware(s.provider, guard.Rule{}), s.home)
	s.router.GET("/admin", guard.Middleware(s.provider, guard.Rule{
		Roles: []session.Role{session.RoleAdmin},
	}), s.admin)

	s.router.GET("/forbidden", s.forbidden)
	s.router.NoRoute(s.notFound)
}

// Start runs the provider and the HTTP server until SIGINT/SIGTERM,
// then shuts down gracefully. The listener only opens once the first
// snapshot recompute finished, so no request ever observes the
// pre-sync state.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go s.provider.Run(ctx)
	<-s.provider.Ready()

	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.ListenAddr).Msg("web shell listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
