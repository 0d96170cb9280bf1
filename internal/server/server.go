package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contactrelay/internal/api/handlers"
	"github.com/osa911/contactrelay/internal/api/middleware"
	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/mailer"
	"github.com/osa911/contactrelay/internal/ratelimit"
	"github.com/osa911/contactrelay/internal/server/routes"
	"github.com/osa911/contactrelay/internal/service"
)

// Dependencies are the collaborators the server needs from the outside
type Dependencies struct {
	Sender mailer.Sender
	// Limiter counts contact submissions per source. Defaults to an in-memory
	// window store built from the config.
	Limiter ratelimit.Store
}

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	cfg     *config.Config
	logger  *logging.Logger
	limiter ratelimit.Store
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger, deps Dependencies) (*Server, error) {
	if deps.Sender == nil {
		return nil, errors.New("server: email sender is required")
	}

	// Release mode keeps gin quiet; we log through our own logger
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("server: invalid trusted proxies: %w", err)
	}

	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewWindowStore(cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	contactService := service.NewContactService(deps.Sender, service.ContactConfig{
		From:        cfg.FromEmail,
		To:          cfg.ToEmail,
		SiteName:    cfg.SiteName,
		SendTimeout: cfg.EmailTimeout,
	}, logger)

	h := &routes.Handlers{
		Contact: handlers.NewContactHandler(contactService, logger),
		Health:  handlers.NewHealthHandler(cfg.SiteName),
	}
	m := &routes.Middleware{
		Validation:   middleware.NewValidationMiddleware(),
		ContactLimit: middleware.SourceRateLimit(limiter, middleware.ClientIPKey),
		BodyLimit:    middleware.LimitRequestBody(cfg.MaxBodyBytes),
	}

	routes.SetupGlobalMiddleware(router, logger, routes.GlobalOptions{
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: []string{cfg.FrontendURL},
		LogRequests:    cfg.LogRequests,
		HSTS:           cfg.IsProduction(),
		RateLimit: middleware.RateLimitConfig{
			RPS:   cfg.GlobalRPS,
			Burst: cfg.GlobalBurst,
		},
	})
	routes.Setup(router, h, m)

	return &Server{
		router:  router,
		cfg:     cfg,
		logger:  logger,
		limiter: limiter,
	}, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", s.cfg.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if store, ok := s.limiter.(*ratelimit.WindowStore); ok {
		store.StartJanitor(ctx, s.cfg.RateLimitWindow)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Contact relay listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down contact relay")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("Contact relay stopped")
	return nil
}

// NewSender picks the email provider for cfg. Without an API key outside
// production, messages are only logged.
func NewSender(cfg *config.Config, logger *logging.Logger) (mailer.Sender, error) {
	if cfg.ResendAPIKey == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("%w: RESEND_API_KEY is required", mailer.ErrNotConfigured)
		}
		logger.Warn("RESEND_API_KEY not set, emails will only be logged")
		return mailer.NewLogSender(logger), nil
	}

	sender, err := mailer.NewResendSender(mailer.ResendConfig{
		APIKey:  cfg.ResendAPIKey,
		BaseURL: cfg.ResendAPIURL,
		Timeout: cfg.EmailTimeout + time.Second,
	})
	if err != nil {
		return nil, err
	}
	return sender, nil
}
