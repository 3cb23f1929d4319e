package auth

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/timrodina/hostdesk/internal/config"
	"github.com/timrodina/hostdesk/internal/supabase"
	"github.com/timrodina/hostdesk/pkg/errorbank"
)

var authTracer = otel.Tracer("github.com/timrodina/hostdesk/service/auth")

// Provider is the slice of the hosted auth service the guard consumes.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (supabase.Session, error)
	GetUser(ctx context.Context, accessToken string) (supabase.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Service gates the admin dashboard behind authenticated sessions.
type Service struct {
	provider Provider
	retries  int
	backoff  time.Duration
	logger   *zap.Logger
}

// NewService builds the session guard.
func NewService(provider Provider, cfg config.Config, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		retries:  cfg.Auth.SessionRetries,
		backoff:  cfg.Auth.RetryBackoff,
		logger:   logger,
	}
}

// Login exchanges credentials for a session. Rejections surface a single
// generic message so callers cannot probe which field was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (supabase.Session, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	if email == "" || password == "" {
		return supabase.Session{}, errorbank.Unauthorized("invalid email or password")
	}

	session, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("admin login rejected", zap.Error(err))
		}
		return supabase.Session{}, errorbank.Unauthorized("invalid email or password", errorbank.WithCause(err))
	}
	return session, nil
}

// Logout invalidates the session. A failed remote invalidation is logged and
// swallowed; the client drops its token either way.
func (s *Service) Logout(ctx context.Context, accessToken string) {
	ctx, span := authTracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	if accessToken == "" {
		return
	}
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		if s.logger != nil {
			s.logger.Warn("session invalidation failed", zap.Error(err))
		}
	}
}

// Verify resolves the user behind an access token. Transient provider
// failures are retried within a small budget because session checks right
// after a restart can fail briefly; exhausting the budget means
// unauthenticated, never a fatal error.
func (s *Service) Verify(ctx context.Context, accessToken string) (supabase.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Verify")
	defer span.End()

	if accessToken == "" {
		return supabase.User{}, errorbank.Unauthorized("authentication required")
	}

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return supabase.User{}, errorbank.Unauthorized("authentication required", errorbank.WithCause(ctx.Err()))
			case <-time.After(s.backoff):
			}
		}

		user, err := s.provider.GetUser(ctx, accessToken)
		if err == nil {
			return user, nil
		}
		lastErr = err

		var authErr *supabase.AuthError
		if errors.As(err, &authErr) && !authErr.Transient() {
			// Definitive rejection; retrying cannot help.
			break
		}
		if s.logger != nil {
			s.logger.Warn("session check failed", zap.Int("attempt", attempt+1), zap.Error(err))
		}
	}

	return supabase.User{}, errorbank.Unauthorized("authentication required", errorbank.WithCause(lastErr))
}
