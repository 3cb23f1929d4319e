package auth

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/timrodina/hostdesk/internal/config"
	"github.com/timrodina/hostdesk/internal/supabase"
)

// Module provides the auth provider client and the session guard to Fx.
var Module = fx.Options(
	fx.Provide(func(cfg config.Config) (*supabase.Client, error) {
		return supabase.New(supabase.Config{
			ProjectURL: cfg.Auth.ProjectURL,
			AnonKey:    cfg.Auth.AnonKey,
			Timeout:    cfg.Auth.RequestTimeout,
		})
	}),
	fx.Provide(func(client *supabase.Client, cfg config.Config, logger *zap.Logger) *Service {
		return NewService(client, cfg, logger)
	}),
)
