package notifier

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/timrodina/hostdesk/internal/config"
	"github.com/timrodina/hostdesk/internal/mailer"
	repo "github.com/timrodina/hostdesk/internal/repository/order"
)

// Module provides the notification dispatcher and its after-commit seam.
var Module = fx.Options(
	fx.Provide(func(sender mailer.Sender, repository *repo.Repository, cfg config.Config, logger *zap.Logger) *Service {
		return NewService(sender, repository, cfg, logger)
	}),
	fx.Provide(NewDispatcher),
)
