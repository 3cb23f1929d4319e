package order

import (
	"go.uber.org/fx"

	repo "github.com/timrodina/hostdesk/internal/repository/order"
)

// Module provides the order service to Fx, backed by the bun repository.
var Module = fx.Options(
	fx.Provide(func(r *repo.Repository) Repository { return r }),
	fx.Provide(NewService),
)
