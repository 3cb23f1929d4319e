package app

import (
	"go.uber.org/fx"

	"github.com/timrodina/hostdesk/internal/cache"
	"github.com/timrodina/hostdesk/internal/config"
	"github.com/timrodina/hostdesk/internal/database"
	"github.com/timrodina/hostdesk/internal/logger"
	"github.com/timrodina/hostdesk/internal/mailer"
	"github.com/timrodina/hostdesk/internal/messaging"
	"github.com/timrodina/hostdesk/internal/notifier"
	"github.com/timrodina/hostdesk/internal/observability"
	repositoryorder "github.com/timrodina/hostdesk/internal/repository/order"
	grpcserver "github.com/timrodina/hostdesk/internal/server/grpc"
	httpserver "github.com/timrodina/hostdesk/internal/server/http"
	serviceauth "github.com/timrodina/hostdesk/internal/service/auth"
	serviceorder "github.com/timrodina/hostdesk/internal/service/order"
	transporthttp "github.com/timrodina/hostdesk/internal/transport/http"
	"github.com/timrodina/hostdesk/internal/worker"
	workerorder "github.com/timrodina/hostdesk/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	mailer.Module,
	notifier.Module,
	repositoryorder.Module,
	serviceorder.Module,
)

// HTTP wires the HTTP and gRPC transports on top of the core modules.
var HTTP = fx.Options(
	Core,
	serviceauth.Module,
	httpserver.Module,
	grpcserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
