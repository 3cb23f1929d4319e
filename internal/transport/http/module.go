package http

import (
	"go.uber.org/fx"

	admintransport "github.com/timrodina/hostdesk/internal/transport/http/admin"
	functionstransport "github.com/timrodina/hostdesk/internal/transport/http/functions"
	ordertransport "github.com/timrodina/hostdesk/internal/transport/http/order"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	admintransport.Module,
	functionstransport.Module,
)
