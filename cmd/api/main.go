package main

import (
	"go.uber.org/fx"

	"github.com/timrodina/hostdesk/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
