package main

import (
	"go.uber.org/fx"

	"github.com/bysinka671-afk/notification-bot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
