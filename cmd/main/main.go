package main

import (
	"github.com/j0lvera/kickoff/internal/ai"
	"github.com/j0lvera/kickoff/internal/bot"
	"github.com/j0lvera/kickoff/internal/config"
	"github.com/j0lvera/kickoff/internal/health"
	"github.com/j0lvera/kickoff/internal/log"
	"go.uber.org/fx"
)

func main() {

	fx.New(
		config.Module(),
		log.Module(),
		fx.WithLogger(log.NewFxLogger),
		health.Module(),
		ai.Module(),
		bot.Module(),
	).Run()
}
