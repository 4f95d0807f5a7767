package main

import (
	"os"

	"hotel/config"
	"hotel/helper"
	"hotel/shared/logger"

	"github.com/rs/zerolog/log"
)

const usage = "usage: migrate up|down|step-up|drop"

func main() {
	logger.InitLogger()

	if len(os.Args) < 2 {
		log.Fatal().Msg(usage)
	}

	cfg := config.Get()

	logger.Configure(cfg)

	action := helper.Action(os.Args[1])

	switch action {
	case helper.ActionUp, helper.ActionDown, helper.ActionStepUp, helper.ActionDrop:
	default:
		log.Fatal().Str("action", os.Args[1]).Msg(usage)
	}

	if err := helper.Runner(cfg, action); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
