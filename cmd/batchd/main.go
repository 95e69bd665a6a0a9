// Command batchd scores every region on a cron schedule.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"

	"github.com/mind-engage/greenscore/internal/app"
	"github.com/mind-engage/greenscore/internal/config"
)

func main() {
	once := flag.Bool("once", false, "run a single batch and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	log.DefaultLogger.SetLevel(log.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, "greenscore-batchd")
	if err != nil {
		log.Fatal().Err(err).Msg("startup")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}()

	if *once || cfg.BatchOnStart {
		if _, err := a.Batch.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("batch run")
		}
		if *once {
			return
		}
	}

	if err := a.Batch.Start(ctx, cfg.BatchSchedule); err != nil {
		log.Error().Err(err).Str("schedule", cfg.BatchSchedule).Msg("scheduler")
		return
	}
	<-ctx.Done()
	log.Info().Msg("stopping scheduler")
	a.Batch.Stop()
}
