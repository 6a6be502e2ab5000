package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on (default from config)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Settings()
	addr := c.Addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	lock, err := server.AcquireLock(server.LockPath(ctx.Store.GetConfigPath()), addr)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release server lock", "error", err)
		}
	}()

	srv := server.New(ctx.Store, ctx.CoachOrOffline(), server.Options{
		AllowedOrigins:       cfg.Server.AllowedOrigins,
		MoodWindowDays:       cfg.MoodWindowDays,
		CompletionWindowDays: cfg.CompletionWindowDays,
		Now:                  ctx.Now,
		Today:                ctx.Today,
	})

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving habitlit API on http://%s (coach: %s)\n", addr, ctx.CoachOrOffline().ProviderID())
	return srv.ListenAndServe(sigCtx, addr)
}
