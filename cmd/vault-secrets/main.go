package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Checker-Finance/vault-secrets/pkg/logger"
)

// Version is set at build time
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		// Provisioning must halt rather than continue without its secrets.
		os.Exit(1)
	}
}
