package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vsinha/bidengine/pkg/infrastructure/logger"
	"github.com/vsinha/bidengine/pkg/interfaces/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	log, logErr := logger.New(false, false)
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Error("command failed", zap.Error(err))
	_ = log.Sync()
	os.Exit(1)
}
