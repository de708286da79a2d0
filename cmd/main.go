package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tutor-portal/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred cleanup happens before the process ends.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx)
	if err != nil {
		logrus.Errorf("Failed to initialize tutor portal: %v", err)
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logrus.Errorf("Tutor portal stopped: %v", err)
		return 1
	}
	return 0
}
