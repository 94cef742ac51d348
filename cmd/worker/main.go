package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Valentin39220/bini-crm/config"
	"github.com/Valentin39220/bini-crm/internal/bootstrap"
	"github.com/Valentin39220/bini-crm/internal/cli"
	"github.com/Valentin39220/bini-crm/internal/logging"
	"github.com/Valentin39220/bini-crm/internal/prospects/service"
)

func main() {
	root := cli.NewRootCommand(openStore)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (*service.ProspectService, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	// stdout carries the command output, keep the logger quiet
	logger, err := logging.New(cfg.App.Environment, "error")
	if err != nil {
		return nil, nil, err
	}

	app, err := bootstrap.OpenApp(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return app.Service, func() error {
		_ = logger.Sync()
		return app.Close()
	}, nil
}
