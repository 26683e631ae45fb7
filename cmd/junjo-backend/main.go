// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/junjo-ai/junjo-server/cmd/junjo-backend/app"
)

const serviceName = "junjo-backend"

func main() {
	// A missing .env file is fine; plain environment variables still apply.
	godotenv.Load()

	v := viper.New()
	command := &cobra.Command{
		Use:   serviceName,
		Short: serviceName + " drains the span ingestion log into the span store and serves internal API-key validation.",
		RunE: func(_ *cobra.Command, _ /* args */ []string) error {
			opts := new(app.Options).InitFromViper(v)
			logger, err := newLogger(opts.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			service, err := app.NewService(ctx, opts, logger)
			if err != nil {
				logger.Error("Failed to initialize service", zap.Error(err))
				return err
			}
			return service.Run(ctx)
		},
	}

	flagSet := new(flag.FlagSet)
	app.AddFlags(flagSet)
	command.Flags().AddGoFlagSet(flagSet)
	v.BindPFlags(command.Flags())
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := command.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = atomicLevel
	return cfg.Build()
}
