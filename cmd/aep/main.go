// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/cli"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/logger"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/version"
)

var buildVersion string // set by ldflags or defaults to imported version

func init() {
	if buildVersion == "" {
		buildVersion = version.Version
	}
}

func main() {
	log := logger.NewCLILogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, buildVersion, log); err != nil {
		log.Printf("aep: %v", err)
		os.Exit(1)
	}
}
