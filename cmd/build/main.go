// Package main renders the storefront into a static directory.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	buildcmd "github.com/solvefurniture/storefront/internal/cmd/build"
	entrypoint "github.com/solvefurniture/storefront/internal/platform/cmd"
	"github.com/solvefurniture/storefront/internal/platform/config"
)

func main() {
	cfg, err := buildcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceBuild))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := buildcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to build: %v", err)
	}
}
