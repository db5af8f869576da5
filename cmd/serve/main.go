// Package main serves a built storefront with the bubble preview endpoint.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	servecmd "github.com/solvefurniture/storefront/internal/cmd/serve"
	entrypoint "github.com/solvefurniture/storefront/internal/platform/cmd"
	"github.com/solvefurniture/storefront/internal/platform/config"
)

func main() {
	cfg, err := servecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceServe))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := servecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
