// Package serve parses serve command flags and launches the preview server.
package serve

import (
	"context"
	"flag"
	"fmt"
	"log"

	entrypoint "github.com/solvefurniture/storefront/internal/platform/cmd"
	"github.com/solvefurniture/storefront/internal/serve"
)

// Config holds serve command configuration.
type Config struct {
	HTTPAddr string `env:"SOLVE_HTTP_ADDR" envDefault:":8080"`
	OutDir   string `env:"SOLVE_OUT_DIR" envDefault:"public"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "The built site directory")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the built site until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServe, func(ctx context.Context) error {
		server, err := serve.New(serve.Config{Addr: cfg.HTTPAddr, OutDir: cfg.OutDir})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer func() {
			if err := server.Close(); err != nil {
				log.Printf("close web server: %v", err)
			}
		}()
		return server.ListenAndServe(ctx)
	})
}
