package serve

import (
	"context"
	"flag"
	"testing"
)

func TestParseConfig_ParsesDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	t.Setenv("SOLVE_OUT_DIR", "dist")

	cfg, err := ParseConfig(fs, []string{"-http-addr", "127.0.0.1:9090"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9090" {
		t.Fatalf("http addr = %q, want %q", cfg.HTTPAddr, "127.0.0.1:9090")
	}
	if cfg.OutDir != "dist" {
		t.Fatalf("out dir = %q, want %q", cfg.OutDir, "dist")
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.OutDir != "public" {
		t.Fatalf("cfg = %+v, want :8080 and public", cfg)
	}
}

func TestRunRequiresOutputDirectory(t *testing.T) {
	t.Setenv("SOLVE_OTEL_ENDPOINT", "")

	err := Run(context.Background(), Config{HTTPAddr: "127.0.0.1:0", OutDir: t.TempDir() + "/missing"})
	if err == nil {
		t.Fatal("expected error for missing output directory")
	}
}

func TestRunStopsWhenContextCanceled(t *testing.T) {
	t.Setenv("SOLVE_OTEL_ENDPOINT", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, Config{HTTPAddr: "127.0.0.1:0", OutDir: t.TempDir()}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
