// Package build parses build command flags and renders the storefront.
package build

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/solvefurniture/storefront/internal/cms"
	cmssqlite "github.com/solvefurniture/storefront/internal/cms/storage/sqlite"
	entrypoint "github.com/solvefurniture/storefront/internal/platform/cmd"
	"github.com/solvefurniture/storefront/internal/platform/i18n"
	"github.com/solvefurniture/storefront/internal/platform/timeouts"
	"github.com/solvefurniture/storefront/internal/publish"
	"github.com/solvefurniture/storefront/internal/scroll"
	"github.com/solvefurniture/storefront/internal/site"
)

// Config holds build command configuration.
type Config struct {
	CMSURL       string  `env:"SOLVE_CMS_URL" envDefault:"http://localhost:1337"`
	CMSToken     string  `env:"SOLVE_CMS_TOKEN"`
	CMSRate      float64 `env:"SOLVE_CMS_RPS" envDefault:"10"`
	OutDir       string  `env:"SOLVE_OUT_DIR" envDefault:"public"`
	CachePath    string  `env:"SOLVE_CACHE_PATH"`
	Offline      bool    `env:"SOLVE_OFFLINE"`
	Locale       string  `env:"SOLVE_LOCALE" envDefault:"en-US"`
	Currency     string  `env:"SOLVE_CURRENCY" envDefault:"NOK"`
	BubbleSeed   int64   `env:"SOLVE_BUBBLE_SEED"`
	MediaBaseURL string  `env:"SOLVE_MEDIA_BASE_URL"`
	ShareImage   string  `env:"SOLVE_SHARE_IMAGE"`

	S3Bucket    string `env:"SOLVE_S3_BUCKET"`
	S3Prefix    string `env:"SOLVE_S3_PREFIX"`
	S3Region    string `env:"SOLVE_S3_REGION"`
	S3Endpoint  string `env:"SOLVE_S3_ENDPOINT"`
	S3AccessKey string `env:"SOLVE_S3_ACCESS_KEY"`
	S3SecretKey string `env:"SOLVE_S3_SECRET_KEY"`
	S3PathStyle bool   `env:"SOLVE_S3_PATH_STYLE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.CMSURL, "cms-url", cfg.CMSURL, "The content API origin")
	fs.Float64Var(&cfg.CMSRate, "cms-rps", cfg.CMSRate, "Content API requests per second (0 disables throttling)")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "The output directory")
	fs.StringVar(&cfg.CachePath, "cache-path", cfg.CachePath, "The SQLite response cache path")
	fs.BoolVar(&cfg.Offline, "offline", cfg.Offline, "Build from the response cache only")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "The site locale")
	fs.StringVar(&cfg.Currency, "currency", cfg.Currency, "The ISO 4217 price currency")
	fs.Int64Var(&cfg.BubbleSeed, "bubble-seed", cfg.BubbleSeed, "Fixed bubble timeline seed (0 draws a random one)")
	fs.StringVar(&cfg.MediaBaseURL, "media-base-url", cfg.MediaBaseURL, "Prefix for relative media paths (defaults to the cms url)")
	fs.StringVar(&cfg.ShareImage, "share-image", cfg.ShareImage, "The og:image URL of every page")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "Publish the output to this bucket")
	fs.StringVar(&cfg.S3Prefix, "s3-prefix", cfg.S3Prefix, "Object key prefix for published files")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Offline && strings.TrimSpace(cfg.CachePath) == "" {
		return Config{}, errors.New("offline builds require a cache path")
	}
	if strings.TrimSpace(cfg.MediaBaseURL) == "" {
		cfg.MediaBaseURL = cfg.CMSURL
	}
	return cfg, nil
}

// Run renders the site once and publishes it when a bucket is configured.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBuild, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	clientCfg := cms.Config{
		BaseURL:           cfg.CMSURL,
		Token:             cfg.CMSToken,
		HTTPClient:        &http.Client{Timeout: timeouts.CMSRequest},
		Offline:           cfg.Offline,
		RequestsPerSecond: cfg.CMSRate,
	}
	if strings.TrimSpace(cfg.CachePath) != "" {
		store, err := cmssqlite.Open(cfg.CachePath)
		if err != nil {
			return fmt.Errorf("open response cache: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close response cache: %v", err)
			}
		}()
		clientCfg.Cache = store
	}
	client, err := cms.NewClient(clientCfg)
	if err != nil {
		return fmt.Errorf("init cms client: %w", err)
	}

	loc, err := i18n.New(cfg.Locale, cfg.Currency)
	if err != nil {
		return fmt.Errorf("init localizer: %w", err)
	}

	opts := site.Options{
		OutDir:       cfg.OutDir,
		Loc:          loc,
		MediaBaseURL: cfg.MediaBaseURL,
		ShareImage:   cfg.ShareImage,
	}
	if cfg.BubbleSeed != 0 {
		opts.Seeds = scroll.FixedSeed(cfg.BubbleSeed)
	}
	builder, err := site.NewBuilder(client, opts)
	if err != nil {
		return fmt.Errorf("init site builder: %w", err)
	}

	buildCtx, cancel := context.WithTimeout(ctx, timeouts.Build)
	defer cancel()
	report, err := builder.Build(buildCtx)
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	log.Printf("build %s: %d pages, %d assets, %d products (%d featured), %d rooms, %d stores, %d bubbles (seed %d) in %s",
		report.BuildID, len(report.Pages), len(report.Assets), report.Products, report.Featured,
		report.Rooms, report.Stores, report.Bubbles, report.Seed, report.Duration)

	if strings.TrimSpace(cfg.S3Bucket) == "" {
		return nil
	}
	publisher, err := publish.NewS3(ctx, publishConfig(cfg))
	if err != nil {
		return fmt.Errorf("init publisher: %w", err)
	}
	result, err := publisher.Publish(ctx, report.OutDir)
	if err != nil {
		return fmt.Errorf("publish site: %w", err)
	}
	log.Printf("published %d objects (%d bytes) to s3://%s", len(result.Keys), result.Bytes, result.Bucket)
	return nil
}

func publishConfig(cfg Config) publish.Config {
	return publish.Config{
		Bucket:       cfg.S3Bucket,
		Prefix:       cfg.S3Prefix,
		Region:       cfg.S3Region,
		Endpoint:     cfg.S3Endpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		UsePathStyle: cfg.S3PathStyle,
	}
}
