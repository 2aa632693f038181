package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/pvsa/internal/adapters/sheet"
	app "github.com/okian/pvsa/internal/app"
	"github.com/okian/pvsa/internal/config"
	"github.com/okian/pvsa/pkg/logger"
)

// cli holds state shared by every subcommand once the root has loaded it.
type cli struct {
	cfg *config.Config
	log logger.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Use stderr since the logger may not be initialized yet
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "pvsa",
		Short: "Volunteer hours lookup for the President's Volunteer Service Award",
		Long: `pvsa reads the volunteer log export, totals a volunteer's hours by date
and activity type, and evaluates PVSA award eligibility.

Configuration is layered: defaults, then the YAML file named by PVSA_CONFIG,
then PVSA_* environment variables. A .env file in the working directory is
loaded first when present.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}

	root.AddCommand(
		newServeCmd(c),
		newLookupCmd(c),
		newPeriodCmd(c),
	)
	return root
}

// setup initializes logging and configuration (.env -> defaults -> file -> env).
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	c.log = logger.Get()

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.cfg = cfg

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		c.log.Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// source builds the sheet source selected by configuration.
func (c *cli) source(ctx context.Context) (sheet.Source, error) {
	switch c.cfg.SheetSource {
	case config.SourceFile:
		return sheet.NewFileSource(c.cfg.SheetPath, sheet.WithFileLogger(c.log.Named("sheet"))), nil
	case config.SourceS3:
		src, err := sheet.NewS3Source(ctx, c.cfg.S3Bucket, c.cfg.S3Key, sheet.WithRegion(c.cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("s3 source: %w", err)
		}
		return src, nil
	default:
		return sheet.NewHTTPSource(c.cfg.SheetURL,
			sheet.WithTimeout(c.cfg.FetchTimeout()),
			sheet.WithMaxAttempts(c.cfg.FetchMaxAttempts),
			sheet.WithHTTPLogger(c.log.Named("sheet")),
		), nil
	}
}

// service builds the lookup service around src. Extra options are applied last.
func (c *cli) service(src sheet.Source, opts ...app.Option) *app.Service {
	base := []app.Option{
		app.WithLogger(c.log.Named("service")),
		app.WithRefreshInterval(c.cfg.RefreshInterval()),
		app.WithCategoryHours(c.cfg.CategoryHours),
	}
	if src != nil {
		base = append(base, app.WithSource(src))
	}
	return app.New(append(base, opts...)...)
}
