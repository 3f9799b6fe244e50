package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/danielledeleo/addinterwiki/internal/config"
	"github.com/danielledeleo/addinterwiki/internal/maintenance"
	"github.com/danielledeleo/addinterwiki/internal/storage"
	"github.com/danielledeleo/addinterwiki/interwiki"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	overwrite  bool
	policy     string
	once       bool
	force      bool
	initSchema bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "addinterwiki [flags] <prefix> <url>",
		Short: "Add an entry to the interwiki database table",
		Long: `Adds or updates one interwiki link, mapping a prefix to a URL template.
Nothing is written when an interwiki cache is configured.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", config.DefaultFilename, "config file")
	flags.BoolVar(&opts.overwrite, "overwrite", false, "overwrite existing links")
	flags.StringVar(&opts.policy, "policy", "", "conflict policy: read-then-decide or ignore-on-duplicate (default from config)")
	flags.BoolVar(&opts.once, "once", false, "record the update and skip it on later runs")
	flags.BoolVar(&opts.force, "force", false, "run even if the update was already recorded")
	flags.BoolVar(&opts.initSchema, "init-schema", false, "create the interwiki tables if they are missing")

	return cmd
}

// parseArgs returns the prefix and URL or the usage error for whichever is
// missing.
func parseArgs(args []string) (string, string, error) {
	if len(args) < 1 || args[0] == "" {
		return "", "", interwiki.ErrMissingPrefix
	}
	if len(args) < 2 || args[1] == "" {
		return "", "", interwiki.ErrMissingURL
	}
	if len(args) > 2 {
		return "", "", fmt.Errorf("unexpected arguments %q", args[2:])
	}
	return args[0], args[1], nil
}

func run(ctx context.Context, out io.Writer, opts *options, args []string) error {
	conf, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// With the cache override active nothing is read from the arguments or
	// the database, so there is no need to validate or connect.
	if conf.CacheOverrideActive() {
		req := interwiki.Request{CacheOverrideActive: true}
		if len(args) > 0 {
			req.Prefix = args[0]
		}
		result, err := interwiki.NewUpserter(nil, "").Upsert(ctx, req)
		if err != nil {
			return err
		}
		slog.Info("interwiki cache configured", "interwiki_cache", conf.InterwikiCache)
		fmt.Fprintln(out, result)
		return nil
	}

	prefix, url, err := parseArgs(args)
	if err != nil {
		return err
	}

	policyName := conf.ConflictPolicy
	if opts.policy != "" {
		policyName = opts.policy
	}
	policy, err := interwiki.ParseConflictPolicy(policyName)
	if err != nil {
		return err
	}

	req := interwiki.Request{
		Prefix:    prefix,
		URL:       url,
		Overwrite: opts.overwrite,
	}

	dialect, err := storage.ParseDialect(conf.Driver)
	if err != nil {
		return err
	}
	conn, err := storage.Open(dialect, conf.DSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	if opts.initSchema {
		if err := storage.RunMigrations(conn, dialect); err != nil {
			return err
		}
	}

	store, err := storage.Init(conn, dialect)
	if err != nil {
		return err
	}

	update := &maintenance.InterwikiUpdate{
		Upserter: interwiki.NewUpserter(store, policy),
		Request:  req,
	}
	runner := &maintenance.Runner{Log: store, Out: out, Once: opts.once, Force: opts.force}

	ran, err := runner.Run(ctx, update)
	if err != nil {
		return err
	}
	if ran {
		slog.Info("interwiki update finished",
			"prefix", prefix,
			"outcome", update.Result.Outcome,
			"policy", policy,
			"driver", dialect,
		)
	}
	return nil
}
