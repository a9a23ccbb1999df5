package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/logship/internal/cliconfig"
	logAdapter "github.com/bft-labs/logship/pkg/log"
	"github.com/bft-labs/logship/pkg/logship"
	"github.com/bft-labs/logship/plugins/configwatcher"
	"github.com/bft-labs/logship/plugins/metrics"
)

const helpBanner = `
 █████         ███████       █████████   █████████  █████   █████ █████ ███████████
░░███         ███░░░░░███   ███░░░░░███ ███░░░░░███░░███   ░░███ ░░███ ░░███░░░░░███
 ░███        ███     ░░███ ███     ░░░ ░███    ░░░  ░███    ░███  ░███  ░███    ░███
 ░███       ░███      ░███ ░███        ░░█████████  ░███████████  ░███  ░██████████
 ░███       ░███      ░███ ░███   █████ ░░░░░░░░███ ░███░░░░░███  ░███  ░███░░░░░░
 ░███      █░░███     ███  ░░███  ░░███ ███    ░███ ░███    ░███  ░███  ░███
 ███████████ ░░░███████░    ░░█████████░░█████████  █████   █████ █████ █████
░░░░░░░░░░░    ░░░░░░░       ░░░░░░░░░  ░░░░░░░░░  ░░░░░   ░░░░░ ░░░░░ ░░░░░
`

const helpDescription = `
Ship Kafka topics to your intake endpoint in keyed batches.

Highlights:
  - Groups records per topic and key so downstream ordering stays intact.
  - Commits offsets only after delivery; restarts resume where they left off.
  - Gzip payloads, group or locally stored offsets; configure via file, env, or flags.
  - Requires an intake API key; read the docs or email us.

Docs: https://docs.bft-labs.io/logship/getting-started
Contact: support@bft-labs.io
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  logship --brokers localhost:9092 --topics app-logs --host intake.example.com --api-key <api-key>
  logship --config $HOME/.logship/config.toml --once
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var verbose bool

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "logship",
		Short:   "Ship Kafka topics to your intake endpoint in keyed batches",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log = log.Level(zerolog.DebugLevel)
			} else {
				log = log.Level(zerolog.InfoLevel)
			}

			// Load config file first (default $HOME/.logship/config.toml), then apply flag overrides
			// Determine config path
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			// Flag values live in cfg; every round starts from this
			// snapshot so stale file values never leak across reloads.
			base := cfg

			loadConfig := func() (cliconfig.Config, error) {
				runCfg := base

				if cfgFile != "" && cliconfig.FileExists(cfgFile) {
					fc, err := cliconfig.LoadFileConfig(cfgFile)
					if err != nil {
						return runCfg, fmt.Errorf("load config: %w", err)
					}
					if err := cliconfig.ApplyFileConfig(&runCfg, fc, changed); err != nil {
						return runCfg, err
					}
				}

				// Apply environment variables (LOGSHIP_*)
				// These override file config but are overridden by flags (checked via changed map)
				cliconfig.ApplyEnvConfig(&runCfg, changed)

				// Validate and set derived defaults
				if err := runCfg.Validate(); err != nil {
					return runCfg, err
				}
				return runCfg, nil
			}

			// Setup signal handling for graceful shutdown
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			// The config watcher pokes this channel; each poke tears the
			// instance down and rebuilds it from the file on disk.
			reloadCh := make(chan struct{}, 1)

			for {
				runCfg, err := loadConfig()
				if err != nil {
					return err
				}

				// Log configuration (masking API key)
				logCfg := runCfg
				if len(logCfg.APIKey) > 0 {
					logCfg.APIKey = "*****"
				}
				log.Info().Interface("config", logCfg).Msg("configuration")

				// Convert cliconfig.Config to logship.Config
				libCfg := logship.Config{
					Brokers:           runCfg.Brokers,
					Topics:            runCfg.Topics,
					GroupID:           runCfg.GroupID,
					ClientID:          runCfg.ClientID,
					Host:              runCfg.Host,
					Port:              runCfg.Port,
					APIKey:            runCfg.APIKey,
					MaxBatchLength:    runCfg.MaxBatchLength,
					CompressionEnable: runCfg.CompressionEnable,
					CompressionLevel:  runCfg.CompressionLevel,
					PollTimeout:       runCfg.PollTimeout,
					HTTPTimeout:       runCfg.HTTPTimeout,
					StateDir:          runCfg.StateDir,
					StartAt:           runCfg.StartAt,
					Once:              runCfg.Once,
				}

				// Create zerolog adapter for the library
				zerologAdapter := logAdapter.NewZerologAdapterWithLogger(log)

				opts := []logship.Option{
					logship.WithLogger(zerologAdapter),
					// Enable config watcher plugin; a change tears the
					// instance down and rebuilds it
					configwatcher.WithConfigWatcher(configwatcher.Config{
						Path: cfgFile,
						OnChange: func(map[string]any) {
							select {
							case reloadCh <- struct{}{}:
							default:
							}
						},
					}),
				}
				if runCfg.MetricsAddr != "" {
					opts = append(opts, metrics.WithMetricsServer(metrics.Config{
						ListenAddr: runCfg.MetricsAddr,
					}))
				}

				l, err := logship.New(libCfg, opts...)
				if err != nil {
					return fmt.Errorf("create logship: %w", err)
				}

				if err := l.Start(ctx); err != nil {
					return fmt.Errorf("start logship: %w", err)
				}

				// Create done channel to detect completion
				doneCh := make(chan struct{})
				watchCtx, stopWatch := context.WithCancel(ctx)
				go func() {
					// Poll for completion (for once mode)
					ticker := time.NewTicker(100 * time.Millisecond)
					defer ticker.Stop()
					for {
						select {
						case <-watchCtx.Done():
							return
						case <-ticker.C:
							status := l.Status()
							if status == logship.StateStopped || status == logship.StateCrashed {
								close(doneCh)
								return
							}
						}
					}
				}()

				// Wait for signal, completion, or a config change
				var crashed, reload bool
				select {
				case <-sigCh:
					log.Info().Msg("received signal, stopping...")
				case <-doneCh:
					// Completed (once mode or crash)
					if l.Status() == logship.StateCrashed {
						crashed = true
					}
				case <-reloadCh:
					log.Info().Msg("config changed, restarting...")
					reload = true
				}
				stopWatch()

				// Graceful shutdown; the instance may already have
				// stopped on its own in once mode
				if err := l.Stop(); err != nil && !errors.Is(err, logship.ErrNotRunning) {
					return fmt.Errorf("stop logship: %w", err)
				}

				if crashed {
					return errors.New("logship crashed")
				}
				if !reload {
					return nil
				}
			}
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.logship/config.toml)")
	root.Flags().StringSliceVar(&cfg.Brokers, "brokers", cfg.Brokers, "Kafka-compatible seed brokers (host:port)")
	root.Flags().StringSliceVar(&cfg.Topics, "topics", cfg.Topics, "topics to consume")
	root.Flags().StringVar(&cfg.GroupID, "group", cfg.GroupID, "consumer group id (empty uses locally stored offsets)")
	root.Flags().StringVar(&cfg.ClientID, "client-id", cfg.ClientID, "client id presented to the brokers")

	root.Flags().StringVar(&cfg.Host, "host", cfg.Host, "intake service host")
	root.Flags().IntVar(&cfg.Port, "port", cfg.Port, "intake service port")
	root.Flags().StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "API key for authentication")

	root.Flags().IntVar(&cfg.MaxBatchLength, "max-batch-length", cfg.MaxBatchLength, "records per topic+key batch before a send is forced")
	root.Flags().BoolVar(&cfg.CompressionEnable, "compress", cfg.CompressionEnable, "gzip request payloads")
	root.Flags().IntVar(&cfg.CompressionLevel, "compression-level", cfg.CompressionLevel, "gzip compression level (1-9)")

	root.Flags().DurationVar(&cfg.PollTimeout, "poll-timeout", cfg.PollTimeout, "maximum wait per broker poll")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")

	root.Flags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "state directory for offsets.json (defaults under $HOME/.logship/state)")
	if err := root.Flags().MarkHidden("state-dir"); err != nil {
		log.Info().Err(err).Msg("failed to hide state-dir flag")
	}
	root.Flags().StringVar(&cfg.StartAt, "start-at", cfg.StartAt, "where to begin without stored offsets (start|end)")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus listen address (empty disables)")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "drain available records and exit")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("logship")
		os.Exit(1)
	}
}
