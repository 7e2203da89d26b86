package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/edouarda/rocksdb-cloud/pkg/cloud"
	"github.com/edouarda/rocksdb-cloud/pkg/engine"
	"github.com/edouarda/rocksdb-cloud/pkg/logger"
	"github.com/edouarda/rocksdb-cloud/pkg/metrics"
	"github.com/edouarda/rocksdb-cloud/pkg/options"
	"github.com/edouarda/rocksdb-cloud/pkg/registry"
)

var version = "0.1.0"

func main() {
	var configFile string
	var logLevel string

	root := &cobra.Command{
		Use:   "optool",
		Short: "Inspect and manipulate storage engine option strings",
		Long: `optool parses, serializes, and compares the option strings used to
configure the storage engine: column family options, database options, and
cloud environment options.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(logger.Config{
				Level:    logLevel,
				Encoding: "console",
			}); err != nil {
				return err
			}
			if configFile != "" {
				viper.SetConfigFile(configFile)
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("reading config file %s: %w", configFile, err)
				}
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML file with default option strings per kind")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("optool v%s\n", version)
		},
	})

	root.AddCommand(newListCommand())
	root.AddCommand(newParseCommand())
	root.AddCommand(newDumpCommand())
	root.AddCommand(newDiffCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newTarget builds a fresh option object of the requested kind, seeded with
// the kind's default option string from the config file when one is set.
func newTarget(kind string, cfg *options.ConfigOptions) (options.Configurable, error) {
	var target options.Configurable
	switch kind {
	case "cf", "column_family":
		target = engine.NewColumnFamilyOptions()
	case "db", "database":
		target = engine.NewDBOptions()
	case "cloud":
		target = cloud.NewCloudEnvOptions()
	default:
		return nil, fmt.Errorf("unknown option kind %q (want cf, db, or cloud)", kind)
	}
	if defaults := viper.GetString("defaults." + kind); defaults != "" {
		if err := target.ConfigureFromString(defaults, cfg); err != nil {
			return nil, fmt.Errorf("applying defaults for %s: %w", kind, err)
		}
	}
	return target, nil
}

// observe records one framework operation on the shared counters.
func observe(operation string, start time.Time, err error) {
	metrics.ConfigureOps.WithLabelValues(operation, metrics.Outcome(err)).Inc()
	metrics.ConfigureDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func newConfigOptions(ignoreUnknown bool) *options.ConfigOptions {
	cfg := options.DefaultConfigOptions()
	cfg.Registry = registry.Default()
	cfg.IgnoreUnknownOptions = ignoreUnknown
	cfg.IgnoreUnknownObjects = ignoreUnknown
	return cfg
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered object families and type ids",
		Run: func(cmd *cobra.Command, args []string) {
			for _, family := range registry.Types() {
				fmt.Printf("%s:\n", family)
				for _, id := range registry.List(family) {
					fmt.Printf("  - %s\n", id)
				}
			}
		},
	}
}

func newParseCommand() *cobra.Command {
	var ignoreUnknown bool

	cmd := &cobra.Command{
		Use:   "parse <kind> <option-string>",
		Short: "Parse an option string and print the normalized result",
		Long: `Parse applies an option string to a fresh set of options of the given
kind (cf, db, or cloud) and prints the fully serialized result. Parsing
errors name the offending option.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := newConfigOptions(ignoreUnknown)
			target, err := newTarget(args[0], cfg)
			if err != nil {
				return err
			}
			log := logger.Get().With(zap.String("component", "optool"))
			start := time.Now()
			err = target.ConfigureFromString(args[1], cfg)
			observe("configure", start, err)
			if err != nil {
				log.Error("parse failed", zap.Error(err))
				return err
			}
			start = time.Now()
			text, err := target.GetOptionString(cfg)
			observe("serialize", start, err)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&ignoreUnknown, "ignore-unknown", false, "Tolerate unknown options and object ids")
	return cmd
}

func newDumpCommand() *cobra.Command {
	var ignoreUnknown bool
	var asJSON bool
	var mutableOnly bool

	cmd := &cobra.Command{
		Use:   "dump <kind> [option-string]",
		Short: "Dump every option of a kind, optionally after applying a string",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := newConfigOptions(ignoreUnknown)
			target, err := newTarget(args[0], cfg)
			if err != nil {
				return err
			}
			if len(args) == 2 {
				start := time.Now()
				err := target.ConfigureFromString(args[1], cfg)
				observe("configure", start, err)
				if err != nil {
					return err
				}
			}
			cfg.MutableOptionsOnly = mutableOnly
			names := target.GetOptionNames(cfg)
			dump := make(map[string]string, len(names))
			for _, name := range names {
				value, err := target.GetOption(name, cfg)
				if err != nil {
					return err
				}
				dump[name] = value
			}
			if asJSON {
				encoded, err := json.MarshalIndent(dump, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(encoded))
				return nil
			}
			for _, name := range names {
				fmt.Printf("%s=%s\n", name, dump[name])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&ignoreUnknown, "ignore-unknown", false, "Tolerate unknown options and object ids")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the dump as JSON")
	cmd.Flags().BoolVar(&mutableOnly, "mutable-only", false, "Dump only options changeable on a live database")
	return cmd
}

func newDiffCommand() *cobra.Command {
	var sanity string

	cmd := &cobra.Command{
		Use:   "diff <kind> <option-string-a> <option-string-b>",
		Short: "Compare two option strings of the same kind",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := newConfigOptions(false)
			switch strings.ToLower(sanity) {
			case "exact":
				cfg.SanityLevel = options.SanityLevelExactMatch
			case "loose":
				cfg.SanityLevel = options.SanityLevelLooselyCompatible
			case "none":
				cfg.SanityLevel = options.SanityLevelNone
			default:
				return fmt.Errorf("unknown sanity level %q (want exact, loose, or none)", sanity)
			}

			a, err := newTarget(args[0], cfg)
			if err != nil {
				return err
			}
			b, err := newTarget(args[0], cfg)
			if err != nil {
				return err
			}
			if err := a.ConfigureFromString(args[1], cfg); err != nil {
				return err
			}
			if err := b.ConfigureFromString(args[2], cfg); err != nil {
				return err
			}
			start := time.Now()
			ok, mismatch := a.Matches(b, cfg)
			observe("compare", start, nil)
			if ok {
				fmt.Println("options match")
				return nil
			}
			left, _ := a.GetOption(mismatch, cfg)
			right, _ := b.GetOption(mismatch, cfg)
			fmt.Printf("options differ at %s: %q vs %q\n", mismatch, left, right)
			os.Exit(1)
			return nil
		},
	}
	cmd.Flags().StringVar(&sanity, "sanity", "exact", "Comparison strictness (exact, loose, none)")
	return cmd
}
