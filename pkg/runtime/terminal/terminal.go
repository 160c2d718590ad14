package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/relief-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/relief-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/relief-atlas/pkg/services/config"
	"github.com/de-tools/relief-atlas/pkg/services/sources"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env     *commands.Env
	opts    Options
	rootCmd *cobra.Command

	configPath   string
	settingsPath string
	verbose      bool
}

// Options contain configuration for the CLI. Explorer and Settings are
// loaded from the --config and --settings flags when left nil.
type Options struct {
	Explorer          sources.Explorer
	Settings          *config.Settings
	DefaultConfigPath string
	Output            io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		opts: opts,
		env: &commands.Env{
			Explorer: opts.Explorer,
			Settings: opts.Settings,
			Text:     NewReporter(opts.Output),
			Table:    export.NewReporter(opts.Output),
		},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides os.Args, mostly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "relief",
		Short:             "Disaster response reporting and analytics",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
	}
	cmd.SetOut(cli.opts.Output)

	flags := cmd.PersistentFlags()
	flags.StringVar(&cli.configPath, "config", cli.opts.DefaultConfigPath, "Path to the source profiles file")
	flags.StringVar(&cli.settingsPath, "settings", "", "Path to the dashboard settings YAML file")
	flags.StringVar(&cli.env.Profile, "profile", config.DefaultProfile, "Source profile to read reports from")
	flags.BoolVar(&cli.env.Offline, "offline", false, "Read reports from the local snapshot instead of the source")
	flags.StringVar(&cli.env.Format, "format", commands.FormatText, "Output format: text or table")
	flags.BoolVarP(&cli.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(commands.NewOverviewCmd(cli.env))
	cmd.AddCommand(commands.NewAnalyticsCmd(cli.env))
	cmd.AddCommand(commands.NewTimelineCmd(cli.env))
	cmd.AddCommand(commands.NewRequestsCmd(cli.env))
	cmd.AddCommand(commands.NewStatusCmd(cli.env))
	cmd.AddCommand(commands.NewSyncCmd(cli.env))
	cmd.AddCommand(commands.NewDocumentsCmd(cli.env))
	cmd.AddCommand(commands.NewProfilesCmd(cli.env))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	level := zerolog.WarnLevel
	if cli.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))

	if cli.env.Settings == nil {
		settings, err := config.LoadSettings(cli.settingsPath)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		cli.env.Settings = settings
	}

	if cli.env.Explorer != nil {
		return nil
	}
	registry, err := config.NewRegistry(cli.configPath)
	if err != nil {
		// The local snapshot can be read without any profile.
		if cli.env.Offline {
			logger.Debug().Err(err).Msg("no source profiles loaded")
			return nil
		}
		return fmt.Errorf("failed to load profiles from %s: %w", cli.configPath, err)
	}
	cli.env.Explorer = sources.NewExplorer(registry)
	return nil
}
