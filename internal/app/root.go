package app

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trovelib/trovectl/internal/api"
	"github.com/trovelib/trovectl/internal/config"
	"github.com/trovelib/trovectl/internal/util"
)

var (
	cfg    *config.Config
	client *api.Client

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string

	appVersion = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "trovectl",
	Short: "Upload and link content in a Trove library",
	Long: `trovectl is a terminal client for the Trove content-library platform.

Upload local files or link remote URLs into your library, with URL previews,
and replace the source behind an existing entry without disturbing anyone
else who references the same content.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// SetVersion records the build version injected via ldflags.
func SetVersion(v string) { appVersion = v }

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/trovectl/config.yml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		if flagConfig != "" {
			os.Setenv("TROVECTL_CONFIG", flagConfig)
		}

		// version runs without config or token.
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// config subcommands inspect and write settings; no token needed.
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}

		if cfg.API.Token == "" {
			return fmt.Errorf("no Trove token found — set %s or TROVECTL_TOKEN",
				cfg.API.TokenEnv)
		}

		client = api.New(cfg.API.Token, cfg.API.BaseURL)
		return nil
	}

	rootCmd.AddCommand(
		newAddCmd(),
		newEditCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}
