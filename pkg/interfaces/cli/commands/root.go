package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vsinha/bidengine/pkg/application/config"
	"github.com/vsinha/bidengine/pkg/infrastructure/logger"
	"github.com/vsinha/bidengine/pkg/interfaces/cli/output"
)

const app = "bidengine"

// cli carries the state shared by every subcommand of one root command
type cli struct {
	v       *viper.Viper
	cfgFile string
	format  string
	output  string

	cfg    config.Config
	rt     config.Runtime
	logger *zap.Logger
	now    func() time.Time
}

// NewRootCommand builds the bidengine command tree. Every call returns an
// independent tree with its own settings.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	c := &cli{now: now}

	rootCmd := &cobra.Command{
		Use:           app,
		Short:         "bidengine matches, prices and ranks cable RFPs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "a config file (default is bidengine.yaml in current directory)")
	pf.BoolP("debug", "d", false, "verbose/debug output")
	pf.BoolP("json", "j", false, "json format for logging")
	pf.String("data-dir", "", "directory with reference data tables (default is the built-in demo catalog)")
	pf.String("store", config.StoreJSON, "rfp store: memory, json or sqlite")
	pf.String("store-path", "", "rfp store file (default depends on --store)")
	pf.String("redis-url", "", "redis url for the cross-process writer lock")
	pf.Int("workers", 4, "concurrent bid computations for process --all")
	pf.StringVarP(&c.format, "format", "f", output.FormatText, "output format: "+strings.Join(output.Formats, ", "))
	pf.StringVarP(&c.output, "output", "o", "", "write output to a file instead of stdout")

	var err error
	c.v, err = config.NewViper()
	if err != nil {
		// defaults are static; a failure here is a programming error
		panic(err)
	}
	for key, flag := range map[string]string{
		"debug":      "debug",
		"json":       "json",
		"data_dir":   "data-dir",
		"store":      "store",
		"store_path": "store-path",
		"redis_url":  "redis-url",
		"workers":    "workers",
	} {
		if err := c.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		c.ingestCommand(),
		c.listCommand(),
		c.matchCommand(),
		c.priceCommand(),
		c.processCommand(),
		c.rankCommand(),
		c.archiveCommand(),
		c.seedCommand(),
		c.serveCommand(),
		c.configCommand(),
	)
	return rootCmd
}

func (c *cli) init() error {
	if err := config.ReadFile(c.v, c.cfgFile); err != nil {
		return err
	}
	cfg, rt, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg, c.rt = cfg, rt

	c.logger, err = logger.New(c.v.GetBool("json"), c.v.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	c.logger.Debug("configuration loaded",
		zap.String("store", rt.Store),
		zap.String("store_path", rt.ResolvedStorePath()),
		zap.String("data_dir", rt.DataDir))
	return nil
}

func (c *cli) render(cmd *cobra.Command, table output.Table) error {
	return output.Generate(cmd.OutOrStdout(), table, output.Config{Format: c.format, OutputPath: c.output})
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// confirm asks a yes/no question on the command's streams
func confirm(cmd *cobra.Command, label string) error {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    nopWriteCloser{cmd.ErrOrStderr()},
	}
	if _, err := prompt.Run(); err != nil {
		return fmt.Errorf("aborted: %w", err)
	}
	return nil
}

func (c *cli) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective engine configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), c.cfg.String())
			return err
		},
	}
}
