package cmd

import (
	"fmt"
	"os"

	"github.com/Mubashir-4041/event-compliance-monitor/config"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/cli/output"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "eventsctl",
	Short: "Event license monitor CLI",
	Long: `eventsctl imports upcoming events from PredictHQ and shows their
license status from the terminal, using the same normalization and
filters as the dashboard.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		output.Error("%v", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
	rootCmd.PersistentFlags().String("token", "", "PredictHQ API token (default: PREDICTHQ_API_TOKEN)")
	rootCmd.PersistentFlags().String("base-url", "", "PredictHQ base URL")
	rootCmd.PersistentFlags().Bool("verbose", false, "log gateway requests")
}

func initConfig() {
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)

	v, err := config.LoadConfig()
	if err == nil {
		cfg, err = config.ParseConfig(v)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = &config.Config{}
	}
}
