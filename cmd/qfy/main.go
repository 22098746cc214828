// Package main provides the qfy command-line tool: stratified accuracy
// statistics and ranking curves for benchmarking variant callers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tparidae/hap.py/internal/logging"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagVerbose bool
	flagQuiet   bool
	flagLogfile string
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		// The logger may not be installed yet when flag parsing fails.
		zap.L().Error("run failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qfy",
		Short:         "Quantify annotated variant comparison VCFs",
		Long:          "qfy turns an annotated truth/query variant comparison into stratified accuracy statistics and ranking curves.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig()
			_, err := logging.Init(verbosity(), flagLogfile)
			return err
		},
	}

	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Raise logging level from warning to info")
	root.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "Set logging level to output errors only")
	root.PersistentFlags().StringVar(&flagLogfile, "logfile", "", "Write logging information into file rather than to stderr")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(newQuantifyCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qfy version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// initConfig loads persisted defaults from ~/.qfy.yaml when present.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(".qfy")
	viper.SetConfigType("yaml")
	_ = viper.ReadInConfig()
}

func verbosity() logging.Verbosity {
	switch {
	case flagVerbose:
		return logging.Verbose
	case flagQuiet:
		return logging.Quiet
	}
	return logging.Default
}
