package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "perceptronctl",
		Short: "Evaluate a single perceptron",
		Long: `perceptronctl loads a bias and weight vector from a one-line configuration
("bias, w1, ..., wN") and evaluates input vectors with a selectable activation
function: step, sign, tanh, sigmoid or relu.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.settingsPath, "settings", "", "settings file (default: perceptron.yaml if present)")
	flags.StringVarP(&a.configPath, "config", "c", "config.txt", "configuration file path")
	flags.StringVar(&a.fromStore, "from-store", "", "load the configuration from this stored record instead of --config")
	flags.StringVar(&a.storeKind, "store", "", "store backend: memory|sqlite")
	flags.StringVar(&a.dbPath, "db-path", "perceptron.db", "sqlite database path")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level")
	flags.StringVar(&a.logFormat, "log-format", "auto", "log format: auto|json|text")

	root.AddCommand(
		newInitCmd(a),
		newShowCmd(a),
		newActivationsCmd(a),
		newPredictCmd(a),
		newBatchCmd(a),
		newStoreCmd(a),
		newServeCmd(a),
		newVersionCmd(a),
	)
	return root
}
