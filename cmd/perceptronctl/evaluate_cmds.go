package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"perceptron/internal/batch"
	"perceptron/internal/nn"
)

var errInputsSkipped = errors.New("some inputs were skipped")

// activationFor returns the activation named by the flag, or the settings
// default when the flag was not given.
func (a *app) activationFor(cmd *cobra.Command, flagValue string) (nn.Activation, error) {
	name := a.settings.Activation
	if cmd.Flags().Changed("activation") {
		name = flagValue
	}
	return nn.ParseActivation(name)
}

func newPredictCmd(a *app) *cobra.Command {
	var (
		inputs     string
		activation string
	)
	cmd := &cobra.Command{
		Use:   "predict [inputs]",
		Short: "Evaluate one comma-separated input vector",
		Example: `  perceptronctl predict 1,1
  perceptronctl predict --inputs "0.5, -2" --activation sigmoid`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := a.activationFor(cmd, activation)
			if err != nil {
				return err
			}
			text := inputs
			if len(args) == 1 {
				text = args[0]
			}

			snap, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := batch.NewEvaluator(snap.Perceptron, a.logger).EvaluateInput(text, act)
			if err != nil {
				return err
			}
			if err := batch.WriteReport(a.stdout, rep); err != nil {
				return err
			}
			if rep.Failed() > 0 {
				return fmt.Errorf("%w: %v", errInputsSkipped, rep.Results[0].Err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputs, "inputs", "i", "", "comma-separated input values")
	cmd.Flags().StringVarP(&activation, "activation", "a", "step", "activation function: "+strings.Join(nn.ListActivations(), "|"))
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		file       string
		activation string
		strict     bool
	)
	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Evaluate every line of an input file",
		Long: `Evaluate every line of an input file as one comma-separated input vector.
Blank lines are skipped. A line that cannot be parsed or evaluated is reported
and skipped; the remaining lines are still evaluated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := a.activationFor(cmd, activation)
			if err != nil {
				return err
			}
			path := file
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no input file selected; pass a path or --file")
			}

			snap, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := batch.NewEvaluator(snap.Perceptron, a.logger).EvaluateFile(cmd.Context(), path, act)
			if rep.Source == "" {
				return err
			}
			// A read failure still reports the lines evaluated before it.
			if werr := batch.WriteReport(a.stdout, rep); werr != nil && err == nil {
				err = werr
			}
			if err != nil {
				return err
			}
			if strict && rep.Failed() > 0 {
				return fmt.Errorf("%w: %d of %d lines", errInputsSkipped, rep.Failed(), len(rep.Results))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "input file, one vector per line")
	cmd.Flags().StringVarP(&activation, "activation", "a", "step", "activation function: "+strings.Join(nn.ListActivations(), "|"))
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any line was skipped")
	return cmd
}
