package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"perceptron/internal/batch"
	"perceptron/internal/configio"
	"perceptron/internal/nn"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a sample AND-gate configuration if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.settings.ConfigPath
			created, err := configio.EnsureSampleConfiguration(path)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(a.stdout, "Sample '%s' file created with AND gate configuration.\n", path)
				return nil
			}
			fmt.Fprintf(a.stdout, "'%s' already exists; left unchanged.\n", path)
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Load the configuration and print bias and weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			p := snap.Perceptron
			fmt.Fprintf(a.stdout, "Source: %s\n", snap.Source)
			fmt.Fprintf(a.stdout, "Bias (b): %s\n", strconv.FormatFloat(p.Bias(), 'g', -1, 64))
			fmt.Fprintf(a.stdout, "Weights (w): %s\n", batch.FormatVector(p.Weights()))
			fmt.Fprintf(a.stdout, "Expected inputs: %d\n", p.InputCount())
			for _, w := range p.Warnings() {
				fmt.Fprintf(a.stdout, "Warning: %s\n", w)
			}
			return nil
		},
	}
}

func newActivationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activations",
		Short: "List the available activation functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range nn.ListActivations() {
				id, err := nn.ParseActivation(name)
				if err != nil {
					return err
				}
				spec, err := nn.GetActivation(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%-8s %-18s %-10s %s\n", spec.Name, spec.Label, spec.Kind, spec.Range)
			}
			return nil
		},
	}
}
