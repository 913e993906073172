package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"perceptron/internal/batch"
	"perceptron/internal/configio"
	"perceptron/internal/storage"
)

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage named configuration records",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			if a.settings.Store.Kind == "" || a.settings.Store.Kind == "memory" {
				a.logger.Warn("memory store does not persist between runs; use --store sqlite")
			}
			return nil
		},
	}
	cmd.AddCommand(newStorePutCmd(a), newStoreGetCmd(a), newStoreListCmd(a), newStoreDeleteCmd(a))
	return cmd
}

func newStorePutCmd(a *app) *cobra.Command {
	var line string
	cmd := &cobra.Command{
		Use:   "put NAME",
		Short: "Store a configuration under NAME",
		Long: `Store a configuration under NAME. The values come from --line when given,
otherwise from the configuration file (--config).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			var (
				bias    float64
				weights []float64
				err     error
			)
			if cmd.Flags().Changed("line") {
				bias, weights, err = configio.ParseConfiguration("--line", line)
			} else {
				bias, weights, err = configio.ReadConfiguration(ctx, configio.FileSource(a.settings.ConfigPath))
			}
			if err != nil {
				return err
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = storage.CloseIfSupported(store)
			}()
			if err := store.SaveConfiguration(ctx, storage.NewRecord(name, bias, weights)); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "stored %s: %s\n", name, configio.FormatConfiguration(bias, weights))
			return nil
		},
	}
	cmd.Flags().StringVar(&line, "line", "", `configuration line "bias, w1, ..., wN"`)
	return cmd
}

func newStoreGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Print a stored configuration line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = storage.CloseIfSupported(store)
			}()
			record, ok, err := store.GetConfiguration(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: configuration record %q", configio.ErrNotFound, args[0])
			}
			fmt.Fprintln(a.stdout, configio.FormatConfiguration(record.Bias, record.Weights))
			return nil
		},
	}
}

func newStoreListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = storage.CloseIfSupported(store)
			}()
			records, err := store.ListConfigurations(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(a.stdout, "no stored configurations")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(a.stdout, "%-16s bias=%g weights=%s inputs=%d updated %s\n",
					r.Name, r.Bias, batch.FormatVector(r.Weights), r.InputCount(), humanize.RelTime(r.UpdatedAt, time.Now(), "ago", "from now"))
			}
			return nil
		},
	}
}

func newStoreDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a stored configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = storage.CloseIfSupported(store)
			}()
			_, ok, err := store.GetConfiguration(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: configuration record %q", configio.ErrNotFound, args[0])
			}
			if err := store.DeleteConfiguration(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "deleted %s\n", args[0])
			return nil
		},
	}
}
