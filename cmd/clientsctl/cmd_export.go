package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohit83k/bngclients/internal/export"
	"github.com/mohit83k/bngclients/internal/model"
)

func newExportCmd() *cobra.Command {
	var (
		client  string
		index   string
		gateway string
		format  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export live clients for a role",
		Long: `Export live clients straight from Redis, with the same filters and
column sets as GET /export.

  clientsctl export --client edge --index all
  clientsctl export --client admin --index NY,LA --format json -o ny_la.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := export.ParseRole(client)
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			var indexp, gatewayp *string
			if cmd.Flags().Changed("index") {
				indexp = &index
			}
			if cmd.Flags().Changed("bng-ip") {
				gatewayp = &gateway
			}

			store := openStore()
			defer store.Close()

			res, err := export.NewService(store).Export(cmd.Context(), export.Query{
				Role:   role,
				Format: f,
				Filter: export.BuildFilter(indexp, gatewayp),
			})
			if errors.Is(err, model.ErrNoContent) {
				fmt.Fprintln(os.Stderr, "no matching clients")
				return nil
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err = os.Stdout.Write(res.Body)
				return err
			}
			if err := os.WriteFile(output, res.Body, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %d clients to %s\n", res.Records, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&client, "client", "c", "", "role: admin or edge (required)")
	cmd.Flags().StringVar(&index, "index", "", "comma-separated routing indexes, or all")
	cmd.Flags().StringVar(&gateway, "bng-ip", "", "comma-separated gateway IPs, or all")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	_ = cmd.MarkFlagRequired("client")
	return cmd
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Prune expired entries from the client index once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := openStore()
			defer store.Close()

			n, err := store.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("removed %d expired index entries\n", n)
			return nil
		},
	}
}
