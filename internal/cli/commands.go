package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alimikegami/point-of-sales/product-catalog-service/config"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/migration"
	"github.com/spf13/cobra"
)

func newUpCommand(cfg *config.Config, connect Connector) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, cfg, connect, func(ctx context.Context, store *Store) error {
				applied, err := migration.NewCatalogRunner(store.Migrations, store.Products).Up(ctx)
				if err != nil {
					return err
				}

				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No pending migrations")
					return nil
				}

				for _, name := range applied {
					fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
				}

				return nil
			})
		},
	}
}

func newStatusCommand(cfg *config.Config, connect Connector) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, cfg, connect, func(ctx context.Context, store *Store) error {
				statuses, err := migration.NewCatalogRunner(store.Migrations, store.Products).Status(ctx)
				if err != nil {
					return err
				}

				for _, s := range statuses {
					line := fmt.Sprintf("%-8s %s", s.State, s.Name)
					if s.AppliedAt != nil {
						line += " (" + s.AppliedAt.Format(time.RFC3339) + ")"
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}

				return nil
			})
		},
	}
}

func newProductsCommand(cfg *config.Config, connect Connector) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List stored products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, cfg, connect, func(ctx context.Context, store *Store) error {
				products, err := store.Products.GetProducts(ctx)
				if err != nil {
					return err
				}

				if len(products) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No products found")
					return nil
				}

				for _, p := range products {
					image := "-"
					if name := p.ImageName(); name != "" {
						image = name
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %.2f  %s\n", p.ID.Hex(), p.Name, p.Price, image)
				}

				return nil
			})
		},
	}
}
