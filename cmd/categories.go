package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wattanit/wcm/internal/cataloging"
	"github.com/wattanit/wcm/internal/httpx"
)

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Check the Baserow connection and list the category vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.datastore(httpx.NewClient())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := store.TestConnection(ctx); err != nil {
				return fmt.Errorf("failed to connect to Baserow: %w", err)
			}

			categories, err := store.FetchCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No categories found in the categories table.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cataloging.CategoryList(categories))
			return nil
		},
	}
}
