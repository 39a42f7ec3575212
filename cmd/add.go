package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wattanit/wcm/internal/cataloging"
)

func newAddCmd(a *app) *cobra.Command {
	var req cataloging.Request
	var yes bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Look up a book and add it to the library",
		Example: `  # Add a physical book by ISBN
  wcm add --isbn 9780441172719

  # Add an ebook by title and author
  wcm add --title "Dune Messiah" --author "Frank Herbert" --ebook`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return req.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.OutOrStdout(), yes)
			if err != nil {
				return err
			}

			res, err := svc.Add(cmd.Context(), req)
			if err != nil {
				return err
			}

			slog.Debug("add finished", "status", res.Status, "entry", res.EntryID)
			if res.Status == cataloging.StatusCreated && len(res.CoverPending) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Entry %d has no cover yet.\n", res.EntryID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.ISBN, "isbn", "", "ISBN-10 or ISBN-13 of the book")
	cmd.Flags().StringVar(&req.Title, "title", "", "Book title (use with --author)")
	cmd.Flags().StringVar(&req.Author, "author", "", "Book author (use with --title)")
	cmd.Flags().BoolVar(&req.Ebook, "ebook", false, "Catalog as an ebook instead of a physical copy")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Add without asking for confirmation")
	cmd.MarkFlagsMutuallyExclusive("isbn", "title")
	cmd.MarkFlagsMutuallyExclusive("isbn", "author")
	cmd.MarkFlagsRequiredTogether("title", "author")

	return cmd
}
