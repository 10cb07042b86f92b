package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/sitemodel/internal/sqlite"
	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

func newAssocCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assoc",
		Short: "Manage associations between pages",
	}
	cmd.AddCommand(newAssocAddCmd(a), newAssocListCmd(a), newAssocDeleteCmd(a))
	return cmd
}

func newAssocAddCmd(a *app) *cobra.Command {
	var assocType string
	var order int
	cmd := &cobra.Command{
		Use:     "add <source> <dest>",
		Short:   "Associate two pages",
		Example: "  sitemodel assoc add home about --order 1",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				for _, id := range args {
					if _, err := m.GetPage(id); errors.Is(err, types.ErrNotFound) {
						a.logger.Warn("association endpoint does not exist", zap.String("page", id))
					} else if err != nil {
						return err
					}
				}
				assoc, err := m.Associate(args[0], args[1], assocType, order)
				if err != nil {
					return fmt.Errorf("associate %s -> %s: %w", args[0], args[1], err)
				}
				return a.emit(cmd, assoc, func(w io.Writer) {
					fmt.Fprintln(w, assoc.AssociationID)
				})
			})
		},
	}
	cmd.Flags().StringVar(&assocType, "type", types.ChildAssociationType, "association type")
	cmd.Flags().IntVar(&order, "order", 0, "position among siblings (lower first)")
	return cmd
}

func newAssocListCmd(a *app) *cobra.Command {
	var source, dest, assocType string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List associations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				assocs, err := m.FindPageAssociations(source, dest, assocType)
				if err != nil {
					return err
				}
				rows := make([][]any, 0, len(assocs))
				for _, as := range assocs {
					rows = append(rows, []any{as.AssociationID, as.AssociationType, as.SourceID, as.DestID, as.Order})
				}
				return a.emit(cmd, assocs, func(w io.Writer) {
					table(w, "ID\tTYPE\tSOURCE\tDEST\tORDER", rows)
				})
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "only associations from this page")
	cmd.Flags().StringVar(&dest, "dest", "", "only associations to this page")
	cmd.Flags().StringVar(&assocType, "type", "", "only associations of this type")
	return cmd
}

func newAssocDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an association",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				if err := m.DeleteAssociation(args[0]); err != nil {
					return fmt.Errorf("association %q: %w", args[0], err)
				}
				if !a.jsonMode {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted association %s\n", args[0])
				}
				return nil
			})
		},
	}
}
