package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sitemodel/internal/sqlite"
	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

func newTemplateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage template instances",
	}

	var title, templateType, description string
	add := &cobra.Command{
		Use:   "add <id>",
		Short: "Create or update a template instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				t := &types.TemplateInstance{
					TemplateID:   args[0],
					Title:        title,
					TemplateType: templateType,
					Description:  description,
				}
				if _, err := m.SaveTemplate(t); err != nil {
					return err
				}
				return a.emit(cmd, t, func(w io.Writer) {
					fmt.Fprintf(w, "Saved template %s\n", t.TemplateID)
				})
			})
		},
	}
	add.Flags().StringVar(&title, "title", "", "template title")
	add.Flags().StringVar(&templateType, "type", "", "template type")
	add.Flags().StringVar(&description, "description", "", "template description")

	list := &cobra.Command{
		Use:   "list",
		Short: "List template instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				ts, err := m.ListTemplates()
				if err != nil {
					return err
				}
				rows := make([][]any, 0, len(ts))
				for _, t := range ts {
					rows = append(rows, []any{t.TemplateID, t.TemplateType, t.Title})
				}
				return a.emit(cmd, ts, func(w io.Writer) {
					table(w, "ID\tTYPE\tTITLE", rows)
				})
			})
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newPageTypeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagetype",
		Short: "Manage page types",
	}

	var title, description string
	add := &cobra.Command{
		Use:   "add <id>",
		Short: "Create or update a page type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				pt := &types.PageType{PageTypeID: args[0], Title: title, Description: description}
				if _, err := m.SavePageType(pt); err != nil {
					return err
				}
				return a.emit(cmd, pt, func(w io.Writer) {
					fmt.Fprintf(w, "Saved page type %s\n", pt.PageTypeID)
				})
			})
		},
	}
	add.Flags().StringVar(&title, "title", "", "page type title")
	add.Flags().StringVar(&description, "description", "", "page type description")

	list := &cobra.Command{
		Use:   "list",
		Short: "List page types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				pts, err := m.ListPageTypes()
				if err != nil {
					return err
				}
				rows := make([][]any, 0, len(pts))
				for _, pt := range pts {
					rows = append(rows, []any{pt.PageTypeID, pt.Title})
				}
				return a.emit(cmd, pts, func(w io.Writer) {
					table(w, "ID\tTITLE", rows)
				})
			})
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
