package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/sitemodel/internal/sqlite"
	"github.com/mesh-intelligence/sitemodel/pkg/codec"
	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

func newPageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Create, inspect and edit pages",
	}
	cmd.AddCommand(
		newPageCreateCmd(a),
		newPageShowCmd(a),
		newPageListCmd(a),
		newPageDeleteCmd(a),
		newPageSetTemplateCmd(a),
		newPageRemoveTemplateCmd(a),
		newPageTemplatesCmd(a),
		newPageSetTypeCmd(a),
		newPageSetAuthCmd(a),
		newPageChildrenCmd(a),
		newPageImportCmd(a),
		newPageExportCmd(a),
	)
	return cmd
}

func newPageCreateCmd(a *app) *cobra.Command {
	var pageType, title, description, auth string
	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create a page",
		Example: `  sitemodel page create home --title Home --type landing
  sitemodel page create account --auth user`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				id := args[0]
				if _, err := m.GetPage(id); err == nil {
					return fmt.Errorf("page %q: %w", id, types.ErrDuplicate)
				} else if !errors.Is(err, types.ErrNotFound) {
					return err
				}

				p := types.NewPage(id, a.config.FormatID())
				if pageType != "" {
					p.SetPageTypeID(pageType)
				}
				if title != "" {
					p.SetTitle(title)
				}
				if description != "" {
					p.SetDescription(description)
				}
				if auth != "" {
					if err := p.SetAuthentication(auth); err != nil {
						return err
					}
				}
				if _, err := m.SavePage(p); err != nil {
					return err
				}
				return a.emit(cmd, codec.RecordOf(p), func(w io.Writer) {
					fmt.Fprintf(w, "Created page %s\n", p.ID())
				})
			})
		},
	}
	cmd.Flags().StringVar(&pageType, "type", "", "page type id (default: generic)")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().StringVar(&description, "description", "", "page description")
	cmd.Flags().StringVar(&auth, "auth", "", "required authentication (none, guest, user)")
	return cmd
}

func newPageShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display a page with its bindings and properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				p, err := getPage(m, args[0])
				if err != nil {
					return err
				}
				if a.jsonMode {
					return writeJSON(cmd.OutOrStdout(), codec.RecordOf(p))
				}
				return printPage(cmd.OutOrStdout(), m, p)
			})
		},
	}
}

func printPage(w io.Writer, m *sqlite.Model, p *types.Page) error {
	auth, authErr := p.Authentication()
	authText := auth.String()
	if authErr != nil {
		authText = "invalid"
	}

	fmt.Fprintf(w, "ID:        %s\n", p.ID())
	fmt.Fprintf(w, "Title:     %s\n", p.Title())
	fmt.Fprintf(w, "Page type: %s\n", p.PageTypeID())
	fmt.Fprintf(w, "Auth:      %s\n", authText)
	fmt.Fprintf(w, "Created:   %s\n", p.Object().CreatedAt.Format(timeLayout))
	fmt.Fprintf(w, "Updated:   %s\n", p.UpdatedAt().Format(timeLayout))

	if bindings := p.TemplateBindings(); len(bindings) > 0 {
		fmt.Fprintln(w, "\nTemplates:")
		for _, b := range bindings {
			tmpl, err := m.GetTemplate(b.TemplateID)
			switch {
			case errors.Is(err, types.ErrNotFound):
				fmt.Fprintf(w, "  %s: %s (missing)\n", formatLabel(b.FormatID, m), b.TemplateID)
			case err != nil:
				return err
			default:
				fmt.Fprintf(w, "  %s: %s %s\n", formatLabel(b.FormatID, m), tmpl.TemplateID, tmpl.Title)
			}
		}
	}

	var extra []string
	for _, name := range p.Object().PropertyNames() {
		switch name {
		case types.PropTitle, types.PropPageTypeID, types.PropAuthentication:
			continue
		}
		extra = append(extra, name)
	}
	if len(extra) > 0 {
		fmt.Fprintln(w, "\nProperties:")
		for _, name := range extra {
			v, _ := p.Object().Property(name)
			fmt.Fprintf(w, "  %s: %s\n", name, v)
		}
	}
	return nil
}

// formatLabel names a binding's format, spelling out the default format.
func formatLabel(formatID string, rc types.RequestContext) string {
	if formatID == "" {
		return rc.Config().FormatID() + " (default)"
	}
	return formatID
}

func newPageListCmd(a *app) *cobra.Command {
	var pageType string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pages in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				pages, err := m.ListPages(pageType, limit, offset)
				if err != nil {
					return err
				}
				return a.emitPages(cmd, pages)
			})
		},
	}
	cmd.Flags().StringVar(&pageType, "type", "", "only pages of this page type")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (0 = no limit)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of results to skip")
	return cmd
}

func (a *app) emitPages(cmd *cobra.Command, pages []*types.Page) error {
	recs := make([]codec.Record, 0, len(pages))
	rows := make([][]any, 0, len(pages))
	for _, p := range pages {
		recs = append(recs, codec.RecordOf(p))
		rows = append(rows, []any{p.ID(), p.PageTypeID(), p.Title()})
	}
	return a.emit(cmd, recs, func(w io.Writer) {
		table(w, "ID\tTYPE\tTITLE", rows)
	})
}

func newPageDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a page and its associations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				if err := m.DeletePage(args[0]); err != nil {
					return fmt.Errorf("page %q: %w", args[0], err)
				}
				if !a.jsonMode {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted page %s\n", args[0])
				}
				return nil
			})
		},
	}
}

// editPage loads a page, applies edit, saves it and prints the result.
func (a *app) editPage(cmd *cobra.Command, id string, edit func(m *sqlite.Model, p *types.Page) (string, error)) error {
	return a.withModel(func(m *sqlite.Model) error {
		p, err := getPage(m, id)
		if err != nil {
			return err
		}
		msg, err := edit(m, p)
		if err != nil {
			return err
		}
		if _, err := m.SavePage(p); err != nil {
			return err
		}
		return a.emit(cmd, codec.RecordOf(p), func(w io.Writer) {
			fmt.Fprintln(w, msg)
		})
	})
}

func newPageSetTemplateCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "set-template <page> <template>",
		Short: "Bind a template instance to a page for an output format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editPage(cmd, args[0], func(m *sqlite.Model, p *types.Page) (string, error) {
				tmpl, err := m.GetTemplate(args[1])
				if err != nil && !errors.Is(err, types.ErrNotFound) {
					return "", err
				}
				if tmpl == nil {
					a.logger.Warn("binding unknown template",
						zap.String("page", p.ID()), zap.String("template", args[1]))
				}
				p.SetTemplateID(args[1], format)
				return fmt.Sprintf("Page %s uses template %s for %s", p.ID(), args[1],
					formatLabel(bindingFormat(p, format), m)), nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format id (default: configured default format)")
	return cmd
}

// bindingFormat returns the stored format id for format on p.
func bindingFormat(p *types.Page, format string) string {
	if format == p.DefaultFormatID() {
		return ""
	}
	return format
}

func newPageRemoveTemplateCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "remove-template <page>",
		Short: "Remove the template binding for an output format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editPage(cmd, args[0], func(m *sqlite.Model, p *types.Page) (string, error) {
				if _, ok := p.TemplateID(format); !ok {
					return "", fmt.Errorf("page %s has no template for %s: %w",
						p.ID(), formatLabel(bindingFormat(p, format), m), types.ErrNotFound)
				}
				p.RemoveTemplateID(format)
				return fmt.Sprintf("Removed %s template from page %s",
					formatLabel(bindingFormat(p, format), m), p.ID()), nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format id (default: configured default format)")
	return cmd
}

func newPageTemplatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "templates <page>",
		Short: "Resolve the templates of a page, keyed by output format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				p, err := getPage(m, args[0])
				if err != nil {
					return err
				}
				templates, err := p.Templates(m)
				if err != nil {
					return err
				}
				formats := make([]string, 0, len(templates))
				for f := range templates {
					formats = append(formats, f)
				}
				sort.Strings(formats)
				rows := make([][]any, 0, len(formats))
				for _, f := range formats {
					t := templates[f]
					rows = append(rows, []any{f, t.TemplateID, t.TemplateType, t.Title})
				}
				return a.emit(cmd, templates, func(w io.Writer) {
					table(w, "FORMAT\tTEMPLATE\tTYPE\tTITLE", rows)
				})
			})
		},
	}
}

func newPageSetTypeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-type <page> <page-type>",
		Short: "Set the page type of a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editPage(cmd, args[0], func(m *sqlite.Model, p *types.Page) (string, error) {
				p.SetPageTypeID(args[1])
				pt, err := p.PageType(m)
				if err != nil {
					return "", err
				}
				if pt == nil {
					a.logger.Warn("page type not defined",
						zap.String("page", p.ID()), zap.String("page_type", args[1]))
				}
				return fmt.Sprintf("Page %s has type %s", p.ID(), args[1]), nil
			})
		},
	}
}

func newPageSetAuthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-auth <page> <none|guest|user>",
		Short: "Set the authentication a page requires",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editPage(cmd, args[0], func(m *sqlite.Model, p *types.Page) (string, error) {
				if err := p.SetAuthentication(args[1]); err != nil {
					return "", err
				}
				auth, err := p.Authentication()
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Page %s requires %s authentication", p.ID(), auth), nil
			})
		},
	}
}

func newPageChildrenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "children <page>",
		Short: "List the child pages of a page in sibling order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(func(m *sqlite.Model) error {
				p, err := getPage(m, args[0])
				if err != nil {
					return err
				}
				children, err := p.ChildPages(m)
				if err != nil {
					return err
				}
				return a.emitPages(cmd, children)
			})
		},
	}
}

func newPageImportCmd(a *app) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a page from an XML page document (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return userError(err)
			}
			return a.withModel(func(m *sqlite.Model) error {
				p, err := codec.XML{}.DecodePage(id, data, a.config.FormatID())
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				if _, err := p.Authentication(); err != nil {
					return err
				}
				if _, err := m.SavePage(p); err != nil {
					return err
				}
				return a.emit(cmd, codec.RecordOf(p), func(w io.Writer) {
					fmt.Fprintf(w, "Imported page %s\n", p.ID())
				})
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "page id (default: the document's <id> element)")
	return cmd
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

// pageCodecs are the encodings page export supports.
var pageCodecs = map[string]types.PageCodec{
	"xml":  codec.XML{},
	"json": codec.JSON{},
}

func newPageExportCmd(a *app) *cobra.Command {
	var out, encoding string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a page as an XML or JSON page document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := pageCodecs[encoding]
			if !ok {
				return userError(fmt.Errorf("unknown encoding %q (want xml or json)", encoding))
			}
			return a.withModel(func(m *sqlite.Model) error {
				p, err := getPage(m, args[0])
				if err != nil {
					return err
				}
				data, err := c.EncodePage(p)
				if err != nil {
					return err
				}
				if out == "" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return userError(fmt.Errorf("write %s: %w", out, err))
				}
				a.logger.Info("exported page", zap.String("page", p.ID()), zap.String("file", out))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&encoding, "encoding", "xml", "document encoding (xml, json)")
	return cmd
}
