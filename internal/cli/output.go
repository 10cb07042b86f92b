// Shared helpers for sitemodel CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sitemodel/internal/sqlite"
	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

// withModel attaches a backend for the duration of fn and hands it a Model
// bound to the loaded configuration. Errors from fn are classified into
// exit codes.
func (a *app) withModel(fn func(m *sqlite.Model) error) (err error) {
	store := sqlite.NewBackend(sqlite.WithLogger(a.logger))
	if err := store.Attach(a.config); err != nil {
		return classify(fmt.Errorf("attach store: %w", err))
	}
	defer func() {
		if derr := store.Detach(); derr != nil && err == nil {
			err = sysError(fmt.Errorf("detach store: %w", derr))
		}
	}()
	return classify(fn(sqlite.NewModel(store, a.config)))
}

// getPage loads a page, naming it in the error.
func getPage(m *sqlite.Model, id string) (*types.Page, error) {
	p, err := m.GetPage(id)
	if err != nil {
		return nil, fmt.Errorf("page %q: %w", id, err)
	}
	return p, nil
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// emit writes v as JSON in --json mode, otherwise calls text.
func (a *app) emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	if a.jsonMode {
		return writeJSON(cmd.OutOrStdout(), v)
	}
	text(cmd.OutOrStdout())
	return nil
}

// table writes rows with aligned columns under header.
func table(w io.Writer, header string, rows [][]any) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		for i, col := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, col)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

const timeLayout = "2006-01-02 15:04:05"
