package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/flashgrid/internal/grid"
	"github.com/rshade/flashgrid/internal/ingest"
	"github.com/rshade/flashgrid/internal/logging"
	"github.com/rshade/flashgrid/internal/tui"
)

type renderFlags struct {
	gridFlags
	plain   bool
	noColor bool
}

func newRenderCmd(s *session) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the rows of one or more data files as a table",
		Example: `  flashgrid render --data services.json
  flashgrid render --data a.yaml --data b.yaml --columns name,cpu --plain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, s, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.data, "data", nil, "data file (.json, .ndjson, .yaml, .msgpack); repeatable")
	cmd.Flags().StringSliceVar(&flags.columns, "columns", nil, "comma-separated fields to show, in order")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "disable styling")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colors")
	return cmd
}

func runRender(cmd *cobra.Command, s *session, flags renderFlags) error {
	if len(flags.data) == 0 {
		return errNoData
	}
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	rows, err := ingest.LoadFiles(ctx, flags.data)
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	cfg := s.config()
	ctrl := newController(ctx, cfg, columnDefs(cfg, flags.columns, rows), grid.Options{DisableFlash: true})
	defer ctrl.Close()
	ctrl.SetRows(rows)

	mode := tui.DetectOutputMode(flags.plain, flags.noColor, false)
	log.Debug().
		Str("output_mode", mode.String()).
		Int("row_count", len(rows)).
		Int("column_count", len(ctrl.Columns())).
		Msg("rendering table")

	theme := tui.ThemeFor(mode)
	theme.Container = cfg.Container()
	out := tui.RenderStatic(ctrl, theme)
	if out == "" {
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
