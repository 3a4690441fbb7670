package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/flashgrid/internal/grid"
	"github.com/rshade/flashgrid/internal/ingest"
	"github.com/rshade/flashgrid/internal/logging"
	"github.com/rshade/flashgrid/internal/tui"
)

type viewFlags struct {
	gridFlags
	watch    time.Duration
	scrollTo int
}

func newViewCmd(s *session) *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse rows interactively and flash cells as the data changes",
		Example: `  flashgrid view --data services.json
  flashgrid view --data services.ndjson --watch 500ms --scroll-to 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, s, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.data, "data", nil, "data file (.json, .ndjson, .yaml, .msgpack); repeatable")
	cmd.Flags().StringSliceVar(&flags.columns, "columns", nil, "comma-separated fields to show, in order")
	cmd.Flags().DurationVar(&flags.watch, "watch", 0,
		"reload the data files when they change, re-checking at this interval as a fallback (0 disables)")
	cmd.Flags().IntVar(&flags.scrollTo, "scroll-to", -1, "scroll to this row index once the rows are loaded")
	return cmd
}

func runView(cmd *cobra.Command, s *session, flags viewFlags) error {
	if len(flags.data) == 0 {
		return errNoData
	}
	if flags.watch < 0 {
		return fmt.Errorf("--watch must be >= 0, got %s", flags.watch)
	}

	if tui.DetectOutputMode(false, false, true) != tui.OutputModeInteractive {
		logging.FromContext(cmd.Context()).Warn().Msg("no interactive terminal, rendering once")
		return runRender(cmd, s, renderFlags{gridFlags: flags.gridFlags})
	}

	ctx := cmd.Context()
	cfg := s.config()
	if cfg.Logging.File == "" {
		// Log lines on stderr would tear the alternate screen.
		ctx = logging.WithContext(ctx, logging.Nop())
	}

	stamp, err := ingest.StampFiles(flags.data)
	if err != nil {
		return err
	}
	rows, err := ingest.LoadFiles(ctx, flags.data)
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	src := viewSource{
		paths:    flags.data,
		interval: flags.watch,
		stamp:    stamp,
		initial:  rows,
	}
	if flags.watch > 0 {
		w, err := ingest.NewWatcher(flags.data)
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("file events unavailable, polling only")
		} else {
			src.watcher = w
		}
	}

	theme := tui.ThemeFor(tui.OutputModeInteractive)
	theme.Container = cfg.Container()

	var api *grid.API
	ctrl := newController(ctx, cfg, columnDefs(cfg, flags.columns, rows), grid.Options{
		OnReady: func(e grid.ReadyEvent) { api = e.API },
	})
	m := newViewModel(ctx, tui.NewGridModel(ctrl, tui.ModelOptions{
		Theme:      theme,
		Timing:     cfg.Timing(),
		Height:     cfg.Grid.Height,
		Standalone: true,
	}), src, api, flags.scrollTo)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if vm, ok := final.(viewModel); ok {
		m = vm
	}
	m.Close()
	if err != nil {
		return fmt.Errorf("failed to run interactive grid: %w", err)
	}
	return nil
}

// viewSource describes where the view model gets its rows. A nil watcher
// leaves the interval tick as the only reload trigger.
type viewSource struct {
	paths    []string
	interval time.Duration
	stamp    ingest.Stamp
	initial  []grid.Row
	watcher  *ingest.Watcher
}

type watchTickMsg struct{}

// fileChangedMsg is sent when the watcher saw a change, or failed.
type fileChangedMsg struct {
	err error
}

type reloadMsg struct {
	rows    []grid.Row
	stamp   ingest.Stamp
	changed bool
	err     error
	// fromTick marks reloads started by the interval tick, which re-arm it.
	fromTick bool
}

// viewModel wraps the grid with the initial load, the watch loop and the
// pending --scroll-to request.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type viewModel struct {
	ctx  context.Context
	grid tui.GridModel
	src  viewSource
	api  *grid.API

	scrollTo int
	sized    bool
	loaded   bool
	err      error
}

func newViewModel(ctx context.Context, gm tui.GridModel, src viewSource, api *grid.API, scrollTo int) viewModel {
	return viewModel{
		ctx:      ctx,
		grid:     gm,
		src:      src,
		api:      api,
		scrollTo: scrollTo,
	}
}

// Init implements tea.Model.
func (m viewModel) Init() tea.Cmd {
	rows := m.src.initial
	load := func() tea.Msg { return tui.RowsMsg{Rows: rows} }
	if m.src.interval <= 0 {
		return load
	}
	return tea.Batch(load, m.tick(), m.waitForChange())
}

// Update implements tea.Model.
func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchTickMsg:
		return m, m.reload(true)

	case fileChangedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, ingest.ErrWatcherClosed) || errors.Is(msg.err, context.Canceled) {
				return m, nil
			}
			logging.FromContext(m.ctx).Warn().Err(msg.err).Msg("file watcher error")
			return m, m.waitForChange()
		}
		return m, tea.Batch(m.reload(false), m.waitForChange())

	case reloadMsg:
		var next tea.Cmd
		if msg.fromTick {
			next = m.tick()
		}
		if msg.err != nil {
			m.err = msg.err
			logging.FromContext(m.ctx).Warn().Err(msg.err).Msg("reloading data failed")
			return m, next
		}
		m.err = nil
		if !msg.changed {
			return m, next
		}
		m.src.stamp = msg.stamp
		var cmd tea.Cmd
		m, cmd = m.forward(tui.RowsMsg{Rows: msg.rows})
		return m, tea.Batch(cmd, next)

	case tea.WindowSizeMsg:
		m.sized = true

	case tui.RowsMsg:
		m.loaded = true
	}

	return m.forward(msg)
}

func (m viewModel) forward(msg tea.Msg) (viewModel, tea.Cmd) {
	if m.scrollTo >= 0 && m.sized && m.loaded && m.api != nil {
		m.api.ScrollToIndex(m.scrollTo)
		m.scrollTo = -1
	}
	next, cmd := m.grid.Update(msg)
	if gm, ok := next.(tui.GridModel); ok {
		m.grid = gm
	}
	return m, cmd
}

// View implements tea.Model.
func (m viewModel) View() string {
	v := m.grid.View()
	if m.err != nil && v != "" {
		v += "\n" + fmt.Sprintf("reload failed: %v", m.err)
	}
	return v
}

// Close stops the grid's pulses, clears its listeners and stops the file
// watcher.
func (m viewModel) Close() {
	m.grid.Close()
	if m.src.watcher != nil {
		if err := m.src.watcher.Close(); err != nil {
			logging.FromContext(m.ctx).Debug().Err(err).Msg("closing file watcher")
		}
	}
}

func (m viewModel) tick() tea.Cmd {
	if m.src.interval <= 0 {
		return nil
	}
	return tea.Tick(m.src.interval, func(time.Time) tea.Msg { return watchTickMsg{} })
}

// waitForChange blocks on the file watcher until a data file changes.
func (m viewModel) waitForChange() tea.Cmd {
	w := m.src.watcher
	if w == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return fileChangedMsg{err: w.Wait(ctx)}
	}
}

// reload re-reads the data files when their stamp moved.
func (m viewModel) reload(fromTick bool) tea.Cmd {
	ctx := m.ctx
	paths := m.src.paths
	prev := m.src.stamp
	return func() tea.Msg {
		stamp, err := ingest.StampFiles(paths)
		if err != nil {
			return reloadMsg{err: err, fromTick: fromTick}
		}
		if stamp == prev {
			return reloadMsg{stamp: stamp, fromTick: fromTick}
		}
		rows, err := ingest.LoadFiles(ctx, paths)
		if err != nil {
			return reloadMsg{err: err, fromTick: fromTick}
		}
		return reloadMsg{rows: rows, stamp: stamp, changed: true, fromTick: fromTick}
	}
}
