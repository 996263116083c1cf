package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/techtrack/internal/model"
	"github.com/idilsaglam/techtrack/internal/store"
	"github.com/idilsaglam/techtrack/internal/tui"
	"github.com/idilsaglam/techtrack/internal/ui"
	"github.com/idilsaglam/techtrack/internal/view"
	"github.com/idilsaglam/techtrack/internal/watch"
)

func runTUI(app *App) error {
	st, err := app.openStore()
	if err != nil {
		return err
	}
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getwd: %w", err)
	}
	return tui.Run(st, tui.Options{ExportDir: dir, Logger: app.log})
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive tracker (default when no command is given)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var (
		filter, search, where string
		group, asJSON         bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List technologies as cards",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := view.ParseFilter(filter)
			if err != nil {
				return usageError{msg: err.Error()}
			}
			pred, err := view.Where(where)
			if err != nil {
				return usageError{msg: err.Error()}
			}
			st, err := app.openStore()
			if err != nil {
				return err
			}

			all := st.Items()
			visible, err := pred.Filter(view.Apply(all, f, search))
			if err != nil {
				return err
			}
			stats := view.Compute(all)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"technologies": visible,
					"stats":        stats,
				})
			}

			t := ui.Current()
			lines := []string{
				ui.Header(stats),
				ui.C(t.Muted, ui.ProgressBar(stats.Progress, 28)),
				"",
			}
			if group {
				lines = append(lines, ui.GroupLines(visible)...)
			} else {
				lines = append(lines, ui.ListLines(visible)...)
			}
			if strings.TrimSpace(search) != "" || f != view.FilterAll || pred != nil {
				lines = append(lines, "", ui.C(t.Muted, fmt.Sprintf("Found %d of %d technologies", len(visible), len(all))))
			}
			lines = append(lines, "", ui.C(t.Muted, "Tip: advance a status with `techtrack cycle <id>`"))
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Status filter (all|not-started|in-progress|completed)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive search in title, description and notes")
	cmd.Flags().StringVar(&where, "where", "", `Expression filter, e.g. 'category == "frontend" && hasNotes'`)
	cmd.Flags().BoolVar(&group, "group", false, "Group output by status")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one technology with its notes rendered",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := app.openStore()
			if err != nil {
				return err
			}
			it, ok := st.Get(id)
			if !ok {
				return notFound(id)
			}
			t := ui.Current()
			lines := ui.CardLines(it)[:2]
			lines = append(lines, "    "+ui.C(t.Muted, "category: "+it.Category), "")
			if it.HasNotes() {
				lines = append(lines, strings.Split(ui.Markdown(it.Notes, 72), "\n")...)
			} else {
				lines = append(lines, ui.C(t.Muted, "No notes yet. Add some with `techtrack notes "+args[0]+" <text>`"))
			}
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
}

func newCycleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <id>",
		Short: "Advance a status: not-started -> in-progress -> completed -> not-started",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := app.openStore()
			if err != nil {
				return err
			}
			it, ok, err := st.CycleStatus(id)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(id)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%s is now %s", it.Title, strings.ToLower(it.Status.Label())))
			return nil
		},
	}
}

func newNotesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "notes <id> [text...]",
		Short: "Replace the notes of a technology (no text clears them)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			if n := utf8.RuneCountInString(text); n > model.NotesLimit {
				return usagef("notes: %d characters, the limit is %d", n, model.NotesLimit)
			}
			st, err := app.openStore()
			if err != nil {
				return err
			}
			ok, err := st.SetNotes(id, text)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(id)
			}
			if text == "" {
				ui.OK(cmd.OutOrStdout(), "notes cleared")
			} else {
				ui.OK(cmd.OutOrStdout(), "notes saved")
			}
			return nil
		},
	}
}

func newCompleteAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete-all",
		Short: "Mark every technology completed",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore()
			if err != nil {
				return err
			}
			if err := st.MarkAllCompleted(); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%d technologies completed", len(st.Items())))
			return nil
		},
	}
}

func newResetAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-all",
		Short: "Set every technology back to not started",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore()
			if err != nil {
				return err
			}
			if err := st.ResetAll(); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "all statuses reset")
			return nil
		},
	}
}

func newRandomCmd(app *App) *cobra.Command {
	var start bool
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Pick a random technology that has not been started",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore()
			if err != nil {
				return err
			}
			var (
				it model.TrackedItem
				ok bool
			)
			if start {
				it, ok, err = st.StartRandom()
				if err != nil {
					return err
				}
			} else {
				it, ok = st.PickRandomUnstarted()
			}
			if !ok {
				ui.Info(cmd.OutOrStdout(), "Every technology is already started or completed!")
				return nil
			}
			msg := fmt.Sprintf("Next technology to learn: %s (#%d)", it.Title, it.ID)
			if start {
				msg += ", now in progress"
			}
			ui.OK(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().BoolVar(&start, "start", false, "Also move the picked technology to in-progress")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress statistics",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore()
			if err != nil {
				return err
			}
			s := view.Compute(st.Items())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			ui.Panel(cmd.OutOrStdout(), ui.StatsLines(s))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var (
		out    string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all technologies to a dated JSON file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore()
			if err != nil {
				return err
			}
			snap := st.ExportSnapshot()
			if stdout {
				b, err := snap.Marshal()
				if err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			}
			path := out
			if path == "" {
				path = snap.FileName()
			}
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, snap.FileName())
			}
			if err := snap.WriteFile(path); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("exported %d technologies to %s", len(snap.Technologies), path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file or directory (default: tech-tracker-<date>.json)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write the export document to stdout")
	return cmd
}

func newClearCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase saved data and restore the default technologies",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure? All saved data will be deleted. [y/N] ") {
				ui.Info(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			st, err := app.openStore()
			if err != nil {
				return err
			}
			if err := st.Clear(); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "data cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-print statistics whenever saved data changes",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, path, err := app.openBackend()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			render := func() {
				items, err := store.Read(b, app.cfg.Storage.Key)
				switch {
				case errors.Is(err, store.ErrNotFound):
					ui.Info(out, "no saved data yet")
				case err != nil:
					ui.Fail(out, "read: "+err.Error())
				default:
					ui.Panel(out, ui.StatsLines(view.Compute(items)))
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			render()
			ui.Info(out, "watching "+path+" (ctrl+c to stop)")
			return watch.New(path, 0, app.log).Run(ctx, render)
		},
	}
}

func notFound(id int) error {
	return fmt.Errorf("no technology with id %d (run `techtrack ls` to see ids)", id)
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
