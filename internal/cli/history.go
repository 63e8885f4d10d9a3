package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/trivision/internal/common"
	"github.com/dmitrijs2005/trivision/internal/filex"
	"github.com/dmitrijs2005/trivision/internal/models"
)

const timeLayout = "2006-01-02 15:04"

var (
	colIndex = lipgloss.NewStyle().Width(4)
	colWhen  = lipgloss.NewStyle().Width(18)
	colClass = lipgloss.NewStyle().Width(20)
	colConf  = lipgloss.NewStyle().Width(6)
)

func historyRow(idx, when, class, conf, label string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		colIndex.Render(idx),
		colWhen.Render(when),
		colClass.Render(class),
		colConf.Render(conf),
		label,
	)
}

// History lists saved results, newest first.
func (a *App) History(ctx context.Context) error {
	entries := a.history.GetAll(ctx)
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No history yet.")
		return nil
	}

	fmt.Fprintf(a.out, "ANALYSIS LOG (%d/%d)\n", len(entries), a.history.Capacity())
	fmt.Fprintln(a.out, mutedStyle.Render(historyRow("#", "WHEN", "CATEGORY", "CONF", "LABEL")))
	for i, e := range entries {
		fmt.Fprintln(a.out, historyRow(
			strconv.Itoa(i+1),
			e.CreatedAt.Local().Format(timeLayout),
			classificationCell(e.Verdict.Classification),
			fmt.Sprintf("%d%%", percent(e.Verdict.Confidence)),
			e.Verdict.Label,
		))
	}
	return nil
}

// lookup resolves ref as a 1-based position in the list, then as an id.
func (a *App) lookup(ctx context.Context, ref string) (models.HistoryEntry, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		entries := a.history.GetAll(ctx)
		if n >= 1 && n <= len(entries) {
			return entries[n-1], nil
		}
	}
	return a.history.Get(ctx, ref)
}

func (a *App) notFound(ref string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		fmt.Fprintf(a.out, "No history entry %q.\n", ref)
	} else {
		fmt.Fprintf(a.out, "ERROR: %v\n", err)
	}
	return err
}

// Show prints the result card of one history entry.
func (a *App) Show(ctx context.Context, ref string) error {
	e, err := a.lookup(ctx, ref)
	if err != nil {
		return a.notFound(ref, err)
	}

	fmt.Fprintln(a.out, RenderCard(e.Verdict))
	fmt.Fprintf(a.out, "ID: %s\nCaptured: %s\nImage: %d bytes\n",
		e.ID, e.CreatedAt.Local().Format(timeLayout), len(e.Image))
	return nil
}

// Export writes the JPEG of one history entry to dir/<id>.jpg.
func (a *App) Export(ctx context.Context, ref, dir string) error {
	e, err := a.lookup(ctx, ref)
	if err != nil {
		return a.notFound(ref, err)
	}
	if len(e.Image) == 0 {
		fmt.Fprintln(a.out, "Entry has no image.")
		return nil
	}

	path, err := filex.WriteFile(dir, e.ID+".jpg", e.Image)
	if err != nil {
		a.logger.Error(ctx, "export failed", "id", e.ID, "error", err)
		fmt.Fprintf(a.out, "ERROR: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Exported to", path)
	return nil
}

// Clear wipes the history after confirmation.
func (a *App) Clear(ctx context.Context) error {
	if len(a.history.GetAll(ctx)) == 0 {
		fmt.Fprintln(a.out, "No history yet.")
		return nil
	}
	if !Confirm(a.reader, "Are you sure you want to clear all logs?", a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	a.history.Clear(ctx)
	fmt.Fprintln(a.out, "History cleared.")
	return nil
}
