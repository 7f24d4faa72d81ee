// Package charts renders spending breakdowns as images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/wcharczuk/go-chart/v2"

	"expensetracker/internal/core"
)

// ErrNoExpenses is returned when there is nothing positive to draw.
var ErrNoExpenses = errors.New("no expenses recorded")

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// RenderExpenseBreakdown writes a PNG pie chart of totals to w. Categories
// whose sum is zero or negative cannot be drawn as a slice and are left out.
func RenderExpenseBreakdown(w io.Writer, title string, totals []core.CategoryTotal) error {
	total := 0.0
	for _, ct := range totals {
		if v := ct.Amount.InexactFloat64(); v > 0 {
			total += v
		}
	}
	if total == 0 {
		return ErrNoExpenses
	}

	values := make([]chart.Value, 0, len(totals))
	for _, ct := range totals {
		v := ct.Amount.InexactFloat64()
		if v <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: $%s (%.1f%%)", ct.Name, core.FormatAmount(ct.Amount), v/total*100),
			Value: v,
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render expense chart: %w", err)
	}
	return nil
}

// WriteExpenseChart renders the breakdown to
// dir/expenses-<userID>-<username>.png and returns the file path. The id
// keeps names apart once unsafe characters are replaced.
func WriteExpenseChart(dir string, userID int64, username string, totals []core.CategoryTotal) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create chart directory: %w", err)
	}

	name := unsafeFileChars.ReplaceAllString(username, "_")
	if name == "" {
		name = "user"
	}
	path := filepath.Join(dir, fmt.Sprintf("expenses-%d-%s.png", userID, name))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}

	if err := RenderExpenseBreakdown(f, "Expenses by category: "+username, totals); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close chart file: %w", err)
	}
	return path, nil
}
