package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ba0f3/menurag/internal/retriever"
)

// SearchOutputRow is one row for search output (all formats).
type SearchOutputRow struct {
	Rank     int      `json:"rank"`
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Sizes    []string `json:"sizes,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
	Display  string   `json:"display"`
	Score    float64  `json:"score"`
}

func searchRows(matches []retriever.Match) []SearchOutputRow {
	rows := make([]SearchOutputRow, len(matches))
	for i, m := range matches {
		rows[i] = SearchOutputRow{
			Rank:     i + 1,
			ID:       m.ID,
			Name:     m.Item.Name,
			Sizes:    m.Item.Sizes,
			Calories: m.Item.Calories,
			Display:  m.Item.Display(),
			Score:    roundScore(m.Score),
		}
	}
	return rows
}

// WriteSearchOutput writes rows to w in the requested format.
func WriteSearchOutput(w io.Writer, rows []SearchOutputRow, format string) error {
	switch format {
	case "json":
		if rows == nil {
			rows = []SearchOutputRow{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "csv":
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"rank", "id", "name", "sizes", "calories", "score"})
		for _, r := range rows {
			cal := ""
			if r.Calories != nil {
				cal = strconv.FormatFloat(*r.Calories, 'f', -1, 64)
			}
			_ = cw.Write([]string{
				strconv.Itoa(r.Rank),
				strconv.Itoa(r.ID),
				r.Name,
				strings.Join(r.Sizes, "|"),
				cal,
				strconv.FormatFloat(r.Score, 'f', 4, 64),
			})
		}
		cw.Flush()
		return cw.Error()
	case "md":
		fmt.Fprintln(w, "| # | Item | Score |")
		fmt.Fprintln(w, "|---|------|-------|")
		for _, r := range rows {
			fmt.Fprintf(w, "| %d | %s | %.2f |\n", r.Rank, escapeMarkdown(r.Display), r.Score)
		}
		return nil
	case "cli", "":
		if len(rows) == 0 {
			fmt.Fprintln(w, "No matching menu items.")
			return nil
		}
		for _, r := range rows {
			fmt.Fprintf(w, "%d. %s\n", r.Rank, r.Display)
			fmt.Fprintf(w, "   Score: %.0f%%\n", r.Score*100)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want cli, json, csv or md)", format)
	}
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func roundScore(s float64) float64 {
	if s < 0 {
		return -float64(int(-s*100+0.5)) / 100
	}
	return float64(int(s*100+0.5)) / 100
}
