package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"ytplaylist/internal/domain/entity"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func (a *app) printPlaylist(p *entity.Playlist) error {
	if a.output == "json" {
		return writeJSON(a.stdout, p)
	}
	return writeText(a.stdout, p)
}

// writeText prints a playlist in human-readable format.
func writeText(w io.Writer, p *entity.Playlist) error {
	if p.Title != "" {
		fmt.Fprintf(w, "%s\n", p.Title)
		if p.Author != nil {
			fmt.Fprintf(w, "by %s\n", p.Author.Name)
		}
		fmt.Fprintf(w, "%s\n", p.URL)
		fmt.Fprintf(w, "Estimated items: %d, views: %d\n\n", p.EstimatedItemCount, p.Views)
	}

	if len(p.Items) == 0 {
		fmt.Fprintln(w, "No items.")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, item := range p.Items {
		duration := item.Duration
		if item.IsLive {
			duration = "LIVE"
		}
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%s\n", item.Index, item.Title, duration, item.ShortURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nItems: %d\n", len(p.Items))
	if p.Continuation != nil {
		fmt.Fprintln(w, "More pages available (use -o to save the cursor).")
	}
	return nil
}
