package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ba0f3/menurag/internal/menu"
	"github.com/ba0f3/menurag/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show menu, model and cache status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		w := cmd.OutOrStdout()

		fmt.Fprintln(w, "menurag Status")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Menu:", a.cfg.Menu)
		if items, err := menu.Load(a.cfg.Menu); err != nil {
			fmt.Fprintln(w, "  Error:", err)
		} else {
			fmt.Fprintf(w, "  Items:    %d\n", len(items))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Models")
		fmt.Fprintf(w, "  Embed:    %s\n", a.cfg.EmbedModel)
		fmt.Fprintf(w, "  Generate: %s\n", a.cfg.GenerateModel)
		fmt.Fprintf(w, "  Endpoint: %s\n", a.cfg.BaseURL)
		fmt.Fprintf(w, "  Retrieve: top %d\n", a.cfg.K)
		fmt.Fprintln(w)

		if a.store == nil {
			fmt.Fprintln(w, "Cache: disabled")
			return nil
		}
		st, err := a.store.GetStatus()
		if err != nil {
			return fmt.Errorf("cache status: %w", err)
		}
		writeCacheStatus(w, st, time.Now())
		return nil
	},
}

func writeCacheStatus(w io.Writer, st *store.Status, now time.Time) {
	var size int64
	if fi, err := os.Stat(st.DBPath); err == nil {
		size = fi.Size()
	}
	fmt.Fprintln(w, "Cache:", st.DBPath)
	fmt.Fprintln(w, "  Size:    ", formatBytes(size))
	fmt.Fprintf(w, "  Vectors:  %d cached\n", st.VectorCount)
	if len(st.Models) == 0 {
		fmt.Fprintln(w, "  No cached vectors. Run 'menurag embed' to warm the cache.")
		return
	}
	for _, m := range st.Models {
		fmt.Fprintf(w, "  %s: %d vectors, %d dims", m.Model, m.Count, m.Dims)
		if ago := formatTimeAgo(m.LastEmbedded, now); ago != "" {
			fmt.Fprintf(w, " (updated %s)", ago)
		}
		fmt.Fprintln(w)
	}
}

func formatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	if n < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	if n < 1024*1024*1024 {
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB", float64(n)/(1024*1024*1024))
}

func formatTimeAgo(iso string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	d := now.Sub(t)
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
