package app

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/trovelib/trovectl/internal/api"
)

// humanBytes formats a byte count for display.
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// printProfile prints a saved profile summary.
func printProfile(p *api.ContentProfile) {
	fmt.Println()
	fmt.Printf("  profile:  %s\n", color.WhiteString(p.ID.String()))
	fmt.Printf("  content:  %s\n", p.ContentID)
	fmt.Printf("  title:    %s\n", p.Title)
	if p.Author != "" {
		fmt.Printf("  author:   %s\n", p.Author)
	}
	if p.Hidden {
		fmt.Printf("  hidden:   yes\n")
	}
}
