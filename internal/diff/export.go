package diff

// export.go — Diff report serialization. JSON for machines, Markdown for
// review; both render the change list in its already-stable order.

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AdityaMallela041/PyReady/internal/schema"
)

// sectionTitles maps sections to their Markdown headings.
var sectionTitles = map[schema.DiffSection]string{
	schema.SectionCapabilities:    "Capability Changes",
	schema.SectionIntent:          "Intent Changes",
	schema.SectionChecks:          "Environment Check Changes",
	schema.SectionRecommendations: "Recommendation Changes",
	schema.SectionRunCommand:      "Run Command Changes",
}

// WriteJSON writes the diff as pretty-printed JSON.
func WriteJSON(d *schema.DiffReport, path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// WriteMarkdown renders the diff as a Markdown document grouped by section.
func WriteMarkdown(d *schema.DiffReport, path string) error {
	return os.WriteFile(path, []byte(Markdown(d)), 0o644)
}

// Markdown renders the diff document as a string.
func Markdown(d *schema.DiffReport) string {
	var b strings.Builder
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	w("# pyready diff Report")
	w("")
	w("**From:** %s", d.FromReport)
	w("**To:** %s", d.ToReport)
	w("**Generated:** %s", d.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	w("")

	if len(d.Changes) == 0 {
		w("**No changes detected** - reports are identical.")
		w("")
		return b.String()
	}

	w("**Total Changes:** %d", len(d.Changes))
	w("")

	for _, section := range schema.SectionOrder {
		var items []schema.DiffItem
		for _, change := range d.Changes {
			if change.Section == section {
				items = append(items, change)
			}
		}
		if len(items) == 0 {
			continue
		}

		w("## %s", sectionTitles[section])
		w("")
		for _, change := range items {
			w("### %s %s", changeSymbol(change.ChangeType), change.Key)
			w("")
			w("**Type:** %s", change.ChangeType)
			w("")
			if change.Before != nil {
				w("**Before:** %s", *change.Before)
				w("")
			}
			if change.After != nil {
				w("**After:** %s", *change.After)
				w("")
			}
		}
	}

	return b.String()
}

func changeSymbol(t schema.ChangeType) string {
	switch t {
	case schema.ChangeAdded:
		return "+"
	case schema.ChangeRemoved:
		return "-"
	case schema.ChangeChanged:
		return "~"
	}
	return "○"
}
