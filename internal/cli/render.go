// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// renderNameTable renders a flat list of capability names as a markdown
// table under the given header, the same tablewriter.NewTable +
// renderer.NewMarkdown pattern the teacher uses for RenderTable. This is a
// CLI-only presentation convenience: the broker itself hands back the
// generated index.md verbatim (spec.md §4.6), never a table.
func renderNameTable(header string, names []string) string {
	if len(names) == 0 {
		return "(none)\n"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"#", header})

	rows := make([][]string, 0, len(names))
	for i, name := range names {
		rows = append(rows, []string{strconv.Itoa(i + 1), name})
	}
	table.Bulk(rows)
	table.Render()
	return buf.String()
}
