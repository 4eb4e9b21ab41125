package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/idelchi/sysinfo/internal/sysinfo"
)

// countRow is one line of a count table.
type countRow struct {
	key   string
	count uint64
}

// topCounts returns the n largest counts, ties broken by key.
func topCounts(rows []countRow, n int) []countRow {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}

		return rows[i].key < rows[j].key
	})

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}

	return rows
}

func share(count uint64, total int) string {
	if total == 0 {
		return "0.0%"
	}

	return fmt.Sprintf("%.1f%%", 100.0*float64(count)/float64(total))
}

func renderCounts(w io.Writer, header string, rows []countRow, total int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{header, "Entries", "Share"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range rows {
		table.Append([]string{row.key, humanize.Comma(int64(row.count)), share(row.count, total)}) //nolint:gosec // Counts fit
	}

	table.Render()
}

// PrintSummary outputs the report totals and the most common types and owners.
//
//nolint:forbidigo // This function prints output to the console.
func PrintSummary(rep *sysinfo.Report, stats sysinfo.Stats, topN int, writer io.Writer) error {
	total := len(rep.Files)

	types := make([]countRow, 0, len(rep.FileTypes))
	for fileType, n := range rep.FileTypes {
		types = append(types, countRow{key: fileType, count: n})
	}

	owners := make([]countRow, 0, len(rep.Ownership))
	for owner, n := range rep.Ownership {
		owners = append(owners, countRow{key: strconv.FormatUint(uint64(owner), 10), count: n})
	}

	fmt.Fprintln(writer, "\nTop file types:")
	renderCounts(writer, "Type", topCounts(types, topN), total)

	fmt.Fprintln(writer, "\nTop owners:")
	renderCounts(writer, "UID", topCounts(owners, topN), total)

	fmt.Fprintln(writer, "\nStats:")

	table := tablewriter.NewWriter(writer)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"Total entries", humanize.Comma(int64(total))},
		{"Total size", fmt.Sprintf("%s (%d bytes)", humanize.IBytes(rep.TotalSize), rep.TotalSize)},
		{"Skipped", humanize.Comma(stats.Progress.Skipped + stats.Progress.Dropped)},
		{"Elapsed", stats.Elapsed.String()},
	})
	table.Render()

	return nil
}
