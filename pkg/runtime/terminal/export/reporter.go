package export

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/olekukonko/tablewriter"
)

const periodLayout = "2006-01-02 15:04"

// Reporter renders summaries as bordered tables, one per section.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(summary *domain.Summary) error {
	start := "all time"
	if summary.Period.Start != nil {
		start = summary.Period.Start.Format(periodLayout)
	}
	if _, err := fmt.Fprintf(c.writer, "\n%s (%s)\nPeriod: %s to %s\n",
		summary.Title, summary.Period.Range, start, summary.Period.End.Format(periodLayout)); err != nil {
		return err
	}

	for _, section := range summary.Sections {
		if _, err := fmt.Fprintf(c.writer, "\n=== %s ===\n", section.Title); err != nil {
			return err
		}

		keys := make([]string, 0, len(section.Summary))
		for k := range section.Summary {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(c.writer, "%s: %v\n", k, section.Summary[k]); err != nil {
				return err
			}
		}

		if len(section.Details) == 0 {
			continue
		}
		table := newTable(c.writer, []string{"NAME", "VALUE", "UNIT", "DESCRIPTION"})
		table.SetColumnAlignment([]int{
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
		})
		for _, d := range section.Details {
			table.Append([]string{d.Name, fmt.Sprint(d.Value), d.Unit, d.Description})
		}
		table.Render()
	}
	return nil
}

// HandleTable writes free-form rows followed by a count of noun.
func (c *Reporter) HandleTable(header []string, rows [][]string, noun string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintf(c.writer, "No %ss found\n", noun)
		return err
	}
	table := newTable(c.writer, header)
	table.AppendBulk(rows)
	table.Render()
	_, err := fmt.Fprintf(c.writer, "%d %s\n", len(rows), plural(len(rows), noun))
	return err
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorders(tablewriter.Border{Left: true, Top: true, Right: true, Bottom: true})
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	return table
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
