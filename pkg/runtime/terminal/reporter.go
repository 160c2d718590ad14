package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
)

const summaryTemplate = `
{{.Title}} ({{.Period.Range}})
Period: {{if .Period.Start}}{{.Period.Start.Format "2006-01-02 15:04"}}{{else}}all time{{end}} to {{.Period.End.Format "2006-01-02 15:04"}}
{{range .Sections}}
=== {{.Title}} ===
{{range $key, $value := .Summary}}{{$key}}: {{$value}}
{{end}}{{range .Details}}- {{.Name}}: {{.Value}}{{if .Unit}} {{.Unit}}{{end}}{{if .Description}}
  {{.Description}}{{end}}
{{else}}{{if not .Summary}}(no data)
{{end}}{{end}}{{end}}`

// Reporter outputs summaries to the console in a formatted text form
type Reporter struct {
	writer io.Writer
	tmpl   *template.Template
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		tmpl:   template.Must(template.New("summary").Parse(summaryTemplate)),
	}
}

func (c *Reporter) Handle(summary *domain.Summary) error {
	if err := c.tmpl.Execute(c.writer, summary); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	return nil
}
