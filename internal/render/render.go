package render

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vk/stockflow/internal/engine"
	"github.com/vk/stockflow/internal/formula"
	"github.com/vk/stockflow/internal/style"
)

// Format selects an output representation.
type Format string

const (
	FormatText  Format = "text"
	FormatCSV   Format = "csv"
	FormatHTML  Format = "html"
	FormatTable Format = "table"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatCSV, FormatHTML, FormatTable:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q: must be 'text', 'csv', 'html' or 'table'", s)
}

// Result is one model's run, ready to render.
type Result struct {
	Name      string
	Columns   []string
	Snapshots []engine.Snapshot
}

// NewResult pairs a model's visible stocks with its snapshots.
func NewResult(m *engine.Model, snapshots []engine.Snapshot) Result {
	visible := m.VisibleStocks()
	cols := make([]string, len(visible))
	for i, s := range visible {
		cols[i] = s.Name
	}
	return Result{Name: m.Name, Columns: cols, Snapshots: snapshots}
}

// Options tune the text and table renderers.
type Options struct {
	// Separator joins text columns. Defaults to a tab.
	Separator string
	// Pad left-justifies text values to the width of their column name.
	Pad bool
	// Renderer styles the table format. A plain renderer is used when nil.
	Renderer *lipgloss.Renderer
}

// Write renders r to w in the given format.
func Write(w io.Writer, r Result, format Format, opts Options) error {
	switch format {
	case FormatText, "":
		sep := opts.Separator
		if sep == "" {
			sep = "\t"
		}
		return Text(w, r, sep, opts.Pad)
	case FormatCSV:
		return CSV(w, r)
	case FormatHTML:
		return HTML(w, r)
	case FormatTable:
		rr := opts.Renderer
		if rr == nil {
			rr = style.NewRenderer(w, false)
		}
		return Table(w, r, rr)
	}
	return fmt.Errorf("unknown format %q", format)
}

func (r Result) cell(round int, col string) string {
	v, ok := r.Snapshots[round][col]
	if !ok {
		return ""
	}
	return formula.FormatNumber(v)
}

// Text writes a header of separator plus column names, then one line per
// round. With pad set each value is left-justified to its column name width.
func Text(w io.Writer, r Result, sep string, pad bool) error {
	var sb strings.Builder
	sb.WriteString(sep)
	sb.WriteString(strings.Join(r.Columns, sep))
	sb.WriteByte('\n')

	for i := range r.Snapshots {
		sb.WriteString(strconv.Itoa(i))
		for _, col := range r.Columns {
			num := r.cell(i, col)
			if pad {
				num = ljust(num, utf8.RuneCountInString(col))
			}
			sb.WriteString(sep)
			sb.WriteString(num)
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func ljust(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// CSV writes the same layout as Text with a comma separator and RFC 4180
// quoting.
func CSV(w io.Writer, r Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, r.Columns...)); err != nil {
		return err
	}
	for i := range r.Snapshots {
		row := make([]string, 0, len(r.Columns)+1)
		row = append(row, strconv.Itoa(i))
		for _, col := range r.Columns {
			row = append(row, r.cell(i, col))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var htmlTemplate = template.Must(template.New("results").Parse(`<table>
<theader>
<tr>
<td><strong>Round</strong></td>
{{- range .Columns}}
<td><strong>{{.}}</strong></td>
{{- end}}
</tr>
</theader>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
`))

// HTML writes an HTML table with a Round column.
func HTML(w io.Writer, r Result) error {
	rows := make([][]string, len(r.Snapshots))
	for i := range r.Snapshots {
		rows[i] = r.row(i)
	}
	return htmlTemplate.Execute(w, struct {
		Columns []string
		Rows    [][]string
	}{r.Columns, rows})
}

func (r Result) row(i int) []string {
	row := make([]string, 0, len(r.Columns)+1)
	row = append(row, strconv.Itoa(i))
	for _, col := range r.Columns {
		row = append(row, r.cell(i, col))
	}
	return row
}

// Table writes a bordered lipgloss table titled with the model name.
func Table(w io.Writer, r Result, rr *lipgloss.Renderer) error {
	styles := style.NewStyles(rr)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Border).
		Headers(append([]string{"Round"}, r.Columns...)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.Header
			case col == 0:
				return styles.Round
			case row < len(r.Snapshots) && math.IsInf(r.Snapshots[row][r.Columns[col-1]], 0):
				return styles.Infinite
			}
			return styles.Value
		})
	for i := range r.Snapshots {
		t.Row(r.row(i)...)
	}

	title := styles.Header.Render(r.Name)
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, title, t.Render()))
	return err
}
