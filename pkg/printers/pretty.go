// Package printers renders waitlist records and notifications for the CLI.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v3"

	"tableflip.dev/waitlist/pkg/notify"
	"tableflip.dev/waitlist/pkg/record"
)

// Format selects how records are printed.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json or yaml.
func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(v))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output %q (expected table, json or yaml)", v)
	}
}

// PrettyPrint writes to Out, defaulting to color.Output.
type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

// TitleWithCount prints a bold heading followed by a faint count.
func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)
	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " signup")
	default:
		_, _ = c.Fprintln(pp.out(), " signups")
	}
}

// Records prints records in the requested format.
func (pp *PrettyPrint) Records(format Format, collection string, records []*record.Record) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(pp.out())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(pp.out())
		defer enc.Close()
		return enc.Encode(records)
	default:
		pp.TitleWithCount(collection, len(records))
		pp.Table(records...)
		return nil
	}
}

// Table prints one row per record.
func (pp *PrettyPrint) Table(records ...*record.Record) {
	if len(records) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	bold := color.New(color.Bold)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	if pp.ShowID {
		tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Full Name"), bold.Sprint("Email"), bold.Sprint("Joined"))
	} else {
		tbl.AddRow(bold.Sprint("Full Name"), bold.Sprint("Email"), bold.Sprint("Joined"))
	}
	for _, r := range records {
		joined := ""
		if !r.Created.IsZero() {
			joined = r.Created.Local().Format("Jan 2, 2006 15:04")
		}
		if pp.ShowID {
			tbl.AddRow(y.Sprint(string(r.ID)), r.FullName(), r.Email(), joined)
		} else {
			tbl.AddRow(r.FullName(), r.Email(), joined)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out())
}

// Record prints a single newly seen record, as used by watch mode.
func (pp *PrettyPrint) Record(r *record.Record) {
	g := color.New(color.FgGreen)
	_, _ = g.Fprint(pp.out(), "+ ")
	_, _ = fmt.Fprintf(pp.out(), "%s <%s>\n", r.FullName(), r.Email())
}

// Notification prints a notification line in its severity color.
func (pp *PrettyPrint) Notification(n notify.Notification) {
	tr := notify.TreatmentFor(n.Severity)
	c := SeverityColor(n.Severity)
	_, _ = c.Fprintf(pp.out(), "%s %s\n", tr.Icon, n.Message)
}

// SeverityColor returns the 256-color attribute for a severity's treatment.
func SeverityColor(s notify.Severity) *color.Color {
	tr := notify.TreatmentFor(s)
	n, err := strconv.Atoi(tr.Color)
	if err != nil {
		return color.New(color.Bold)
	}
	return color.New(38, 5, color.Attribute(n), color.Bold)
}
