// Package output renders CLI results as tables, JSON or YAML, and prints
// user notifications.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/marmos91/draftkeep/pkg/notify"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: table, json, yaml)", s)
	}
}

func (f Format) String() string {
	return string(f)
}

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiFaint  = "\033[2m"
)

// Printer handles formatted output to a writer. Notify may be called from
// other goroutines.
type Printer struct {
	out    io.Writer
	format Format
	color  bool

	mu sync.Mutex
}

// NewPrinter creates a Printer.
func NewPrinter(out io.Writer, format Format, color bool) *Printer {
	return &Printer{out: out, format: format, color: color}
}

// Format returns the printer's output format.
func (p *Printer) Format() Format {
	return p.format
}

// Writer returns the printer's output writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Print outputs data in the configured format. For tables, data must
// implement TableRenderer; anything else falls back to JSON.
func (p *Printer) Print(data any) error {
	switch p.format {
	case FormatTable:
		if renderer, ok := data.(TableRenderer); ok {
			return PrintTable(p.out, renderer)
		}
		return PrintJSON(p.out, data)
	case FormatJSON:
		return PrintJSON(p.out, data)
	case FormatYAML:
		return PrintYAML(p.out, data)
	default:
		return fmt.Errorf("unknown format: %s", p.format)
	}
}

// Println prints a message followed by a newline.
func (p *Printer) Println(args ...any) {
	_, _ = fmt.Fprintln(p.out, args...)
}

// Printf prints a formatted message.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) colored(code, msg string) {
	if p.color {
		_, _ = fmt.Fprintf(p.out, "%s%s%s\n", code, msg, ansiReset)
		return
	}
	_, _ = fmt.Fprintln(p.out, msg)
}

// Success prints a success message.
func (p *Printer) Success(msg string) { p.colored(ansiGreen, msg) }

// Error prints an error message.
func (p *Printer) Error(msg string) { p.colored(ansiRed, msg) }

// Warning prints a warning message.
func (p *Printer) Warning(msg string) { p.colored(ansiYellow, msg) }

// Notify implements notify.Notifier. In JSON or YAML mode the notification
// is printed as a document.
func (p *Printer) Notify(_ context.Context, n notify.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.format {
	case FormatJSON:
		_ = PrintJSONCompact(p.out, n)
		return
	case FormatYAML:
		_ = PrintYAML(p.out, n)
		return
	}

	line := n.Title
	if n.Message != "" {
		line += ": " + n.Message
	}
	switch n.Kind {
	case notify.KindSuccess:
		p.Success(line)
	case notify.KindError:
		p.Error(line)
	case notify.KindWarning:
		p.Warning(line)
	default:
		p.colored(ansiCyan, line)
	}

	if n.Details != "" {
		p.colored(ansiFaint, "  "+n.Details)
	}
	if n.Action != "" {
		p.colored(ansiFaint, "  Suggested: "+n.Action)
	}
}

// PrintJSON writes data as indented JSON.
func PrintJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// PrintJSONCompact writes data as single-line JSON.
func PrintJSONCompact(w io.Writer, data any) error {
	return json.NewEncoder(w).Encode(data)
}

// PrintYAML writes data as YAML.
func PrintYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(data)
}
