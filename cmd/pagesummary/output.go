package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// printer handles formatted output to the terminal
type printer struct {
	out       io.Writer
	useColors bool
}

// resolveColors disables colors on request, for NO_COLOR and for dumb terminals.
func resolveColors(noColor bool) bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func (p *printer) colored(attrs []color.Attribute, format string, args ...interface{}) {
	if p.useColors {
		c := color.New(attrs...)
		c.EnableColor()
		c.Fprintf(p.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Success prints a success message
func (p *printer) Success(format string, args ...interface{}) {
	if !p.useColors {
		p.colored(nil, "[OK] "+format, args...)
		return
	}
	p.colored([]color.Attribute{color.FgGreen}, "✓ "+format, args...)
}

// Info prints an informational message
func (p *printer) Info(format string, args ...interface{}) {
	p.colored([]color.Attribute{color.FgCyan}, format, args...)
}

// Faint prints secondary detail
func (p *printer) Faint(format string, args ...interface{}) {
	p.colored([]color.Attribute{color.Faint}, format, args...)
}

// Plain prints text as is
func (p *printer) Plain(text string) {
	fmt.Fprintln(p.out, text)
}

// Table renders rows under headers without borders
func (p *printer) Table(headers []string, rows [][]string) {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(headers)
	table.Bulk(rows)
	table.Render()
}
