package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// Printer writes markdown either raw or styled for a terminal.
type Printer struct {
	w     io.Writer
	plain bool
	r     *glamour.TermRenderer
}

// NewPrinter styles output with glamour unless plain is set. style is a
// glamour standard style name; "auto" picks one from the terminal.
func NewPrinter(w io.Writer, plain bool, style string, width int) (*Printer, error) {
	p := &Printer{w: w, plain: plain}
	if plain {
		return p, nil
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create terminal renderer: %w", err)
	}
	p.r = r
	return p, nil
}

func (p *Printer) Print(md string) error {
	if p.plain {
		_, err := io.WriteString(p.w, md)
		return err
	}
	out, err := p.r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(p.w, out)
	return err
}
