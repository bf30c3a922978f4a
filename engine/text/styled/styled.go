/*
Package styled holds formatted lines of text, i.e. text with runs of equal
formatting. A formatted line is the unit the editor hands over to line
shaping.

Formatting is stored as styles of a cords/styled text. Positions in the
API of this package are character positions.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package styled

import (
	"fmt"

	"github.com/npillmayer/cords"
	sty "github.com/npillmayer/cords/styled"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyed/core/grapheme"
	"github.com/npillmayer/tyed/engine/text"
)

// tracer traces with key 'tyed.text'.
func tracer() tracing.Trace {
	return tracing.Select("tyed.text")
}

// Format is a set of formatting attributes for a run of text.
type Format struct {
	Size      text.Size
	Style     text.Style
	Color     text.Color
	Pitch     text.Pitch
	Underline *text.Color
}

// TextFormat is the format of editor text.
func TextFormat() Format {
	return Format{
		Size:  text.TextSize,
		Style: text.DefaultTextFont,
		Color: text.TextColor,
		Pitch: text.Fixed,
	}
}

// GutterFormat is the format of line numbers in the gutter.
func GutterFormat() Format {
	return Format{
		Size:  text.GutterTextSize,
		Style: text.DefaultTextFont,
		Color: text.GutterColor,
		Pitch: text.Fixed,
	}
}

// String is part of interface cords.styled.Style.
func (f Format) String() string {
	u := ""
	if f.Underline != nil {
		u = " underline=" + f.Underline.String()
	}
	return fmt.Sprintf("<%s %s %s %s%s>", f.Size, f.Style, f.Color, f.Pitch, u)
}

// Equals is part of interface cords.styled.Style, not intended for client usage.
func (f Format) Equals(other sty.Style) bool {
	o, ok := other.(Format)
	if !ok {
		return false
	}
	if (f.Underline == nil) != (o.Underline == nil) {
		return false
	}
	if f.Underline != nil && *f.Underline != *o.Underline {
		return false
	}
	return f.Size == o.Size && f.Style == o.Style && f.Color == o.Color && f.Pitch == o.Pitch
}

var _ sty.Style = Format{}

// Span creates a text span with this format.
func (f Format) Span(s string) text.Span {
	span := text.NewSpan(s, f.Size, f.Style, f.Color, f.Pitch)
	span.Underline = f.Underline
	return span
}

// Line is a line of text with formatting.
type Line struct {
	text *sty.Text
	raw  string
	base Format
}

// NewLine creates a line of text, formatted with f throughout.
func NewLine(s string, f Format) *Line {
	l := &Line{
		text: sty.TextFromString(s),
		raw:  s,
		base: f,
	}
	if len(s) > 0 {
		l.text.Style(f, 0, uint64(len(s)))
	}
	return l
}

// String returns the line's text.
func (l *Line) String() string {
	return l.raw
}

// Len returns the number of characters of the line.
func (l *Line) Len() int {
	return grapheme.CharOffset(l.raw, len(l.raw))
}

// Format applies a format to the characters in [from, to).
func (l *Line) Format(f Format, from, to int) error {
	if from < 0 || to > l.Len() || from >= to {
		return cords.ErrIllegalArguments
	}
	bfrom, bto := grapheme.ByteOffset(l.raw, from), grapheme.ByteOffset(l.raw, to)
	l.text.Style(f, uint64(bfrom), uint64(bto))
	return nil
}

// Spans returns the line as a sequence of text spans, one per run of equal
// formatting.
func (l *Line) Spans() text.Line {
	var spans text.Line
	l.text.EachStyleRun(func(content string, style sty.Style, pos uint64) error {
		f, ok := style.(Format)
		if !ok {
			tracer().Debugf("run at %d has no format, using line format", pos)
			f = l.base
		}
		if len(spans) > 0 && f.Equals(l.formatOf(spans[len(spans)-1])) {
			spans[len(spans)-1].Text += content
			return nil
		}
		spans = append(spans, f.Span(content))
		return nil
	})
	return spans
}

func (l *Line) formatOf(span text.Span) Format {
	return Format{
		Size:      span.Size,
		Style:     span.Style,
		Color:     span.Color,
		Pitch:     span.Pitch,
		Underline: span.Underline,
	}
}
