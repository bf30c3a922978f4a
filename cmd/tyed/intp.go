package main

import (
	"image"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/tyed/core"
	"github.com/npillmayer/tyed/engine/buffer"
	"github.com/npillmayer/tyed/engine/editor"
	"github.com/npillmayer/tyed/engine/frame/line"
	"github.com/npillmayer/tyed/engine/glyphing/fontcore"
	"github.com/npillmayer/tyed/engine/text/styled"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object.
type Intp struct {
	editor *editor.Core
	shaper line.Shaper
	fonts  *fontcore.Core
	repl   *readline.Instance
	name   string // name of the current buffer
	buf    *buffer.Buffer
	cursor *buffer.Cursor
	cstyle line.CursorStyle
}

var commands = []string{
	"help", "quit", "new", "open", "switch", "buffers", "close", "reload",
	"show", "draw", "cursor", "style", "goto", "left", "right", "up", "down",
	"home", "end", "last", "insert", "newline", "del", "bs", "kill", "killstart",
	"dl", "tabsize",
}

func (intp *Intp) completer() readline.AutoCompleter {
	names := func(string) []string {
		return intp.editor.Names()
	}
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, cmd := range commands {
		switch cmd {
		case "switch", "close":
			items = append(items, readline.PcItem(cmd, readline.PcItemDynamic(names)))
		case "style":
			items = append(items, readline.PcItem(cmd,
				readline.PcItem("beam"), readline.PcItem("block"), readline.PcItem("underline")))
		default:
			items = append(items, readline.PcItem(cmd))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		input, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if input = strings.TrimSpace(input); input == "" {
			continue
		}
		quit, err := intp.execute(input)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			tracer().Debugf("%v", err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(input string) (quit bool, err error) {
	cmd, arg := input, ""
	if i := strings.IndexByte(input, ' '); i >= 0 {
		cmd, arg = input[:i], input[i+1:]
	}
	b, c := intp.buf, intp.cursor
	switch cmd {
	case "quit":
		return true, nil
	case "help":
		pterm.Info.Println("commands: " + strings.Join(commands, " "))
	case "new":
		intp.use(intp.editor.NewEmptyBuffer())
	case "open":
		return false, intp.open(arg)
	case "switch":
		return false, intp.switchTo(arg)
	case "buffers":
		for _, name := range intp.editor.Names() {
			marker := " "
			if name == intp.name {
				marker = "*"
			}
			pterm.Printf("%s %s\n", marker, name)
		}
	case "close":
		if arg == "" {
			arg = intp.name
		}
		if err := intp.editor.Close(arg); err != nil {
			return false, err
		}
		if arg == intp.name {
			intp.use(intp.editor.NewEmptyBuffer())
		}
	case "reload":
		return false, b.Reload()
	case "show":
		from, count := c.LineNum(), 1
		if arg != "" {
			args := strings.Fields(arg)
			if from, err = number(args[0], 1); err != nil {
				return false, err
			}
			from--
			if len(args) > 1 {
				if count, err = number(args[1], 1); err != nil {
					return false, err
				}
			}
		}
		intp.show(from, count)
	case "draw":
		intp.draw()
	case "cursor":
		pterm.Info.Println(c.String())
	case "style":
		switch arg {
		case "beam":
			intp.cstyle = line.Beam
		case "underline":
			intp.cstyle = line.Underline
		default:
			intp.cstyle = line.Block
		}
	case "goto":
		args := strings.Fields(arg)
		if len(args) == 0 {
			return false, core.Error(core.EINVALID, "usage: goto <line> [<column>]")
		}
		ln, err := number(args[0], 1)
		if err != nil {
			return false, err
		}
		col := 0
		if len(args) > 1 {
			if col, err = number(args[1], 0); err != nil {
				return false, err
			}
		}
		b.MoveToLineColumn(c, ln-1, col)
	case "left", "right", "up", "down", "del", "bs", "dl":
		n, err := repeat(arg)
		if err != nil {
			return false, err
		}
		map[string]func(*buffer.Cursor, int){
			"left":  b.MoveLeft,
			"right": b.MoveRight,
			"up":    b.MoveUp,
			"down":  b.MoveDown,
			"del":   b.DeleteRight,
			"bs":    b.DeleteLeft,
			"dl":    b.DeleteLines,
		}[cmd](c, n)
	case "home":
		b.MoveToLineStart(c)
	case "end":
		b.MoveToLineEnd(c)
	case "last":
		b.MoveToLastLine(c)
	case "insert":
		b.InsertText(c, arg)
	case "newline":
		b.InsertChar(c, '\n')
	case "kill":
		b.DeleteToLineEnd(c)
	case "killstart":
		b.DeleteToLineStart(c)
	case "tabsize":
		n, err := number(arg, 1)
		if err != nil {
			return false, err
		}
		b.SetTabSize(n)
	default:
		return false, core.Error(core.EINVALID, "unknown command %q, try 'help'", cmd)
	}
	return false, nil
}

func number(s string, min int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < min {
		return 0, core.Error(core.EINVALID, "not a valid number: %q", s)
	}
	return n, nil
}

func repeat(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return 1, nil
	}
	return number(s, 1)
}

// open loads a file and makes it the current buffer.
func (intp *Intp) open(path string) error {
	if path == "" {
		return core.Error(core.EINVALID, "usage: open <path>")
	}
	b, err := intp.editor.NewBufferFromFile(path)
	if err != nil {
		return err
	}
	intp.use(b.Path(), b)
	pterm.Info.Printf("%s: %d lines\n", b.Path(), b.LenLines())
	return nil
}

// switchTo makes the open buffer with a unique name matching prefix the
// current buffer.
func (intp *Intp) switchTo(prefix string) error {
	names := intp.editor.Complete(prefix)
	switch len(names) {
	case 0:
		return core.Error(core.EMISSING, "no buffer matching %q", prefix)
	case 1:
		intp.use(names[0], intp.editor.Buffer(names[0]))
		return nil
	}
	for _, name := range names {
		if name == prefix {
			intp.use(name, intp.editor.Buffer(name))
			return nil
		}
	}
	return core.Error(core.EINVALID, "%q is ambiguous: %s", prefix, strings.Join(names, ", "))
}

func (intp *Intp) use(name string, b *buffer.Buffer) {
	if b == intp.buf {
		return
	}
	intp.release()
	intp.name, intp.buf = name, b
	intp.cursor = b.CursorAt(b.PositionAtLine(0))
}

func (intp *Intp) release() {
	if intp.cursor != nil {
		intp.cursor.Release()
		intp.cursor = nil
	}
}

// show prints count lines, starting at line from, together with the
// geometry of their shaped text.
func (intp *Intp) show(from, count int) {
	b := intp.buf
	if from >= b.LenLines() {
		from = b.LenLines() - 1
	}
	data := pterm.TableData{{"#", "text", "spans", "asc", "desc", "height", "width"}}
	b.FormatLinesFrom(b.PositionAtLine(from), func(n int, sl *styled.Line) bool {
		if n >= from+count {
			return false
		}
		gutter := intp.shaper.FromStyled(b.GutterLine(n))
		l := intp.shaper.FromStyled(sl)
		data = append(data, []string{
			gutter.String(),
			strconv.Quote(sl.String()),
			strconv.Itoa(len(l.Spans)),
			strconv.Itoa(l.Ascender),
			strconv.Itoa(l.Descender),
			strconv.Itoa(l.Height()),
			strconv.Itoa(l.Width),
		})
		return true
	})
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

// draw prints the items of the cursor's line as a renderer would see them.
func (intp *Intp) draw() {
	c := intp.cursor
	l := intp.shaper.FromStyled(intp.buf.FormatLine(c.LineNum()))
	spec := []line.CursorSpec{{Style: intp.cstyle, Grapheme: c.LineGidx()}}
	l.Draw(image.Point{}, line.DrawContext{}, spec, func(item line.Item) {
		switch it := item.(type) {
		case *line.GlyphPlacement:
			pterm.Printf("glyph %5d at %v in %s\n", it.Glyph.GID, it.Pos, intp.fonts.Name(it.Span.Font))
		case *line.CursorRect:
			pterm.Printf("%s cursor %v\n", it.Style, it.Rect())
		}
	})
	x, w := l.CursorX(c.LineGidx())
	pterm.Info.Printf("cursor x=%d w=%d, line width %d\n", x, w, l.Width)
}
