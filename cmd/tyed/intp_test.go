package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyed/core"
	"github.com/npillmayer/tyed/engine/editor"
	"github.com/npillmayer/tyed/engine/frame/line"
	"github.com/npillmayer/tyed/engine/glyphing/monospace"
	"github.com/npillmayer/tyed/engine/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIntp() *Intp {
	ms := monospace.New(monospace.Face{Name: "cells", Covers: func(rune) bool { return true }})
	intp := &Intp{
		editor: editor.New(nil),
		shaper: line.Shaper{Service: ms, DPI: text.DefaultDPI},
	}
	intp.use(intp.editor.NewEmptyBuffer())
	return intp
}

func run(t *testing.T, intp *Intp, inputs ...string) {
	for _, input := range inputs {
		quit, err := intp.execute(input)
		require.NoError(t, err, input)
		require.False(t, quit)
	}
}

func TestEditCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.editor")
	defer teardown()
	//
	intp := testIntp()
	run(t, intp, "insert hello", "newline", "insert world", "up", "home", "right 2", "del 2")
	assert.Equal(t, "heo\nworld", intp.buf.String())
	run(t, intp, "last", "end", "bs", "kill", "goto 1 1", "killstart")
	assert.Equal(t, "eo\nworl", intp.buf.String())
	run(t, intp, "dl")
	assert.Equal(t, "worl", intp.buf.String())
	run(t, intp, "show", "show 1 2", "cursor", "style beam", "tabsize 4")
	assert.Equal(t, line.Beam, intp.cstyle)
	assert.Equal(t, 4, intp.buf.TabSize())
	quit, err := intp.execute("quit")
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestCommandErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.editor")
	defer teardown()
	//
	intp := testIntp()
	for _, input := range []string{"frobnicate", "goto", "goto x", "left -1", "open", "reload", "switch nothing"} {
		_, err := intp.execute(input)
		assert.Error(t, err, input)
	}
	_, err := intp.execute("open /no/such/file")
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestSwitchBuffers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.editor")
	defer teardown()
	//
	dir := t.TempDir()
	for _, name := range []string{"one.txt", "two.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
	intp := testIntp()
	scratch := intp.name
	run(t, intp, "open "+filepath.Join(dir, "one.txt"), "open "+filepath.Join(dir, "two.txt"))
	assert.Equal(t, "two.txt", intp.buf.String())
	abs, _ := filepath.Abs(dir)
	run(t, intp, "switch "+filepath.Join(abs, "o"))
	assert.Equal(t, "one.txt", intp.buf.String())
	assert.Equal(t, 0, intp.cursor.CharIdx())
	_, err := intp.execute("switch " + abs)
	assert.Equal(t, core.EINVALID, core.Code(err), "prefix is ambiguous")
	run(t, intp, "close", "switch "+scratch)
	assert.Equal(t, 3, intp.editor.Len(), "closing the current buffer opens a new one")
}
