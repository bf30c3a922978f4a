package editor

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/derekparker/trie"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/tyed/core"
	"github.com/npillmayer/tyed/engine/buffer"
	"github.com/npillmayer/tyed/engine/text/styled"
)

// Core owns the open buffers of an editor session.
// A Core is not safe for concurrent use.
type Core struct {
	settings Settings
	buffers  *treemap.Map // name -> *buffer.Buffer
	names    *trie.Trie
	untitled int
	nextView int
}

// New creates an editor core with settings read from conf, which may be nil.
func New(conf schuko.Configuration) *Core {
	c := &Core{
		settings: SettingsFrom(conf),
		buffers:  treemap.NewWithStringComparator(),
		names:    trie.New(),
	}
	tracer().Debugf("editor core created, tab size %d", c.settings.TabSize)
	return c
}

// Settings returns the settings of the session.
func (c *Core) Settings() Settings {
	return c.settings
}

func (c *Core) options() []buffer.Option {
	textFmt, gutterFmt := styled.TextFormat(), styled.GutterFormat()
	textFmt.Size = c.settings.TextSize
	gutterFmt.Size = c.settings.GutterTextSize
	return []buffer.Option{
		buffer.WithTabSize(c.settings.TabSize),
		buffer.WithFormats(textFmt, gutterFmt),
	}
}

// NewEmptyBuffer creates an empty buffer and registers it under a generated
// name, which is returned together with the buffer.
func (c *Core) NewEmptyBuffer() (string, *buffer.Buffer) {
	c.untitled++
	name := fmt.Sprintf("*untitled-%d*", c.untitled)
	b := buffer.Empty(c.options()...)
	c.register(name, b)
	return name, b
}

// NewBufferFromFile opens a buffer for a file. If the file is already open,
// its buffer is reloaded and returned. The buffer is registered under the
// absolute path of the file.
func (c *Core) NewBufferFromFile(path string) (*buffer.Buffer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid path %q", path)
	}
	if b := c.Buffer(abs); b != nil {
		tracer().Infof("%s already open, reloading", abs)
		if err := b.Reload(); err != nil {
			return nil, err
		}
		return b, nil
	}
	b, err := buffer.FromFile(abs, c.options()...)
	if err != nil {
		return nil, err
	}
	c.register(abs, b)
	return b, nil
}

func (c *Core) register(name string, b *buffer.Buffer) {
	c.buffers.Put(name, b)
	c.names.Add(name, b)
	tracer().Debugf("registered buffer %s", name)
}

// Buffer returns the buffer registered under name, or nil.
func (c *Core) Buffer(name string) *buffer.Buffer {
	if b, found := c.buffers.Get(name); found {
		return b.(*buffer.Buffer)
	}
	return nil
}

// Names returns the names of all open buffers in lexical order.
func (c *Core) Names() []string {
	keys := c.buffers.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

// Len returns the number of open buffers.
func (c *Core) Len() int {
	return c.buffers.Size()
}

// Complete returns the names of open buffers starting with prefix, sorted.
func (c *Core) Complete(prefix string) []string {
	names := c.names.PrefixSearch(prefix)
	sort.Strings(names)
	return names
}

// Close removes a buffer from the registry. Closing an unknown name results
// in an error with code core.EMISSING.
func (c *Core) Close(name string) error {
	if _, found := c.buffers.Get(name); !found {
		return core.Error(core.EMISSING, "no buffer %q", name)
	}
	c.buffers.Remove(name)
	c.names.Remove(name)
	tracer().Debugf("closed buffer %s", name)
	return nil
}

// NextViewID hands out identifiers for views onto buffers, starting at 1.
func (c *Core) NextViewID() int {
	c.nextView++
	return c.nextView
}
