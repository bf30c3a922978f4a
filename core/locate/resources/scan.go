package resources

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/tyed/core/font"
)

// listSystemFonts lists all font files in the platform's font directories.
var listSystemFonts = findfont.List

// systemFontFiles returns the font files we are able to parse. Collections
// (.ttc) are skipped.
func systemFontFiles() []string {
	all := listSystemFonts()
	files := make([]string, 0, len(all))
	for _, path := range all {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttf", ".otf":
			files = append(files, path)
		}
	}
	return files
}

// fontFileCache holds fonts loaded while scanning for character coverage.
// Scanning loads each file at most once, even when it fails to parse.
type fontFileCache struct {
	sync.Mutex
	fonts  map[string]*font.ScalableFont
	failed map[string]error
}

var systemFonts = &fontFileCache{
	fonts:  make(map[string]*font.ScalableFont),
	failed: make(map[string]error),
}

func (c *fontFileCache) load(path string) (*font.ScalableFont, error) {
	c.Lock()
	defer c.Unlock()
	if f, ok := c.fonts[path]; ok {
		return f, nil
	}
	if err, ok := c.failed[path]; ok {
		return nil, err
	}
	f, err := font.LoadOpenTypeFont(path)
	if err != nil {
		tracer().Debugf("cannot load font file %s: %v", path, err)
		c.failed[path] = err
		return nil, err
	}
	c.fonts[path] = f
	return f, nil
}
