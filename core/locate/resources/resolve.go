package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/tyed/core"
	"github.com/npillmayer/tyed/core/font"
	"github.com/npillmayer/tyed/core/font/fontregistry"
	"github.com/npillmayer/tyed/engine/text"
)

// NotFound returns an application error for a missing font.
func NotFound(res string) error {
	e := fmt.Errorf("resource missing: %v", res)
	return core.WrapError(e, core.EMISSING, "font not found: %s", res)
}

// findSystemFont locates a font file by name in the platform's font
// directories.
var findSystemFont = findfont.Find

// --- Fonts -----------------------------------------------------------------

type fontPlusErr struct {
	font *font.ScalableFont
	err  error
}

// FontPromise is returned by font resolving functions. Font blocks until the
// font has been loaded.
type FontPromise interface {
	Font() (*font.ScalableFont, error)
	FontWithContext(ctx context.Context) (*font.ScalableFont, error)
}

type fontLoader struct {
	await func(ctx context.Context) (*font.ScalableFont, error)
}

func (loader fontLoader) Font() (*font.ScalableFont, error) {
	return loader.await(context.Background())
}

func (loader fontLoader) FontWithContext(ctx context.Context) (*font.ScalableFont, error) {
	return loader.await(ctx)
}

func promise(ch <-chan fontPlusErr) FontPromise {
	return fontLoader{
		await: func(ctx context.Context) (*font.ScalableFont, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case r := <-ch:
				return r.font, r.err
			}
		},
	}
}

// ResolveFont resolves a font by family name and style. Resolved fonts are
// stored in the global font registry.
//
// If no font can be found, the promise will deliver the packaged fallback
// font together with an error.
func ResolveFont(conf schuko.Configuration, name string, style text.Style) FontPromise {
	ch := make(chan fontPlusErr, 1)
	go func(ch chan<- fontPlusErr) {
		defer close(ch)
		f, err := resolveFont(conf, fontregistry.GlobalRegistry(), name, style)
		ch <- fontPlusErr{font: f, err: err}
	}(ch)
	return promise(ch)
}

func resolveFont(conf schuko.Configuration, reg *fontregistry.Registry, name string,
	style text.Style) (*font.ScalableFont, error) {
	//
	key := fontregistry.NormalizeFontname(name, style)
	if f, ok := packagedFont(name, style); ok {
		tracer().Debugf("%s is a packaged font", name)
		return f, nil
	}
	if f, ok := reg.Font(key); ok {
		return f, nil
	}
	var f *font.ScalableFont
	var err error
	if conf != nil && conf.IsSet("fontconfig") {
		if desc, variant := findFontConfigFont(conf, name, style); desc.Path != "" {
			tracer().Debugf("fontconfig found %s %s at %s", desc.Family, variant, desc.Path)
			f, err = font.LoadOpenTypeFont(desc.Path)
		}
	}
	if f == nil {
		fpath, e := findSystemFont(name) // try to find as system font
		if e == nil && fpath != "" {
			tracer().Debugf("%s is a system font", name)
			f, err = font.LoadOpenTypeFont(fpath)
		}
	}
	if f == nil {
		if err != nil {
			tracer().Errorf("font %s: %v", name, err)
		}
		return font.FallbackFont(), NotFound(name)
	}
	reg.StoreFont(key, f)
	return f, nil
}

func packagedFont(name string, style text.Style) (*font.ScalableFont, bool) {
	bold, italic := style.Weight == text.Bold, style.Slant != text.Roman
	switch strings.ToLower(strings.TrimSpace(name)) {
	case strings.ToLower(font.PackagedMono), "gomono", "monospace":
		return font.PackagedFont(true, bold, italic), true
	case strings.ToLower(font.PackagedSans), "go sans", "goregular", "sans-serif":
		return font.PackagedFont(false, bold, italic), true
	}
	return nil, false
}

// ResolveFontForChar searches the system for a font covering character r.
// Fonts in exclude are not considered, which allows the caller to ask for
// alternatives to fonts it already knows about.
//
// If fontconfig is configured, it is asked for fonts supporting r. Otherwise
// the platform's font directories are scanned.
func ResolveFontForChar(ctx context.Context, conf schuko.Configuration, r rune,
	exclude func(path string) bool) FontPromise {
	//
	ch := make(chan fontPlusErr, 1)
	go func(ch chan<- fontPlusErr) {
		defer close(ch)
		f, err := resolveFontForChar(ctx, conf, r, exclude)
		ch <- fontPlusErr{font: f, err: err}
	}(ch)
	return promise(ch)
}

func resolveFontForChar(ctx context.Context, conf schuko.Configuration, r rune,
	exclude func(path string) bool) (*font.ScalableFont, error) {
	//
	var candidates []string
	if conf != nil && conf.IsSet("fontconfig") {
		paths, err := fontConfigFontsForChar(ctx, conf, r)
		if err != nil {
			tracer().Infof("fontconfig charset query failed: %v", err)
		}
		candidates = paths
	}
	if len(candidates) == 0 {
		candidates = systemFontFiles()
	}
	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if exclude != nil && exclude(path) {
			continue
		}
		f, err := systemFonts.load(path)
		if err != nil {
			continue
		}
		if f.HasGlyph(r) {
			tracer().Infof("font %s covers %#U", f.Fontname, r)
			return f, nil
		}
	}
	return nil, NotFound(fmt.Sprintf("%#U", r))
}
