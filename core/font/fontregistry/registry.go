package fontregistry

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyed/core/font"
	"github.com/npillmayer/tyed/engine/text"
)

// Registry is a type for holding information about loaded fonts for an
// editor.
type Registry struct {
	sync.Mutex
	fonts     map[string]*font.ScalableFont
	typecases map[string]*font.TypeCase
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// loaded fonts and typecases.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty font registry.
func NewRegistry() *Registry {
	fr := &Registry{
		fonts:     make(map[string]*font.ScalableFont),
		typecases: make(map[string]*font.TypeCase),
	}
	return fr
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(normalizedName string, f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[normalizedName]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, normalizedName)
		fr.fonts[normalizedName] = f
	}
}

// Font returns the font stored under a normalized name.
func (fr *Registry) Font(normalizedName string) (*font.ScalableFont, bool) {
	fr.Lock()
	defer fr.Unlock()
	f, ok := fr.fonts[normalizedName]
	return f, ok
}

// TypeCase returns a concrete typecase with a given font, size and resolution.
// If a suitable typecase has already been cached, TypeCase will return the cached
// typecase. If a suitable font has previously been stored under key
// `normalizedName`, a typecase will be derived from this font.
//
// If no typecase can be produced, TypeCase will derive one from the packaged
// fallback font and return it, together with an error.
func (fr *Registry) TypeCase(normalizedName string, size text.Size, dpi uint32) (*font.TypeCase, error) {
	tracer().Debugf("registry searches for font %s at %s", normalizedName, size)
	tname := appendSize(normalizedName, size, dpi)
	fr.Lock()
	defer fr.Unlock()
	if t, ok := fr.typecases[tname]; ok {
		return t, nil
	}
	if f, ok := fr.fonts[normalizedName]; ok {
		t, err := f.PrepareCase(float64(size.Points()), float64(dpi))
		if err != nil {
			return nil, err
		}
		tracer().Infof("font registry has font %s, caches at %s", normalizedName, size)
		fr.typecases[tname] = t
		return t, nil
	}
	tracer().Infof("registry does not contain font %s", normalizedName)
	err := errors.New("font " + normalizedName + " not found in registry")
	//
	// store typecase from fallback font, if not present yet, and return it
	fname := "fallback"
	tname = appendSize(fname, size, dpi)
	if t, ok := fr.typecases[tname]; ok {
		return t, err
	}
	f := font.FallbackFont()
	t, _ := f.PrepareCase(float64(size.Points()), float64(dpi))
	tracer().Infof("font registry caches fallback font at %s", size)
	fr.fonts[fname] = f
	fr.typecases[tname] = t
	return t, err
}

// Size returns the number of fonts in the registry.
func (fr *Registry) Size() int {
	fr.Lock()
	defer fr.Unlock()
	return len(fr.fonts)
}

// LogFontList is a helper function to dump the list of known fonts and typecases
// in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for k, v := range fr.fonts {
		tracer().Infof("font [%s] = %v", k, v.Fontname)
	}
	for k, v := range fr.typecases {
		tracer().Infof("typecase [%s] = %v", k, v.ScalableFontParent().Fontname)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// NormalizeFontname creates a registry key from a family name and a style.
func NormalizeFontname(fname string, style text.Style) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	switch style.Slant {
	case text.Italic, text.Oblique:
		fname += "-italic"
	}
	switch style.Weight {
	case text.Light:
		fname += "-light"
	case text.Bold:
		fname += "-bold"
	}
	return fname
}

func appendSize(fname string, size text.Size, dpi uint32) string {
	return fmt.Sprintf("%s-%.2f@%d", fname, size.Points(), dpi)
}

// GuessStyle trys to guess a font's style from the font's file name.
func GuessStyle(fontfilename string) text.Style {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	style := text.Style{Weight: text.Medium, Slant: text.Roman}
	if strings.Contains(fontfilename, "italic") {
		style.Slant = text.Italic
	} else if strings.Contains(fontfilename, "oblique") {
		style.Slant = text.Oblique
	}
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight", "thin":
			style.Weight = text.Light
			return style
		case "normal", "medium", "regular", "r":
			return style
		case "bold", "b", "xbold", "black":
			style.Weight = text.Bold
			return style
		}
	}
	if strings.Contains(fontfilename, "light") {
		style.Weight = text.Light
	}
	if strings.Contains(fontfilename, "bold") {
		style.Weight = text.Bold
	}
	return style
}

// Matches returns true if a font's filename contains pattern and indicators
// for a given style.
func Matches(fontfilename, pattern string, style text.Style) bool {
	basename := path.Base(fontfilename)
	basename = basename[:len(basename)-len(path.Ext(basename))]
	basename = strings.ToLower(basename)
	if !strings.Contains(basename, strings.ToLower(pattern)) {
		return false
	}
	return GuessStyle(basename) == style
}

// MatchConfidence is a type for expressing the confidence level of font matching.
type MatchConfidence int

// Levels of confidence
const (
	NoConfidence      MatchConfidence = 0
	LowConfidence     MatchConfidence = 2
	HighConfidence    MatchConfidence = 3
	PerfectConfidence MatchConfidence = 4
)

// ClosestMatch scans a list of font desriptors and returns the closest match
// for a given set of parameters.
// If no variant matches, returns `NoConfidence`.
func ClosestMatch(fdescs []font.Descriptor, pattern string, style text.Style) (
	match font.Descriptor, variant string, confidence MatchConfidence) {
	//
	r, err := regexp.Compile(strings.ToLower(pattern))
	if err != nil {
		tracer().Errorf("invalid font name pattern")
		return
	}
	for _, fdesc := range fdescs {
		if !r.MatchString(strings.ToLower(fdesc.Family)) {
			continue
		}
		for _, v := range fdesc.Variants {
			s := MatchSlant(v, style.Slant)
			w := MatchWeight(v, style.Weight)
			if (s+w)/2 > confidence {
				confidence = (s + w) / 2
				variant = v
				match = fdesc
			}
		}
	}
	return
}

// ---------------------------------------------------------------------------

// MatchSlant trys to match a font-variant to a given slant.
func MatchSlant(variantName string, slant text.Slant) MatchConfidence {
	variantName = strings.ToLower(variantName)
	switch slant {
	case text.Roman:
		if strings.Contains(variantName, "italic") || strings.Contains(variantName, "obliq") {
			return NoConfidence
		}
		return PerfectConfidence
	case text.Italic:
		if strings.Contains(variantName, "italic") {
			return PerfectConfidence
		}
		if strings.Contains(variantName, "obliq") {
			return HighConfidence
		}
	case text.Oblique:
		if strings.Contains(variantName, "obliq") {
			return PerfectConfidence
		}
		if strings.Contains(variantName, "italic") {
			return HighConfidence
		}
	}
	return NoConfidence
}

// MatchWeight trys to match a font-variant to a given weight.
func MatchWeight(variantName string, weight text.Weight) MatchConfidence {
	variantName = strings.ToLower(variantName)
	bold := strings.Contains(variantName, "bold") || strings.Contains(variantName, "black")
	light := strings.Contains(variantName, "light") || strings.Contains(variantName, "thin")
	switch weight {
	case text.Medium:
		if !bold && !light {
			return PerfectConfidence
		}
		if light {
			return LowConfidence
		}
	case text.Light:
		if light {
			return PerfectConfidence
		}
		if !bold {
			return LowConfidence
		}
	case text.Bold:
		if bold {
			return PerfectConfidence
		}
	}
	return NoConfidence
}
