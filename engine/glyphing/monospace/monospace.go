package monospace

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/tyed/engine/glyphing"
	"github.com/npillmayer/tyed/engine/text"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
)

// Face is a pseudo-font of the monospace service. Covers tells which
// characters the face has glyphs for; a nil Covers accepts every character.
type Face struct {
	Name   string
	Covers func(r rune) bool
}

func (f Face) covers(r rune) bool {
	return f.Covers == nil || f.Covers(r)
}

// Service is a glyphing.FontService for fixed character cells. Every
// grapheme becomes a single glyph, whose advance is one or two cells,
// depending on the East Asian width of the grapheme. Glyph IDs are the
// code-points of the graphemes' first characters.
//
// Service is useful for terminal-like output and for tests which must not
// depend on installed fonts.
type Service struct {
	mx      sync.RWMutex
	faces   []Face
	cell    float64 // cell width in em
	context *uax11.Context
}

var setupClasses sync.Once

// New creates a monospace font service. FontIDs are assigned in the order
// faces are given, starting at 0. A cell width of 0.6 em is used.
func New(faces ...Face) *Service {
	setupClasses.Do(func() { grapheme.SetupGraphemeClasses() })
	return &Service{
		faces:   faces,
		cell:    0.6,
		context: uax11.LatinContext,
	}
}

// Add adds a face and returns its FontID.
func (ms *Service) Add(face Face) glyphing.FontID {
	ms.mx.Lock()
	defer ms.mx.Unlock()
	ms.faces = append(ms.faces, face)
	return glyphing.FontID(len(ms.faces) - 1)
}

// SetContext sets the context for East Asian width calculations.
func (ms *Service) SetContext(ctx *uax11.Context) {
	if ctx != nil {
		ms.context = ctx
	}
}

func (ms *Service) face(f glyphing.FontID) (Face, bool) {
	ms.mx.RLock()
	defer ms.mx.RUnlock()
	if int(f) >= len(ms.faces) {
		return Face{}, false
	}
	return ms.faces[f], true
}

// ResolveForChar returns base if it covers r, otherwise the first face
// covering r. Faces cover characters in every style.
func (ms *Service) ResolveForChar(base glyphing.FontID, style text.Style, r rune) (glyphing.FontID, bool) {
	if face, ok := ms.face(base); ok && face.covers(r) {
		return base, true
	}
	ms.mx.RLock()
	defer ms.mx.RUnlock()
	for i, face := range ms.faces {
		if face.covers(r) {
			tracer().Debugf("monospace face %s covers %#U", face.Name, r)
			return glyphing.FontID(i), true
		}
	}
	return base, false
}

// HasGlyph is part of interface glyphing.FontService.
func (ms *Service) HasGlyph(f glyphing.FontID, style text.Style, r rune) bool {
	face, ok := ms.face(f)
	return ok && face.covers(r)
}

// Metrics is part of interface glyphing.FontService. All faces share the
// same metrics.
func (ms *Service) Metrics(f glyphing.FontID, style text.Style, size text.Size, dpi text.DPI) glyphing.Metrics {
	em, _ := size.PixelsPerEm(dpi)
	m := glyphing.Metrics{
		Ascender:           round(0.8 * float64(em)),
		Descender:          -round(0.2 * float64(em)),
		AdvanceWidth:       ms.cellWidth(size, dpi),
		UnderlinePos:       -round(0.1 * float64(em)),
		UnderlineThickness: round(float64(em) / 20),
	}
	if m.Ascender < 1 {
		m.Ascender = 1
	}
	if m.UnderlineThickness < 1 {
		m.UnderlineThickness = 1
	}
	return m
}

func (ms *Service) cellWidth(size text.Size, dpi text.DPI) int {
	em, _ := size.PixelsPerEm(dpi)
	w := round(ms.cell * float64(em))
	if w < 1 {
		return 1
	}
	return w
}

// Shape is part of interface glyphing.FontService.
func (ms *Service) Shape(f glyphing.FontID, style text.Style, size text.Size, dpi text.DPI,
	runes []rune) []glyphing.Glyph {
	//
	if len(runes) == 0 {
		return nil
	}
	cell := ms.cellWidth(size, dpi)
	onGraphemes := grapheme.NewBreaker(1)
	splitter := segment.NewSegmenter(onGraphemes)
	splitter.Init(strings.NewReader(string(runes)))
	glyphs := make([]glyphing.Glyph, 0, len(runes))
	cluster := 0
	for splitter.Next() {
		grphm := splitter.Bytes()
		codepoint, _ := utf8.DecodeRune(grphm)
		w := uax11.Width(grphm, ms.context)
		g := glyphing.Glyph{
			GID:     uint32(codepoint),
			Cluster: cluster,
		}
		g.Advance.X = w * cell
		glyphs = append(glyphs, g)
		cluster += utf8.RuneCount(grphm)
	}
	return glyphs
}

func round(x float64) int {
	return int(math.Round(x))
}

var _ glyphing.FontService = (*Service)(nil)
