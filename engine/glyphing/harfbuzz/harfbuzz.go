/*
Package harfbuzz uses HarfBuzz to convert text to sequences of glyphs.

We use the Go port of HarfBuzz by Benoit Kugler. Shaping results are
converted from font units to pixels of a typecase.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package harfbuzz

import (
	"bytes"
	"encoding/binary"
	"sync"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyed/core/font"
	"github.com/npillmayer/tyed/engine/glyphing"
	"golang.org/x/text/language"
)

// tracer traces with key 'tyed.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("tyed.glyphs")
}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	b[0] = byte(unicode.ToLower(rune(b[0])))
	h := binary.BigEndian.Uint32(b)
	return hblang.Script(h)
}

// Direction4HB translates a direction to a HarfBuzz direction. AutoDirection
// has to be resolved by the caller, see DirectionOf.
func Direction4HB(d glyphing.Direction) hb.Direction {
	switch d {
	case glyphing.LeftToRight:
		return hb.LeftToRight
	case glyphing.RightToLeft:
		return hb.RightToLeft
	case glyphing.TopToBottom:
		return hb.TopToBottom
	case glyphing.BottomToTop:
		return hb.BottomToTop
	}
	return hb.LeftToRight
}

// Feature4HB makes a typecast from a 4-letter OpenType feature tag to a
// HarfBuzz truetype tag. Short tags are padded with spaces.
func Feature4HB(tag string) hbtt.Tag {
	b := []byte("    ")
	copy(b, tag)
	return hbtt.Tag(binary.BigEndian.Uint32(b))
}

// FeatureRange4HB converts a feature range struct to a HarfBuzz Feature switch.
func FeatureRange4HB(frng glyphing.FeatureRange) hb.Feature {
	f := hb.Feature{
		Tag:   Feature4HB(frng.Feature),
		Start: frng.Start,
		End:   frng.End,
	}
	if frng.End < 0 {
		f.End = hb.FeatureGlobalEnd
	}
	if frng.On {
		if frng.Arg > 0 {
			f.Value = uint32(frng.Arg)
		} else {
			f.Value = 1
		}
	}
	return f
}

// ScriptOf returns the script of the first character of runes which
// belongs to a real script, i.e. is neither common nor inherited. If there
// is none, language.Common is returned.
func ScriptOf(runes []rune) hblang.Script {
	for _, r := range runes {
		if s := hblang.LookupScript(r); s.IsRealScript() {
			return s
		}
	}
	return hblang.Common
}

// DirectionOf returns the horizontal writing direction of a script.
func DirectionOf(script hblang.Script) glyphing.Direction {
	switch script {
	case hblang.Arabic, hblang.Hebrew, hblang.Syriac, hblang.Thaana, hblang.Nko,
		hblang.Samaritan, hblang.Mandaic, hblang.Adlam, hblang.Hanifi_Rohingya,
		hblang.Yezidi, hblang.Mende_Kikakui, hblang.Old_South_Arabian,
		hblang.Imperial_Aramaic, hblang.Phoenician, hblang.Kharoshthi:
		return glyphing.RightToLeft
	}
	return glyphing.LeftToRight
}

// --- Shape -----------------------------------------------------------------

// Shaper shapes text with HarfBuzz. It caches a HarfBuzz font per scalable
// font. A Shaper is safe for concurrent use, shaping calls are serialized.
type Shaper struct {
	mx    sync.Mutex
	fonts map[*font.ScalableFont]*hb.Font
}

// NewShaper creates a shaper with an empty font cache.
func NewShaper() *Shaper {
	return &Shaper{fonts: make(map[*font.ScalableFont]*hb.Font)}
}

func (sh *Shaper) hbFont(sf *font.ScalableFont) (*hb.Font, error) {
	if f, ok := sh.fonts[sf]; ok {
		return f, nil
	}
	face, err := hbtt.Parse(bytes.NewReader(sf.Binary), true)
	if err != nil {
		return nil, err
	}
	f := hb.NewFont(face)
	sh.fonts[sf] = f
	return f, nil
}

// Forget drops the HarfBuzz font for sf from the cache.
func (sh *Shaper) Forget(sf *font.ScalableFont) {
	sh.mx.Lock()
	defer sh.mx.Unlock()
	delete(sh.fonts, sf)
}

// Shape calls the HarfBuzz shaper.
//
// Shape shapes a sequence of code-points (runes), turning its Unicode characters to
// positioned glyphs. It will select a shape plan based on params, including the
// selected font, and the properties of the input text. If params does not
// set a script, it is derived from the first character with a real script.
// Without an explicit direction, the script's direction is used. A missing
// language is replaced by the default language of the environment.
//
// If `params.Features` is not empty, it will be used to control the
// features applied during shaping. If two features have the same tag but
// overlapping ranges the value of the feature with the higher index takes
// precedence.
//
// Glyphs are returned in logical order, even for right-to-left runs, and
// their clusters are indices into runes. Advances and offsets are converted
// to pixels of typecase tc, with y growing downwards.
func (sh *Shaper) Shape(tc *font.TypeCase, runes []rune, params glyphing.Params) ([]glyphing.Glyph, error) {
	if tc == nil || len(runes) == 0 {
		return nil, nil
	}
	sh.mx.Lock()
	defer sh.mx.Unlock()
	hbFont, err := sh.hbFont(tc.ScalableFontParent())
	if err != nil {
		return nil, err
	}
	features := make([]hb.Feature, 0, len(params.Features))
	for _, feat := range params.Features {
		features = append(features, FeatureRange4HB(feat))
	}
	buf := hb.NewBuffer()
	buf.AddRunes(runes, 0, len(runes))
	buf.Props = segmentProperties(runes, params)
	buf.Shape(hbFont, features)
	//
	glyphs := make([]glyphing.Glyph, len(buf.Info))
	for i, ginfo := range buf.Info {
		gpos := buf.Pos[i]
		glyphs[i] = glyphing.Glyph{
			GID:     uint32(ginfo.Glyph),
			Cluster: ginfo.Cluster,
		}
		glyphs[i].Advance.X = tc.Scale(int32(gpos.XAdvance))
		glyphs[i].Advance.Y = -tc.Scale(int32(gpos.YAdvance))
		glyphs[i].Offset.X = tc.Scale(int32(gpos.XOffset))
		glyphs[i].Offset.Y = -tc.Scale(int32(gpos.YOffset))
	}
	if d := buf.Props.Direction; d == hb.RightToLeft || d == hb.BottomToTop {
		for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
			glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
		}
	}
	tracer().Debugf("shaped %d runes to %d glyphs", len(runes), len(glyphs))
	return glyphs, nil
}

// segmentProperties converts glyphing parameters to HarfBuzz's format,
// filling in what params leaves unset.
func segmentProperties(runes []rune, params glyphing.Params) hb.SegmentProperties {
	props := hb.SegmentProperties{Language: hblang.DefaultLanguage()}
	if params.Language != language.Und {
		props.Language = Lang4HB(params.Language)
	}
	var none language.Script
	if params.Script != none {
		props.Script = Script4HB(params.Script)
	} else {
		props.Script = ScriptOf(runes)
	}
	dir := params.Direction
	if dir == glyphing.AutoDirection {
		dir = DirectionOf(props.Script)
	}
	props.Direction = Direction4HB(dir)
	return props
}
