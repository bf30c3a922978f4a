package editor

import (
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/tyed/engine/frame/line"
	"github.com/npillmayer/tyed/engine/glyphing"
	"github.com/npillmayer/tyed/engine/glyphing/fontcore"
	"github.com/npillmayer/tyed/engine/text"
	"golang.org/x/text/language"
)

// Settings are the editor's configurable values.
type Settings struct {
	TabSize        int
	TextSize       text.Size
	GutterTextSize text.Size
	DPI            text.DPI
	FixedFont      string // empty for the packaged Go Mono
	VariableFont   string // empty for the packaged Go Sans
	Ligatures      bool
	Language       language.Tag
}

// DefaultSettings returns the settings used for unconfigured values.
func DefaultSettings() Settings {
	return Settings{
		TabSize:        text.DefaultTabSize,
		TextSize:       text.TextSize,
		GutterTextSize: text.GutterTextSize,
		DPI:            text.DefaultDPI,
		Ligatures:      true,
	}
}

// SettingsFrom reads settings from a configuration. Keys are "tabsize",
// "text-size", "gutter-text-size" (in points), "dpi", "font-fixed",
// "font-variable", "ligatures" and "language" (a BCP 47 tag). Missing or
// invalid values are replaced by defaults.
func SettingsFrom(conf schuko.Configuration) Settings {
	s := DefaultSettings()
	if conf == nil {
		return s
	}
	positive := func(key string) (int, bool) {
		if !conf.IsSet(key) {
			return 0, false
		}
		v := conf.GetInt(key)
		if v <= 0 {
			tracer().Errorf("configuration value %s=%d ignored", key, v)
			return 0, false
		}
		return v, true
	}
	if v, ok := positive("tabsize"); ok {
		s.TabSize = v
	}
	if v, ok := positive("text-size"); ok {
		s.TextSize = text.SizeFromPoints(float32(v))
	}
	if v, ok := positive("gutter-text-size"); ok {
		s.GutterTextSize = text.SizeFromPoints(float32(v))
	}
	if v, ok := positive("dpi"); ok {
		s.DPI = text.UniformDPI(uint32(v))
	}
	if conf.IsSet("font-fixed") {
		s.FixedFont = conf.GetString("font-fixed")
	}
	if conf.IsSet("font-variable") {
		s.VariableFont = conf.GetString("font-variable")
	}
	if conf.IsSet("ligatures") {
		s.Ligatures = conf.GetBool("ligatures")
	}
	if conf.IsSet("language") {
		tag, err := language.Parse(conf.GetString("language"))
		if err != nil {
			tracer().Errorf("configuration value language=%s ignored: %v", conf.GetString("language"), err)
		} else {
			s.Language = tag
		}
	}
	return s
}

// Params returns the shaping parameters for the settings. Script and
// direction are left to the shaper, as is the language if it is undefined.
func (s Settings) Params() glyphing.Params {
	return glyphing.Params{
		Language: s.Language,
		Features: glyphing.Ligatures(s.Ligatures),
	}
}

// LoadFonts loads the configured base fonts into a font service and sets its
// shaping parameters. Fonts which cannot be loaded are replaced by the
// packaged Go fonts.
func (s Settings) LoadFonts(fc *fontcore.Core) line.Fonts {
	fc.SetParams(s.Params())
	load := func(name string, mono bool) glyphing.FontID {
		if name != "" {
			id, err := fc.Load(name)
			if err == nil {
				return id
			}
			tracer().Errorf("cannot load font %s: %v", name, err)
		}
		return fc.LoadPackaged(mono)
	}
	return line.Fonts{
		Fixed:    load(s.FixedFont, true),
		Variable: load(s.VariableFont, false),
	}
}
