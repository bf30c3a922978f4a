/*
Package monospace implements a font service for fixed character cells.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package monospace

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tyed.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("tyed.glyphs")
}
