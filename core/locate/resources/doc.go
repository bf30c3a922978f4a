/*
Package resources resolves fonts for the editor.

As resource loading may be a time-consuming task, some functions in this
package will work in an async/await fashion by returning a promise.
Functions named

   Resolve…(…)

will return a resource-specific promise type, which the client will call later
to receive the loaded resource. The call to the promise-function will then block
until loading has completed or the context is done.

Fonts are searched for in the following order: the packaged Go fonts, fonts
already present in the font registry, the fontconfig font list (if configured
by key "fontconfig") and finally the platform's font directories.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'tyed.resources'.
func tracer() tracing.Trace {
	return tracing.Select("tyed.resources")
}
