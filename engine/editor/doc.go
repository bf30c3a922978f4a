/*
Package editor holds the set of open buffers and the settings shared by
them.

A Core is the registry of buffers. Buffers loaded from files are keyed by
their absolute path; empty buffers get a generated name. Names are kept
sorted and may be completed from a prefix, which is what a command line
needs for switching between buffers.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package editor

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'tyed.editor'.
func tracer() tracing.Trace {
	return tracing.Select("tyed.editor")
}
