/*
Package buffer implements the document model of the editor: a text stored
in a rope, together with a registry of cursors which follow edits.

Positions within a buffer are character offsets, i.e. counts of Unicode
scalar values. Cursors never rest inside a grapheme cluster.

Cursors

Cursors are handed out by CursorAt. Asking for a cursor at a position where
a cursor already rests returns a handle to the same cursor record. Handles
are released explicitly; a record without handles is removed from the
registry the next time the registry is touched. A released handle must not
be used any more.

All edits go through the buffer, which moves every live cursor accordingly.
A Buffer is not safe for concurrent use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package buffer

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'tyed.buffer'.
func tracer() tracing.Trace {
	return tracing.Select("tyed.buffer")
}
