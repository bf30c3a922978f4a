/*
Package rope implements an immutable rope of Unicode text.

A rope is a height-balanced binary tree of text chunks. Every node carries a
summary of its subtree (bytes, characters, line breaks), which makes
conversions between character positions and line numbers O(log n).
Edits return a new rope and leave the receiver untouched; unchanged
subtrees are shared between versions.

Line breaks are the Unicode mandatory breaks LF, VT, FF, CR, NEL, LS and
PS, with CR LF counting as a single break. A chunk boundary never
separates a CR from a following LF.

Positions are character offsets, i.e. counts of Unicode scalar values.
Clients are responsible for placing positions on grapheme boundaries.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rope
