/*
Package grapheme finds and navigates grapheme cluster boundaries in text.

A grapheme cluster is what a user perceives as a single character. It may
consist of several code-points, e.g. a base letter plus combining marks,
or an emoji sequence joined by ZWJ. Cursor placement and editing must never
split a cluster, so every position a client stores should be a boundary as
reported by this package.

Offsets come in two flavours: byte offsets into a Go string (functions
without a suffix) and character offsets, i.e. counts of Unicode scalar
values (functions with suffix "Char"). The text buffer addresses content by
characters, while rendering mostly deals with grapheme indices.

Segmentation follows UAX #29 as implemented by github.com/rivo/uniseg.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grapheme
