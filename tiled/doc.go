// Package tiled decodes maps saved in the Tiled editor's JSON format.
//
// Layers resolve to *TileLayer, *ImageLayer or *ObjectGroup from their
// "type" field. Object shapes have no such field and are recognised from
// the keys present on the object, falling back to UnknownShape. Tile data
// may be a plain array of ids or base64 text, optionally zlib, gzip or
// zstd compressed; either way it ends up as a flat row-major []uint32.
//
// Decoding is one-way and keeps no state between calls.
package tiled
