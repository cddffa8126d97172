package tiled

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Encoding is how a tile layer stores its data. The zero value is CSV,
// which Tiled uses when the field is missing.
type Encoding int

const (
	EncodingCSV Encoding = iota
	EncodingBase64
)

func (e Encoding) String() string {
	switch e {
	case EncodingCSV:
		return "csv"
	case EncodingBase64:
		return "base64"
	default:
		return "Encoding(" + strconv.Itoa(int(e)) + ")"
	}
}

// ParseEncoding maps the layer's "encoding" field. An empty string is CSV.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "csv":
		return EncodingCSV, nil
	case "base64":
		return EncodingBase64, nil
	default:
		return 0, parseErrorf("unknown encoding %q", s)
	}
}

// Compression applies to base64 tile data only. The zero value means none.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZlib
	CompressionGzip
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	default:
		return "Compression(" + strconv.Itoa(int(c)) + ")"
	}
}

// ParseCompression maps the layer's "compression" field. Tiled writes an
// empty string for uncompressed data.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "":
		return CompressionNone, nil
	case "zlib":
		return CompressionZlib, nil
	case "gzip":
		return CompressionGzip, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, parseErrorf("unknown compression %q", s)
	}
}

// DecodeTileData turns a layer's "data" value into a flat row-major slice
// of tile ids. The result length is not checked against width*height.
func DecodeTileData(data json.RawMessage, width, height uint32, enc Encoding, comp Compression) ([]uint32, error) {
	hint := uint64(width) * uint64(height)

	switch enc {
	case EncodingBase64:
		return decodeBase64TileData(data, comp, hint)
	default:
		return decodeCSVTileData(data, hint)
	}
}

// decodeCSVTileData reads a JSON array of numbers. Elements that are not
// non-negative integers are skipped.
func decodeCSVTileData(data json.RawMessage, hint uint64) ([]uint32, error) {
	var values []json.RawMessage
	if isAbsent(data) || json.Unmarshal(data, &values) != nil {
		return nil, formatErrorf("improperly formatted data: expected array of tile ids")
	}

	tiles := make([]uint32, 0, capacity(hint, len(values)))
	for _, v := range values {
		id, ok := csvTileID(v)
		if !ok {
			continue
		}
		tiles = append(tiles, id)
	}
	return tiles, nil
}

func csvTileID(v json.RawMessage) (uint32, bool) {
	n, err := strconv.ParseUint(string(bytes.TrimSpace(v)), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func decodeBase64TileData(data json.RawMessage, comp Compression, hint uint64) ([]uint32, error) {
	var text string
	if isAbsent(data) || json.Unmarshal(data, &text) != nil {
		return nil, formatErrorf("improperly formatted data: expected base64 string")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, base64Error(err)
	}

	raw, err = decompress(raw, comp)
	if err != nil {
		return nil, err
	}

	if len(raw)%4 != 0 {
		return nil, formatErrorf("tile data is %d bytes, not a whole number of 4-byte tile ids", len(raw))
	}

	tiles := make([]uint32, 0, capacity(hint, len(raw)/4))
	for i := 0; i < len(raw); i += 4 {
		tiles = append(tiles, binary.LittleEndian.Uint32(raw[i:i+4]))
	}
	return tiles, nil
}

func decompress(raw []byte, comp Compression) ([]byte, error) {
	switch comp {
	case CompressionNone:
		return raw, nil
	case CompressionZlib:
		r, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, decompressError(err, "zlib")
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, decompressError(err, "zlib")
		}
		return out, nil
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, decompressError(err, "gzip")
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, decompressError(err, "gzip")
		}
		return out, nil
	case CompressionZstd:
		d, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, decompressError(err, "zstd")
		}
		defer d.Close()
		out, err := d.DecodeAll(raw, nil)
		if err != nil {
			return nil, decompressError(err, "zstd")
		}
		return out, nil
	default:
		return nil, formatErrorf("unsupported compression %v", comp)
	}
}

// capacity bounds the width*height hint by what the input can produce.
func capacity(hint uint64, available int) int {
	if hint > uint64(available) {
		return available
	}
	return int(hint)
}
