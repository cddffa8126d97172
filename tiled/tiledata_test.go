package tiled

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

func tileBytes(tiles []uint32) []byte {
	raw := make([]byte, 4*len(tiles))
	for i, id := range tiles {
		binary.LittleEndian.PutUint32(raw[4*i:], id)
	}
	return raw
}

func compress(t *testing.T, raw []byte, comp Compression) []byte {
	t.Helper()

	var buf bytes.Buffer
	switch comp {
	case CompressionNone:
		return raw
	case CompressionZlib:
		w := zlib.NewWriter(&buf)
		_, err := w.Write(raw)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case CompressionGzip:
		w := gzip.NewWriter(&buf)
		_, err := w.Write(raw)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		out := enc.EncodeAll(raw, nil)
		require.NoError(t, enc.Close())
		return out
	default:
		t.Fatalf("unexpected compression %v", comp)
	}
	return buf.Bytes()
}

// base64Data builds the JSON string literal Tiled would write for tiles.
func base64Data(t *testing.T, raw []byte, comp Compression) []byte {
	t.Helper()
	return []byte(strconv.Quote(base64.StdEncoding.EncodeToString(compress(t, raw, comp))))
}

var sampleTiles = []uint32{1, 2, 3, 0, 0, 7, 0x80000005, 4294967295, 12, 0, 9, 1}

func TestDecodeTileDataBase64RoundTrip(t *testing.T) {
	for _, comp := range []Compression{CompressionNone, CompressionZlib, CompressionGzip, CompressionZstd} {
		t.Run(comp.String(), func(t *testing.T) {
			data := base64Data(t, tileBytes(sampleTiles), comp)
			got, err := DecodeTileData(data, 4, 3, EncodingBase64, comp)
			require.NoError(t, err)
			require.Equal(t, sampleTiles, got)
		})
	}
}

func TestDecodeTileDataCrossEncoding(t *testing.T) {
	csv := []byte(`[1, 2, 3, 0, 0, 7, 2147483653, 4294967295, 12, 0, 9, 1]`)
	fromCSV, err := DecodeTileData(csv, 4, 3, EncodingCSV, CompressionNone)
	require.NoError(t, err)

	fromZlib, err := DecodeTileData(base64Data(t, tileBytes(sampleTiles), CompressionZlib), 4, 3, EncodingBase64, CompressionZlib)
	require.NoError(t, err)

	require.Equal(t, fromCSV, fromZlib)
}

func TestDecodeTileDataCSV(t *testing.T) {
	cases := []struct {
		name string
		data string
		want []uint32
	}{
		{"plain", `[0, 1, 2, 3]`, []uint32{0, 1, 2, 3}},
		{"stray_string", `[1, "x", 2, 3]`, []uint32{1, 2, 3}},
		{"skips_non_integers", `[5, -1, 1.5, null, true, {}, [], "6", 1e3, 6]`, []uint32{5, 6}},
		{"empty", `[]`, []uint32{}},
		{"wraps_to_u32", `[4294967296]`, []uint32{0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := DecodeTileData([]byte(c.data), 2, 2, EncodingCSV, CompressionNone)
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestDecodeTileDataLengthNotEnforced(t *testing.T) {
	short, err := DecodeTileData([]byte(`[1, 2]`), 10, 10, EncodingCSV, CompressionNone)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2}, short)

	long, err := DecodeTileData(base64Data(t, tileBytes(sampleTiles), CompressionNone), 1, 1, EncodingBase64, CompressionNone)
	require.NoError(t, err)
	require.Equal(t, sampleTiles, long)

	// A huge header must not turn into a huge allocation.
	huge, err := DecodeTileData([]byte(`[3]`), 1<<31, 1<<31, EncodingCSV, CompressionNone)
	require.NoError(t, err)
	require.Equal(t, []uint32{3}, huge)
}

func TestDecodeTileDataTrimsWhitespace(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(tileBytes([]uint32{42, 43}))
	data := []byte(strconv.Quote("\n   " + encoded + "  \n"))

	got, err := DecodeTileData(data, 2, 1, EncodingBase64, CompressionNone)
	require.NoError(t, err)
	require.Equal(t, []uint32{42, 43}, got)
}

func TestDecodeTileDataErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		enc  Encoding
		comp Compression
		kind error
	}{
		{"csv_not_array", []byte(`"AAAA"`), EncodingCSV, CompressionNone, ErrFormat},
		{"csv_null", []byte(`null`), EncodingCSV, CompressionNone, ErrFormat},
		{"csv_missing", nil, EncodingCSV, CompressionNone, ErrFormat},
		{"base64_not_string", []byte(`[1, 2]`), EncodingBase64, CompressionNone, ErrFormat},
		{"base64_invalid", []byte(`"not*base64"`), EncodingBase64, CompressionNone, ErrBase64},
		{"partial_tile_id", base64Data(t, []byte{1, 0, 0, 0, 2}, CompressionNone), EncodingBase64, CompressionNone, ErrFormat},
		{"partial_tile_id_after_inflate", base64Data(t, []byte{1, 0, 0, 0, 2, 0}, CompressionZlib), EncodingBase64, CompressionZlib, ErrFormat},
		{"zlib_garbage", base64Data(t, []byte("definitely not zlib"), CompressionNone), EncodingBase64, CompressionZlib, ErrDecompress},
		{"gzip_garbage", base64Data(t, []byte("definitely not gzip"), CompressionNone), EncodingBase64, CompressionGzip, ErrDecompress},
		{"zstd_garbage", base64Data(t, []byte("definitely not zstd"), CompressionNone), EncodingBase64, CompressionZstd, ErrDecompress},
		{"gzip_as_zlib", base64Data(t, tileBytes(sampleTiles), CompressionGzip), EncodingBase64, CompressionZlib, ErrDecompress},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := DecodeTileData(c.data, 2, 2, c.enc, c.comp)
			require.Error(t, err)
			require.Nil(t, got)
			require.ErrorIs(t, err, c.kind)
		})
	}
}

func TestDecodeTileDataTruncatedZlib(t *testing.T) {
	full := compress(t, tileBytes(sampleTiles), CompressionZlib)
	truncated := full[:len(full)/2]
	data := []byte(strconv.Quote(base64.StdEncoding.EncodeToString(truncated)))

	_, err := DecodeTileData(data, 4, 3, EncodingBase64, CompressionZlib)
	require.ErrorIs(t, err, ErrDecompress)

	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindDecompress, kind)
}

func TestParseEncodingAndCompression(t *testing.T) {
	encodings := map[string]Encoding{"": EncodingCSV, "csv": EncodingCSV, "base64": EncodingBase64}
	for in, want := range encodings {
		got, err := ParseEncoding(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseEncoding("xml")
	require.ErrorIs(t, err, ErrParse)

	compressions := map[string]Compression{
		"":     CompressionNone,
		"zlib": CompressionZlib,
		"gzip": CompressionGzip,
		"zstd": CompressionZstd,
	}
	for in, want := range compressions {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err = ParseCompression("lz4")
	require.ErrorIs(t, err, ErrParse)
}
