package tiled

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const smallMap = `{
	"version": 1.2,
	"tiledversion": "1.2.1",
	"orientation": "orthogonal",
	"width": 3,
	"height": 2,
	"tilewidth": 16,
	"tileheight": 16,
	"backgroundcolor": "#80102030",
	"properties": [
		{"name":"pi","type":"float","value":3.14},
		{"name":"answer","type":"int","value":42}
	],
	"tilesets": [
		{
			"firstgid": 1, "name": "terrain", "tilewidth": 16, "tileheight": 16,
			"spacing": 1, "margin": 2, "columns": 8, "tilecount": 64, "image": "terrain.png",
			"tiles": [{"id": 3, "animation": [{"tileid": 3, "duration": 100}, {"tileid": 4, "duration": 100}]}]
		},
		{"firstgid": 65, "source": "props.tsj"}
	],
	"layers": [
		{
			"name": "ground", "type": "tilelayer", "opacity": 0.5, "visible": true,
			"width": 3, "height": 2, "data": [1, 2, 3, 4, 5, 6]
		},
		{
			"name": "sky", "type": "imagelayer", "opacity": 1, "visible": false,
			"offsetx": 4, "offsety": -2, "image": "sky.png", "transparentcolor": "#ff00ff"
		},
		{
			"name": "things", "type": "objectgroup", "opacity": 1, "visible": true, "color": "#00ff00",
			"objects": [
				{"id": 1, "name": "spawn", "type": "", "x": 8, "y": 8, "rotation": 0, "visible": true, "point": true},
				{"id": 2, "name": "wall", "type": "solid", "x": 0, "y": 16, "rotation": 0, "visible": true, "width": 48, "height": 16}
			],
			"properties": [{"name":"collision","type":"bool","value":true}]
		}
	]
}`

func TestDecodeBytes(t *testing.T) {
	m, err := DecodeBytes([]byte(smallMap))
	require.NoError(t, err)

	require.Equal(t, "1.2", m.Version)
	require.Equal(t, "1.2.1", m.TiledVersion)
	require.Equal(t, Orthogonal, m.Orientation)
	require.Equal(t, uint32(3), m.Width)
	require.Equal(t, uint32(2), m.Height)
	require.Equal(t, uint32(16), m.TileWidth)
	require.Equal(t, uint32(16), m.TileHeight)
	require.Equal(t, &Color{0x10, 0x20, 0x30, 0x80}, m.BackgroundColor)
	require.Equal(t, FloatProperty(3.14), m.Properties["pi"])
	require.Equal(t, IntProperty(42), m.Properties["answer"])

	require.Len(t, m.Tilesets, 2)
	require.Equal(t, "terrain", m.Tilesets[0].Name)
	require.Equal(t, uint32(1), m.Tilesets[0].Spacing)
	require.Equal(t, uint32(2), m.Tilesets[0].Margin)
	require.Equal(t, []Frame{{TileID: 3, Duration: 100}, {TileID: 4, Duration: 100}}, m.Tilesets[0].Tiles[0].Animation)
	require.Equal(t, "props.tsj", m.Tilesets[1].Source)

	require.Len(t, m.Layers, 3)

	ground, ok := m.Layers[0].TileLayer()
	require.True(t, ok)
	require.Equal(t, float32(0.5), m.Layers[0].Opacity)
	require.Equal(t, []uint32{1, 2, 3, 4, 5, 6}, ground.Tiles)
	id, ok := ground.TileAt(2, 1)
	require.True(t, ok)
	require.Equal(t, uint32(6), id)
	_, ok = ground.TileAt(3, 0)
	require.False(t, ok)

	sky, ok := m.Layers[1].ImageLayer()
	require.True(t, ok)
	require.False(t, m.Layers[1].Visible)
	require.Equal(t, &ImageLayer{
		OffsetX:          4,
		OffsetY:          -2,
		TransparentColor: &Color{0xff, 0x00, 0xff, 0xff},
		Image:            "sky.png",
	}, sky)

	things, ok := m.Layers[2].ObjectGroup()
	require.True(t, ok)
	require.Equal(t, &Color{0x00, 0xff, 0x00, 0xff}, things.Color)
	require.Len(t, things.Objects, 2)
	require.Equal(t, PointShape{}, things.Objects[0].Shape)
	require.Equal(t, RectShape{Width: 48, Height: 16}, things.Objects[1].Shape)
	collision, ok := m.Layers[2].Properties.Bool("collision")
	require.True(t, ok)
	require.True(t, collision)

	layer, ok := m.Layer("sky")
	require.True(t, ok)
	require.Equal(t, "imagelayer", layer.Data.LayerType())
	_, ok = m.Layer("missing")
	require.False(t, ok)
}

func TestMapTilesetFor(t *testing.T) {
	m, err := DecodeBytes([]byte(smallMap))
	require.NoError(t, err)

	ts, ok := m.TilesetFor(3)
	require.True(t, ok)
	require.Equal(t, "terrain", ts.Name)
	require.True(t, ts.Contains(64))
	require.False(t, ts.Contains(65))

	ts, ok = m.TilesetFor(70)
	require.True(t, ok)
	require.Equal(t, "props.tsj", ts.Source)

	_, ok = m.TilesetFor(0)
	require.False(t, ok)
}

func TestDecodeLayerDefaults(t *testing.T) {
	layer, err := decodeLayer([]byte(`{"name":"bare","type":"tilelayer","width":1,"height":1,"data":[9]}`))
	require.NoError(t, err)
	require.Equal(t, float32(1), layer.Opacity)
	require.True(t, layer.Visible)
	require.Nil(t, layer.Properties)
}

func TestDecodeLayerErrors(t *testing.T) {
	cases := []struct {
		name string
		json string
		kind error
	}{
		{"missing_type", `{"name":"x"}`, ErrFormat},
		{"unknown_type", `{"name":"x","type":"group"}`, ErrFormat},
		{"tilelayer_without_size", `{"name":"x","type":"tilelayer","data":[]}`, ErrParse},
		{"tilelayer_bad_encoding", `{"name":"x","type":"tilelayer","width":1,"height":1,"encoding":"xml","data":""}`, ErrParse},
		{"tilelayer_data_not_array", `{"name":"x","type":"tilelayer","width":1,"height":1,"data":"AAAA"}`, ErrFormat},
		{"tilelayer_bad_base64", `{"name":"x","type":"tilelayer","width":1,"height":1,"encoding":"base64","data":"@@@"}`, ErrBase64},
		{"tilelayer_bad_zlib", `{"name":"x","type":"tilelayer","width":1,"height":1,"encoding":"base64","compression":"zlib","data":"AAAAAA=="}`, ErrDecompress},
		{"imagelayer_bad_color", `{"name":"x","type":"imagelayer","image":"a.png","transparentcolor":"#12"}`, ErrFormat},
		{"objectgroup_bad_object", `{"name":"x","type":"objectgroup","objects":[{"id":"one"}]}`, ErrParse},
		{"not_an_object", `42`, ErrParse},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := decodeLayer([]byte(c.json))
			require.Error(t, err)
			require.ErrorIs(t, err, c.kind)
		})
	}
}

func TestDecodeBytesLayerErrorFailsMap(t *testing.T) {
	bad := strings.Replace(smallMap, `"data": [1, 2, 3, 4, 5, 6]`, `"encoding": "base64", "data": "AAAAAAA="`, 1)

	m, err := DecodeBytes([]byte(bad))
	require.Nil(t, m)
	require.ErrorIs(t, err, ErrFormat)
	require.Contains(t, err.Error(), "layers[0]")
	require.Contains(t, err.Error(), `"ground"`)

	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindFormat, kind)

	var te *Error
	require.True(t, errors.As(err, &te))
	require.Equal(t, KindFormat, te.Kind)
}

func TestDecodeBytesErrors(t *testing.T) {
	cases := []struct {
		name string
		json string
		kind error
	}{
		{"not_json", `{"version": `, ErrParse},
		{"missing_version", `{"orientation":"orthogonal"}`, ErrParse},
		{"bad_orientation", `{"version":1,"orientation":"diagonal"}`, ErrParse},
		{"bad_background", `{"version":1,"orientation":"isometric","backgroundcolor":"#1"}`, ErrFormat},
		{"bad_width", `{"version":1,"orientation":"isometric","width":"wide"}`, ErrParse},
		{"layer_without_type", `{"version":1,"orientation":"isometric","layers":[{"name":"x"}]}`, ErrFormat},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := DecodeBytes([]byte(c.json))
			require.Nil(t, m)
			require.ErrorIs(t, err, c.kind)
		})
	}
}

func TestDecodeReaderFileAndFS(t *testing.T) {
	fromReader, err := Decode(bytes.NewReader([]byte(smallMap)))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "small.json")
	require.NoError(t, os.WriteFile(path, []byte(smallMap), 0o644))
	fromFile, err := DecodeFile(path)
	require.NoError(t, err)
	require.Equal(t, fromReader, fromFile)

	fsys := fstest.MapFS{"maps/small.json": &fstest.MapFile{Data: []byte(smallMap)}}
	fromFS, err := DecodeFS(fsys, "maps/small.json")
	require.NoError(t, err)
	require.Equal(t, fromReader, fromFS)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, ErrFormat)
	require.True(t, os.IsNotExist(errors.Cause(err)))

	_, err = DecodeFS(fsys, "nope.json")
	require.ErrorIs(t, err, ErrFormat)
}

func TestDecodeBytesIsolatedResults(t *testing.T) {
	a, err := DecodeBytes([]byte(smallMap))
	require.NoError(t, err)
	b, err := DecodeBytes([]byte(smallMap))
	require.NoError(t, err)

	ta, _ := a.Layers[0].TileLayer()
	tb, _ := b.Layers[0].TileLayer()
	ta.Tiles[0] = 99
	require.Equal(t, uint32(1), tb.Tiles[0])
}
