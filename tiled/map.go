package tiled

import (
	"io"
	"io/fs"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

type Orientation int

const (
	Orthogonal Orientation = iota
	Isometric
	Staggered
	Hexagonal
)

func (o Orientation) String() string {
	switch o {
	case Orthogonal:
		return "orthogonal"
	case Isometric:
		return "isometric"
	case Staggered:
		return "staggered"
	case Hexagonal:
		return "hexagonal"
	default:
		return "unknown"
	}
}

func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "orthogonal":
		return Orthogonal, nil
	case "isometric":
		return Isometric, nil
	case "staggered":
		return Staggered, nil
	case "hexagonal":
		return Hexagonal, nil
	default:
		return 0, parseErrorf("unknown orientation %q", s)
	}
}

// Map is a decoded Tiled map.
type Map struct {
	// Version of the file format, e.g. "1.2".
	Version string
	// TiledVersion is the editor version that saved the file, if recorded.
	TiledVersion string
	Orientation  Orientation
	// Number of tile columns.
	Width uint32
	// Number of tile rows.
	Height uint32
	// Size of a grid cell in pixels.
	TileWidth       uint32
	TileHeight      uint32
	Tilesets        []Tileset
	Layers          []Layer
	BackgroundColor *Color
	Properties      Properties
}

// TilesetFor returns the tileset a global tile id belongs to: the one with
// the highest first gid not above gid.
func (m *Map) TilesetFor(gid uint32) (*Tileset, bool) {
	var found *Tileset
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		if ts.FirstGID <= gid && (found == nil || ts.FirstGID > found.FirstGID) {
			found = ts
		}
	}
	return found, found != nil
}

// Layer returns the first layer with the given name.
func (m *Map) Layer(name string) (*Layer, bool) {
	for i := range m.Layers {
		if m.Layers[i].Name == name {
			return &m.Layers[i], true
		}
	}
	return nil, false
}

type mapRecord struct {
	Version         json.RawMessage   `json:"version"`
	TiledVersion    string            `json:"tiledversion"`
	Orientation     string            `json:"orientation"`
	Width           uint32            `json:"width"`
	Height          uint32            `json:"height"`
	TileWidth       uint32            `json:"tilewidth"`
	TileHeight      uint32            `json:"tileheight"`
	Tilesets        []Tileset         `json:"tilesets"`
	Layers          []json.RawMessage `json:"layers"`
	BackgroundColor *string           `json:"backgroundcolor"`
	Properties      Properties        `json:"properties"`
}

// Decode reads a whole Tiled JSON map from r.
func Decode(r io.Reader) (*Map, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, parseError(err, "read map")
	}
	return DecodeBytes(b)
}

// DecodeFile reads and decodes the map at path.
func DecodeFile(path string) (*Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindFormat, Err: errors.Wrapf(err, "open %s", path)}
	}
	return DecodeBytes(b)
}

// DecodeFS reads and decodes the map called name from fsys.
func DecodeFS(fsys fs.FS, name string) (*Map, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, &Error{Kind: KindFormat, Err: errors.Wrapf(err, "open %s", name)}
	}
	return DecodeBytes(b)
}

// DecodeBytes decodes a Tiled JSON map. Either the whole map decodes or an
// *Error is returned; there are no partial maps.
func DecodeBytes(b []byte) (*Map, error) {
	var rec mapRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, parseError(err, "map")
	}

	version, err := decodeVersion(rec.Version)
	if err != nil {
		return nil, err
	}
	orientation, err := ParseOrientation(rec.Orientation)
	if err != nil {
		return nil, err
	}
	background, err := parseOptionalColor(rec.BackgroundColor)
	if err != nil {
		return nil, errors.Wrap(err, "backgroundcolor")
	}

	layers := make([]Layer, 0, len(rec.Layers))
	for i, raw := range rec.Layers {
		layer, err := decodeLayer(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "layers[%d]", i)
		}
		layers = append(layers, layer)
	}

	return &Map{
		Version:         version,
		TiledVersion:    rec.TiledVersion,
		Orientation:     orientation,
		Width:           rec.Width,
		Height:          rec.Height,
		TileWidth:       rec.TileWidth,
		TileHeight:      rec.TileHeight,
		Tilesets:        rec.Tilesets,
		Layers:          layers,
		BackgroundColor: background,
		Properties:      rec.Properties,
	}, nil
}
