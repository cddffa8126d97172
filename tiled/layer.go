package tiled

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Layer is one entry of the map's layer list.
type Layer struct {
	Name string
	// Opacity runs from 0 to 1 and defaults to 1.
	Opacity float32
	Visible bool
	// Data is *TileLayer, *ImageLayer or *ObjectGroup depending on the layer type.
	Data       LayerData
	Properties Properties
}

// LayerData is the type-specific part of a layer.
type LayerData interface {
	LayerType() string
	layerData()
}

// TileLayer holds a grid of tile ids in row-major order.
type TileLayer struct {
	// Column count. Same as the map width for fixed-size maps.
	Width uint32
	// Row count. Same as the map height for fixed-size maps.
	Height uint32
	Tiles  []uint32
}

// TileAt returns the tile id at x, y, i.e. Tiles[x + y*Width].
func (l *TileLayer) TileAt(x, y uint32) (uint32, bool) {
	if x >= l.Width || y >= l.Height {
		return 0, false
	}
	idx := uint64(x) + uint64(y)*uint64(l.Width)
	if idx >= uint64(len(l.Tiles)) {
		return 0, false
	}
	return l.Tiles[idx], true
}

type ImageLayer struct {
	OffsetX          float32
	OffsetY          float32
	TransparentColor *Color
	Image            string
}

type ObjectGroup struct {
	Objects []Object
	Color   *Color
}

func (*TileLayer) LayerType() string   { return "tilelayer" }
func (*ImageLayer) LayerType() string  { return "imagelayer" }
func (*ObjectGroup) LayerType() string { return "objectgroup" }

func (*TileLayer) layerData()   {}
func (*ImageLayer) layerData()  {}
func (*ObjectGroup) layerData() {}

// TileLayer returns the layer's tile data if it is a tile layer.
func (l Layer) TileLayer() (*TileLayer, bool) {
	tl, ok := l.Data.(*TileLayer)
	return tl, ok
}

// ImageLayer returns the layer's image data if it is an image layer.
func (l Layer) ImageLayer() (*ImageLayer, bool) {
	il, ok := l.Data.(*ImageLayer)
	return il, ok
}

// ObjectGroup returns the layer's objects if it is an object group.
func (l Layer) ObjectGroup() (*ObjectGroup, bool) {
	og, ok := l.Data.(*ObjectGroup)
	return og, ok
}

type layerHeader struct {
	Name       string     `json:"name"`
	Opacity    *float32   `json:"opacity"`
	Visible    *bool      `json:"visible"`
	Type       *string    `json:"type"`
	Properties Properties `json:"properties"`
}

var layerDecoders = map[string]func(r record) (LayerData, error){
	"tilelayer":   decodeTileLayer,
	"imagelayer":  decodeImageLayer,
	"objectgroup": decodeObjectGroup,
}

func decodeLayer(raw []byte) (Layer, error) {
	r, err := newRecord(raw)
	if err != nil {
		return Layer{}, err
	}

	var h layerHeader
	if err := r.decode(&h); err != nil {
		return Layer{}, err
	}
	if h.Type == nil {
		return Layer{}, formatErrorf("layer %q has no type", h.Name)
	}
	decode, ok := layerDecoders[*h.Type]
	if !ok {
		return Layer{}, formatErrorf("layer %q has unknown type %q", h.Name, *h.Type)
	}

	data, err := decode(r)
	if err != nil {
		return Layer{}, errors.Wrapf(err, "%s %q", *h.Type, h.Name)
	}

	layer := Layer{
		Name:       h.Name,
		Opacity:    1,
		Visible:    true,
		Data:       data,
		Properties: h.Properties,
	}
	if h.Opacity != nil {
		layer.Opacity = *h.Opacity
	}
	if h.Visible != nil {
		layer.Visible = *h.Visible
	}
	return layer, nil
}

// tileLayerRecord is the tile layer as written in the file, before the
// data field has been run through the codec.
type tileLayerRecord struct {
	Width       *uint32         `json:"width"`
	Height      *uint32         `json:"height"`
	Data        json.RawMessage `json:"data"`
	Encoding    string          `json:"encoding"`
	Compression string          `json:"compression"`
}

func decodeTileLayer(r record) (LayerData, error) {
	var rec tileLayerRecord
	if err := r.decode(&rec); err != nil {
		return nil, err
	}
	if rec.Width == nil || rec.Height == nil {
		return nil, parseErrorf("tile layer needs width and height")
	}
	enc, err := ParseEncoding(rec.Encoding)
	if err != nil {
		return nil, err
	}
	comp, err := ParseCompression(rec.Compression)
	if err != nil {
		return nil, err
	}

	tiles, err := DecodeTileData(rec.Data, *rec.Width, *rec.Height, enc, comp)
	if err != nil {
		return nil, err
	}
	return &TileLayer{Width: *rec.Width, Height: *rec.Height, Tiles: tiles}, nil
}

type imageLayerRecord struct {
	OffsetX          float32 `json:"offsetx"`
	OffsetY          float32 `json:"offsety"`
	TransparentColor *string `json:"transparentcolor"`
	Image            string  `json:"image"`
}

func decodeImageLayer(r record) (LayerData, error) {
	var rec imageLayerRecord
	if err := r.decode(&rec); err != nil {
		return nil, err
	}
	transparent, err := parseOptionalColor(rec.TransparentColor)
	if err != nil {
		return nil, errors.Wrap(err, "transparentcolor")
	}
	return &ImageLayer{
		OffsetX:          rec.OffsetX,
		OffsetY:          rec.OffsetY,
		TransparentColor: transparent,
		Image:            rec.Image,
	}, nil
}

type objectGroupRecord struct {
	Objects []json.RawMessage `json:"objects"`
	Color   *string           `json:"color"`
}

func decodeObjectGroup(r record) (LayerData, error) {
	var rec objectGroupRecord
	if err := r.decode(&rec); err != nil {
		return nil, err
	}
	color, err := parseOptionalColor(rec.Color)
	if err != nil {
		return nil, errors.Wrap(err, "color")
	}

	objects := make([]Object, 0, len(rec.Objects))
	for i, raw := range rec.Objects {
		obj, err := decodeObject(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "objects[%d]", i)
		}
		objects = append(objects, obj)
	}
	return &ObjectGroup{Objects: objects, Color: color}, nil
}
