package collision

import (
	"math"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tiledjson/tiled"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	CollisionTypeTile cp.CollisionType = iota + 1
	CollisionTypeObject
	CollisionTypeSensor
)

// CollisionProperty marks a layer as solid when no layer names are given.
const CollisionProperty = "collision"

// SensorProperty on an object turns its shape into a sensor.
const SensorProperty = "sensor"

const ellipseSegments = 16

var ErrNoTileSize = errors.New("collision: map has no tile size")

// Options selects which layers become collision geometry.
type Options struct {
	// TileLayers names the solid tile layers. When empty, tile layers with a
	// true "collision" property are used.
	TileLayers []string
	// ObjectGroups names the object groups to build shapes from. When empty,
	// object groups with a true "collision" property are used.
	ObjectGroups []string
	// TileSize overrides the map's tile width and height when non-zero.
	TileSize float64
	Friction float64
	Logger   *zerolog.Logger
}

// Owner says where a shape came from.
type Owner struct {
	Layer    string
	ObjectID uint32
	// Tile bounds in grid cells for merged tile boxes.
	TileX, TileY, TileW, TileH int
}

type World struct {
	space  *cp.Space
	shapes []*cp.Shape
	owners map[*cp.Shape]Owner
	types  map[*cp.Shape]cp.CollisionType

	tileW, tileH float64
	friction     float64
}

// NewWorld builds a static chipmunk space from the solid layers of m.
func NewWorld(m *tiled.Map, opts Options) (*World, error) {
	if m == nil {
		return nil, errors.New("collision: nil map")
	}

	w := &World{
		space:    cp.NewSpace(),
		owners:   make(map[*cp.Shape]Owner),
		types:    make(map[*cp.Shape]cp.CollisionType),
		tileW:    float64(m.TileWidth),
		tileH:    float64(m.TileHeight),
		friction: opts.Friction,
	}
	if opts.TileSize > 0 {
		w.tileW, w.tileH = opts.TileSize, opts.TileSize
	}
	if w.friction == 0 {
		w.friction = 0.8
	}

	for _, layer := range m.Layers {
		switch data := layer.Data.(type) {
		case *tiled.TileLayer:
			if !selected(layer, opts.TileLayers) {
				continue
			}
			if w.tileW <= 0 || w.tileH <= 0 {
				return nil, ErrNoTileSize
			}
			w.addTileLayer(layer.Name, data)
		case *tiled.ObjectGroup:
			if !selected(layer, opts.ObjectGroups) {
				continue
			}
			for i := range data.Objects {
				w.addObject(layer.Name, &data.Objects[i])
			}
		}
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger.Debug().
		Int("shapes", len(w.shapes)).
		Float64("tile_w", w.tileW).
		Float64("tile_h", w.tileH).
		Msg("collision world built")

	return w, nil
}

func selected(layer tiled.Layer, names []string) bool {
	if len(names) > 0 {
		return slices.Contains(names, layer.Name)
	}
	solid, _ := layer.Properties.Bool(CollisionProperty)
	return solid
}

func (w *World) Space() *cp.Space { return w.space }

func (w *World) Shapes() []*cp.Shape { return w.shapes }

// Owner returns where shape came from.
func (w *World) Owner(shape *cp.Shape) (Owner, bool) {
	o, ok := w.owners[shape]
	return o, ok
}

// TypeOf returns the collision type the world assigned to shape.
func (w *World) TypeOf(shape *cp.Shape) cp.CollisionType {
	return w.types[shape]
}

// At returns the owner of a shape containing the point, if any.
func (w *World) At(x, y float64) (Owner, bool) {
	info := w.space.PointQueryNearest(cp.Vector{X: x, Y: y}, 0, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return Owner{}, false
	}
	return w.Owner(info.Shape)
}

func (w *World) add(shape *cp.Shape, typ cp.CollisionType, owner Owner) {
	shape.SetFriction(w.friction)
	shape.SetCollisionType(typ)
	w.space.AddShape(shape)
	w.shapes = append(w.shapes, shape)
	w.owners[shape] = owner
	w.types[shape] = typ
}

// addTileLayer merges contiguous non-empty tiles into as few boxes as it
// can, expanding each box right first and then down.
func (w *World) addTileLayer(name string, layer *tiled.TileLayer) {
	width, height := int(layer.Width), int(layer.Height)
	if len(layer.Tiles) < width*height {
		return
	}

	solid := func(idx int) bool { return layer.Tiles[idx] != 0 }
	processed := make([]bool, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if processed[idx] {
				continue
			}
			if !solid(idx) {
				processed[idx] = true
				continue
			}

			bw := 1
			for x+bw < width {
				idx2 := y*width + (x + bw)
				if processed[idx2] || !solid(idx2) {
					break
				}
				bw++
			}

			bh := 1
		heightLoop:
			for y+bh < height {
				for xi := x; xi < x+bw; xi++ {
					idx2 := (y+bh)*width + xi
					if processed[idx2] || !solid(idx2) {
						break heightLoop
					}
				}
				bh++
			}

			x0 := float64(x) * w.tileW
			y0 := float64(y) * w.tileH
			bb := cp.BB{L: x0, B: y0, R: x0 + float64(bw)*w.tileW, T: y0 + float64(bh)*w.tileH}
			w.add(cp.NewBox2(w.space.StaticBody, bb, 0), CollisionTypeTile, Owner{
				Layer: name,
				TileX: x, TileY: y, TileW: bw, TileH: bh,
			})

			for yy := y; yy < y+bh; yy++ {
				for xx := x; xx < x+bw; xx++ {
					processed[yy*width+xx] = true
				}
			}
		}
	}
}

func (w *World) addObject(layer string, obj *tiled.Object) {
	if !obj.Visible {
		return
	}

	typ := CollisionTypeObject
	sensor, _ := obj.Properties.Bool(SensorProperty)
	if sensor {
		typ = CollisionTypeSensor
	}
	owner := Owner{Layer: layer, ObjectID: obj.ID}
	body := w.space.StaticBody

	var shapes []*cp.Shape
	switch s := obj.Shape.(type) {
	case tiled.RectShape:
		y := float64(obj.Y)
		if obj.GID != 0 {
			// tile objects are anchored at their bottom-left corner
			y -= float64(s.Height)
		}
		if obj.Rotation == 0 {
			x := float64(obj.X)
			bb := cp.BB{L: x, B: y, R: x + float64(s.Width), T: y + float64(s.Height)}
			shapes = append(shapes, cp.NewBox2(body, bb, 0))
			break
		}
		verts := rectVerts(s.Width, s.Height)
		if obj.GID != 0 {
			verts = lo.Map(verts, func(v cp.Vector, _ int) cp.Vector { return cp.Vector{X: v.X, Y: v.Y - float64(s.Height)} })
		}
		shapes = append(shapes, w.poly(obj, verts))
	case tiled.EllipseShape:
		if s.Width == s.Height && obj.Rotation == 0 {
			r := float64(s.Width) / 2
			center := cp.Vector{X: float64(obj.X) + r, Y: float64(obj.Y) + r}
			shapes = append(shapes, cp.NewCircle(body, r, center))
			break
		}
		shapes = append(shapes, w.poly(obj, ellipseVerts(s.Width, s.Height)))
	case tiled.PolygonShape:
		if len(s.Points) < 3 {
			return
		}
		shapes = append(shapes, w.poly(obj, pointVerts(s.Points)))
	case tiled.PolylineShape:
		verts := transform(obj, pointVerts(s.Points))
		for i := 1; i < len(verts); i++ {
			shapes = append(shapes, cp.NewSegment(body, verts[i-1], verts[i], 1))
		}
	default:
		// points, text and unknown shapes have no area
		return
	}

	for _, shape := range shapes {
		shape.SetSensor(sensor)
		w.add(shape, typ, owner)
	}
}

func (w *World) poly(obj *tiled.Object, local []cp.Vector) *cp.Shape {
	verts := transform(obj, local)
	return cp.NewPolyShape(w.space.StaticBody, len(verts), verts, cp.NewTransformIdentity(), 0)
}

// transform rotates local vertices clockwise by the object's rotation, in
// degrees, around its origin and moves them to the object's position.
func transform(obj *tiled.Object, local []cp.Vector) []cp.Vector {
	rad := float64(obj.Rotation) * math.Pi / 180
	sin, cos := math.Sincos(rad)
	ox, oy := float64(obj.X), float64(obj.Y)
	return lo.Map(local, func(v cp.Vector, _ int) cp.Vector {
		return cp.Vector{
			X: ox + v.X*cos - v.Y*sin,
			Y: oy + v.X*sin + v.Y*cos,
		}
	})
}

func rectVerts(width, height float32) []cp.Vector {
	w, h := float64(width), float64(height)
	return []cp.Vector{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
}

func ellipseVerts(width, height float32) []cp.Vector {
	rx, ry := float64(width)/2, float64(height)/2
	verts := make([]cp.Vector, ellipseSegments)
	for i := range verts {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		verts[i] = cp.Vector{X: rx + rx*math.Cos(a), Y: ry + ry*math.Sin(a)}
	}
	return verts
}

func pointVerts(points []tiled.Point) []cp.Vector {
	return lo.Map(points, func(p tiled.Point, _ int) cp.Vector {
		return cp.Vector{X: float64(p.X), Y: float64(p.Y)}
	})
}
