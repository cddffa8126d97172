package tiled

// Point is a vertex of a polyline or polygon, relative to the object's position.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Text is the payload of a text object.
type Text struct {
	Text       string
	Wrap       bool
	FontFamily string
	PixelSize  uint32
	Color      *Color
	Bold       bool
	Italic     bool
	HAlign     string
	VAlign     string
}

// ObjectShape is the geometry of an object. It is always one of the *Shape
// types in this file; UnknownShape stands in for anything not recognised.
type ObjectShape interface {
	ShapeName() string
	objectShape()
}

type (
	PointShape    struct{}
	RectShape     struct{ Width, Height float32 }
	EllipseShape  struct{ Width, Height float32 }
	PolylineShape struct{ Points []Point }
	PolygonShape  struct{ Points []Point }
	UnknownShape  struct{}
)

type TextShape struct {
	Text          Text
	Width, Height float32
}

func (PointShape) ShapeName() string    { return "point" }
func (RectShape) ShapeName() string     { return "rect" }
func (EllipseShape) ShapeName() string  { return "ellipse" }
func (PolylineShape) ShapeName() string { return "polyline" }
func (PolygonShape) ShapeName() string  { return "polygon" }
func (TextShape) ShapeName() string     { return "text" }
func (UnknownShape) ShapeName() string  { return "unknown" }

func (PointShape) objectShape()    {}
func (RectShape) objectShape()     {}
func (EllipseShape) objectShape()  {}
func (PolylineShape) objectShape() {}
func (PolygonShape) objectShape()  {}
func (TextShape) objectShape()     {}
func (UnknownShape) objectShape()  {}

// shapeMatchers is tried in order; the first match wins. Every object
// carries width and height, so rect has to come last.
var shapeMatchers = []struct {
	name  string
	match func(r record) (ObjectShape, bool)
}{
	{"point", matchPoint},
	{"ellipse", matchEllipse},
	{"polyline", matchPolyline},
	{"polygon", matchPolygon},
	{"text", matchText},
	{"rect", matchRect},
}

func resolveShape(r record) ObjectShape {
	for _, m := range shapeMatchers {
		if shape, ok := m.match(r); ok {
			return shape
		}
	}
	return UnknownShape{}
}

func matchPoint(r record) (ObjectShape, bool) {
	var flag bool
	return PointShape{}, r.match("point", &flag)
}

func matchEllipse(r record) (ObjectShape, bool) {
	var flag bool
	if !r.match("ellipse", &flag) {
		return nil, false
	}
	w, h, ok := size(r)
	return EllipseShape{Width: w, Height: h}, ok
}

func matchPolyline(r record) (ObjectShape, bool) {
	var points []Point
	if !r.match("polyline", &points) {
		return nil, false
	}
	return PolylineShape{Points: points}, true
}

func matchPolygon(r record) (ObjectShape, bool) {
	var points []Point
	if !r.match("polygon", &points) {
		return nil, false
	}
	return PolygonShape{Points: points}, true
}

type textRecord struct {
	Text       *string `json:"text"`
	Wrap       bool    `json:"wrap"`
	FontFamily string  `json:"fontfamily"`
	PixelSize  uint32  `json:"pixelsize"`
	Color      *string `json:"color"`
	Bold       bool    `json:"bold"`
	Italic     bool    `json:"italic"`
	HAlign     string  `json:"halign"`
	VAlign     string  `json:"valign"`
}

func matchText(r record) (ObjectShape, bool) {
	var rec textRecord
	if !r.match("text", &rec) || rec.Text == nil {
		return nil, false
	}
	color, err := parseOptionalColor(rec.Color)
	if err != nil {
		return nil, false
	}
	w, h, ok := size(r)
	if !ok {
		return nil, false
	}
	return TextShape{
		Text: Text{
			Text:       *rec.Text,
			Wrap:       rec.Wrap,
			FontFamily: rec.FontFamily,
			PixelSize:  rec.PixelSize,
			Color:      color,
			Bold:       rec.Bold,
			Italic:     rec.Italic,
			HAlign:     rec.HAlign,
			VAlign:     rec.VAlign,
		},
		Width:  w,
		Height: h,
	}, true
}

func matchRect(r record) (ObjectShape, bool) {
	w, h, ok := size(r)
	return RectShape{Width: w, Height: h}, ok
}

func size(r record) (w, h float32, ok bool) {
	if !r.match("width", &w) || !r.match("height", &h) {
		return 0, 0, false
	}
	return w, h, true
}
