package tiled

// Object is an entry of an object group.
type Object struct {
	// Unique ID of the object. Each object placed on a map gets a unique id.
	ID   uint32
	Name string
	// Type is the user-defined type; newer Tiled versions call it class.
	Type string
	// GID is set for tile objects and zero otherwise.
	GID      uint32
	X        float32
	Y        float32
	Rotation float32
	Visible  bool
	Shape    ObjectShape

	Properties Properties
}

type objectRecord struct {
	ID         uint32     `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Class      string     `json:"class"`
	GID        uint32     `json:"gid"`
	X          float32    `json:"x"`
	Y          float32    `json:"y"`
	Rotation   float32    `json:"rotation"`
	Visible    *bool      `json:"visible"`
	Properties Properties `json:"properties"`
}

func decodeObject(raw []byte) (Object, error) {
	r, err := newRecord(raw)
	if err != nil {
		return Object{}, err
	}

	var rec objectRecord
	if err := r.decode(&rec); err != nil {
		return Object{}, err
	}

	typ := rec.Type
	if typ == "" {
		typ = rec.Class
	}
	visible := true
	if rec.Visible != nil {
		visible = *rec.Visible
	}

	return Object{
		ID:         rec.ID,
		Name:       rec.Name,
		Type:       typ,
		GID:        rec.GID,
		X:          rec.X,
		Y:          rec.Y,
		Rotation:   rec.Rotation,
		Visible:    visible,
		Shape:      resolveShape(r),
		Properties: rec.Properties,
	}, nil
}
