package tiled

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Property is one custom property value. The concrete type is one of
// BoolProperty, FloatProperty, IntProperty, ColorProperty, StringProperty
// or FileProperty.
type Property interface {
	property()
}

type (
	BoolProperty   bool
	FloatProperty  float32
	IntProperty    int32
	ColorProperty  Color
	StringProperty string
	FileProperty   string
)

func (BoolProperty) property()   {}
func (FloatProperty) property()  {}
func (IntProperty) property()    {}
func (ColorProperty) property()  {}
func (StringProperty) property() {}
func (FileProperty) property()   {}

// Properties maps property names to values. A nil Properties means the
// section was absent or could not be read.
type Properties map[string]Property

// Bool returns the named property if it is a bool.
func (p Properties) Bool(name string) (bool, bool) {
	v, ok := p[name].(BoolProperty)
	return bool(v), ok
}

// String returns the named property if it is a string or file path.
func (p Properties) String(name string) (string, bool) {
	switch v := p[name].(type) {
	case StringProperty:
		return string(v), true
	case FileProperty:
		return string(v), true
	}
	return "", false
}

// UnmarshalJSON never fails: a properties section that does not have the
// expected shape decodes to nil.
func (p *Properties) UnmarshalJSON(b []byte) error {
	props, err := parseProperties(b)
	if err != nil {
		*p = nil
		return nil
	}
	*p = props
	return nil
}

type propertyRecord struct {
	Name  *string         `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

var errNoProperties = errors.New("no properties")

func parseProperties(raw []byte) (Properties, error) {
	if isAbsent(raw) {
		return nil, errNoProperties
	}

	var records []propertyRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Wrap(err, "properties")
	}

	props := make(Properties, len(records))
	for i, rec := range records {
		if rec.Name == nil {
			return nil, errors.Errorf("properties[%d]: missing name", i)
		}
		value, err := decodeProperty(rec.Type, rec.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "property %q", *rec.Name)
		}
		props[*rec.Name] = value
	}
	return props, nil
}

func decodeProperty(typ string, raw json.RawMessage) (Property, error) {
	if isAbsent(raw) {
		return nil, errors.New("missing value")
	}

	switch typ {
	case "bool":
		var v bool
		err := json.Unmarshal(raw, &v)
		return BoolProperty(v), err
	case "float":
		lit, err := numberLiteral(raw)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(lit, 32)
		return FloatProperty(v), err
	case "int":
		lit, err := numberLiteral(raw)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(lit, 10, 32)
		return IntProperty(v), err
	case "color":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		c, err := ParseColor(s)
		return ColorProperty(c), err
	case "string":
		var v string
		err := json.Unmarshal(raw, &v)
		return StringProperty(v), err
	case "file":
		var v string
		err := json.Unmarshal(raw, &v)
		return FileProperty(v), err
	default:
		return nil, errors.Errorf("unknown property type %q", typ)
	}
}
