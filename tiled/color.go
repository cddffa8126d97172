package tiled

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Color is stored as R, G, B, A whatever order the source used.
type Color [4]uint8

// ParseColor parses a Tiled color string. Tiled writes #rrggbb or #aarrggbb;
// the leading '#' is optional.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, formatErrorf("invalid color value %q", s)
	}

	var b [4]uint8
	for i := 0; i < len(hex); i += 2 {
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return Color{}, formatErrorf("invalid color value %q", s)
		}
		b[i/2] = uint8(v)
	}

	if len(hex) == 8 {
		// argb -> rgba
		return Color{b[1], b[2], b[3], b[0]}, nil
	}
	return Color{b[0], b[1], b[2], 0xff}, nil
}

func (c Color) R() uint8 { return c[0] }
func (c Color) G() uint8 { return c[1] }
func (c Color) B() uint8 { return c[2] }
func (c Color) A() uint8 { return c[3] }

// NRGBA returns the color as a non-premultiplied image/color value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// String formats the color back into Tiled's #aarrggbb notation.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c[3], c[0], c[1], c[2])
}

func (c *Color) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return parseError(err, "color")
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// parseOptionalColor handles fields where Tiled may omit the color.
func parseOptionalColor(s *string) (*Color, error) {
	if s == nil {
		return nil, nil
	}
	c, err := ParseColor(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
