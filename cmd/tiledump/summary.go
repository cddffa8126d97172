package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/milk9111/tiledjson/collision"
	"github.com/milk9111/tiledjson/tiled"
	"github.com/samber/lo"
)

// writeSummary prints a short human readable overview of m.
func writeSummary(out io.Writer, name string, m *tiled.Map, world *collision.World) {
	fmt.Fprintf(out, "map %s: %s %dx%d, tiles %dx%d, version %s\n",
		name, m.Orientation, m.Width, m.Height, m.TileWidth, m.TileHeight, m.Version)
	if m.BackgroundColor != nil {
		fmt.Fprintf(out, "  background %s\n", m.BackgroundColor)
	}
	writeProperties(out, "  ", m.Properties)

	for _, ts := range m.Tilesets {
		if ts.Source != "" {
			fmt.Fprintf(out, "  tileset firstgid=%d source=%s\n", ts.FirstGID, ts.Source)
			continue
		}
		fmt.Fprintf(out, "  tileset %s firstgid=%d tiles=%d\n", ts.Name, ts.FirstGID, ts.TileCount)
	}

	for _, layer := range m.Layers {
		fmt.Fprintf(out, "  layer %s %s", layer.Name, layer.Data.LayerType())
		switch data := layer.Data.(type) {
		case *tiled.TileLayer:
			used := lo.CountBy(data.Tiles, func(gid uint32) bool { return gid != 0 })
			fmt.Fprintf(out, " %dx%d used=%d", data.Width, data.Height, used)
		case *tiled.ImageLayer:
			fmt.Fprintf(out, " image=%s", data.Image)
		case *tiled.ObjectGroup:
			shapes := lo.Map(data.Objects, func(o tiled.Object, _ int) string { return o.Shape.ShapeName() })
			fmt.Fprintf(out, " objects=%d [%s]", len(data.Objects), strings.Join(shapes, " "))
		}
		if layer.Opacity != 1 {
			fmt.Fprintf(out, " opacity=%s", strconv.FormatFloat(float64(layer.Opacity), 'f', -1, 32))
		}
		if !layer.Visible {
			fmt.Fprint(out, " hidden")
		}
		fmt.Fprintln(out)
		writeProperties(out, "    ", layer.Properties)
	}

	if world != nil {
		fmt.Fprintf(out, "  collision shapes=%d\n", len(world.Shapes()))
	}
}

func writeProperties(out io.Writer, indent string, props tiled.Properties) {
	if len(props) == 0 {
		return
	}
	names := lo.Keys(props)
	sort.Strings(names)
	pairs := lo.Map(names, func(name string, _ int) string {
		return name + "=" + formatProperty(props[name])
	})
	fmt.Fprintf(out, "%sproperties %s\n", indent, strings.Join(pairs, " "))
}

func formatProperty(p tiled.Property) string {
	switch v := p.(type) {
	case tiled.BoolProperty:
		return strconv.FormatBool(bool(v))
	case tiled.FloatProperty:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case tiled.IntProperty:
		return strconv.FormatInt(int64(v), 10)
	case tiled.ColorProperty:
		return tiled.Color(v).String()
	case tiled.StringProperty:
		return strconv.Quote(string(v))
	case tiled.FileProperty:
		return "file:" + string(v)
	}
	return "?"
}
