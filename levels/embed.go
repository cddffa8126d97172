package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/milk9111/tiledjson/tiled"
	"github.com/samber/lo"
)

// LevelsFS holds the sample map in each tile data encoding Tiled can write:
// map.json (base64+zlib, the editor default), map_gzip.json, map_base64.json
// (uncompressed) and map_csv.json.
//
//go:embed *.json
var LevelsFS embed.FS

// Names lists the embedded maps in sorted order.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("levels: list: %w", err)
	}
	names := lo.FilterMap(entries, func(e fs.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir() && path.Ext(e.Name()) == ".json"
	})
	sort.Strings(names)
	return names, nil
}

// LoadMap decodes an embedded map. The .json suffix is optional.
func LoadMap(name string) (*tiled.Map, error) {
	return LoadMapFromFS(LevelsFS, name)
}

// LoadMapFromFS decodes the map called name from fsys.
func LoadMapFromFS(fsys fs.FS, name string) (*tiled.Map, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	m, err := tiled.DecodeFS(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	return m, nil
}
