package tiled

// Frame is one step of a tile animation.
type Frame struct {
	TileID   uint32 `json:"tileid"`
	Duration uint32 `json:"duration"`
}

type Tile struct {
	// Local ID of the tile.
	ID         uint32     `json:"id"`
	Type       string     `json:"type"`
	Animation  []Frame    `json:"animation"`
	Properties Properties `json:"properties"`
}

// Tileset is usually a single tilesheet image.
type Tileset struct {
	// GID of the first tile in the set.
	FirstGID uint32 `json:"firstgid"`
	// Source is set when the tileset lives in an external file; the other
	// fields are then empty.
	Source     string `json:"source"`
	Name       string `json:"name"`
	TileWidth  uint32 `json:"tilewidth"`
	TileHeight uint32 `json:"tileheight"`
	// Spacing between adjacent tiles in the image, in pixels.
	Spacing uint32 `json:"spacing"`
	// Margin between the image edge and the first tile, in pixels.
	Margin    uint32 `json:"margin"`
	Columns   uint32 `json:"columns"`
	TileCount uint32 `json:"tilecount"`
	Image     string `json:"image"`
	// Tiles carries per-tile information such as animations. Most tiles
	// have no entry.
	Tiles      []Tile     `json:"tiles"`
	Properties Properties `json:"properties"`
}

// Contains reports whether gid falls inside this tileset. Tilesets without
// a tile count only know their lower bound.
func (ts *Tileset) Contains(gid uint32) bool {
	if gid < ts.FirstGID {
		return false
	}
	return ts.TileCount == 0 || gid < ts.FirstGID+ts.TileCount
}
