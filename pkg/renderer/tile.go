package renderer

import (
	"image"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

// Tile is a rectangular block of pixels with its own random stream
type Tile struct {
	ID      int
	Bounds  image.Rectangle // Pixel-grid coordinates, j = 0 at the bottom
	Sampler core.Sampler
}

// tileSeed derives a distinct seed per tile from the render seed
func tileSeed(seed int64, id int) int64 {
	return seed*1_000_003 + int64(id)*7_919 + 1
}

// NewTileGrid splits a width x height image into tiles of at most tileSize pixels per side.
// Each tile owns a generator seeded from (seed, tile id), so a tile's samples do not
// depend on how many samples other tiles took.
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			id := len(tiles)
			tiles = append(tiles, &Tile{
				ID:      id,
				Bounds:  image.Rect(x, y, min(x+tileSize, width), min(y+tileSize, height)),
				Sampler: core.NewSeededSampler(tileSeed(seed, id)),
			})
		}
	}
	return tiles
}
