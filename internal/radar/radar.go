// Package radar renders decoded map blocks into overview images.
package radar

import (
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/uomaps/internal/maps"
	"github.com/Faultbox/uomaps/pkg/formats"
)

// BlockSource decodes blocks. *maps.Registry implements it.
type BlockSource interface {
	GetRadarBlock(mapID, blockX, blockY int) (*maps.RadarBlock, bool)
	Generation() uint64
}

// Palette maps a merged cell to a colour.
type Palette interface {
	Color(cell maps.RadarCell) color.RGBA
}

// PaletteFunc adapts a function to Palette.
type PaletteFunc func(cell maps.RadarCell) color.RGBA

// Color calls f.
func (f PaletteFunc) Color(cell maps.RadarCell) color.RGBA {
	return f(cell)
}

// Empty is the colour of blocks without data.
var Empty = color.RGBA{0, 0, 0, 255}

// Renderer draws rectangles of blocks, one scale x scale square per tile.
type Renderer struct {
	source  BlockSource
	cache   *Cache
	palette Palette
	scale   int
	log     *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCache reuses decoded blocks between renders.
func WithCache(c *Cache) Option {
	return func(r *Renderer) { r.cache = c }
}

// WithPalette overrides the default palette.
func WithPalette(p Palette) Option {
	return func(r *Renderer) { r.palette = p }
}

// WithScale sets the pixel size of one tile.
func WithScale(scale int) Option {
	return func(r *Renderer) {
		if scale > 0 {
			r.scale = scale
		}
	}
}

// WithLogger sets the renderer logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRenderer creates a renderer over source.
func NewRenderer(source BlockSource, opts ...Option) *Renderer {
	r := &Renderer{
		source:  source,
		palette: DefaultPalette,
		scale:   1,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Block returns a decoded block, consulting the cache first.
func (r *Renderer) Block(mapID, blockX, blockY int) (*maps.RadarBlock, bool) {
	gen := r.source.Generation()
	if r.cache != nil {
		if block, ok := r.cache.Get(mapID, blockX, blockY, gen); ok {
			return block, block != nil
		}
	}

	block, ok := r.source.GetRadarBlock(mapID, blockX, blockY)
	if r.cache != nil {
		r.cache.Set(mapID, blockX, blockY, gen, block)
	}
	return block, ok
}

// Render draws width x height blocks starting at block (blockX, blockY).
func (r *Renderer) Render(mapID, blockX, blockY, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid render size %dx%d", width, height)
	}

	side := formats.BlockSide * r.scale
	img := image.NewRGBA(image.Rect(0, 0, width*side, height*side))

	missing := 0
	for bx := 0; bx < width; bx++ {
		for by := 0; by < height; by++ {
			block, ok := r.Block(mapID, blockX+bx, blockY+by)
			if !ok {
				missing++
				r.fill(img, bx*side, by*side, side, Empty)
				continue
			}
			r.drawBlock(img, bx*side, by*side, block)
		}
	}

	r.log.Debug("radar rendered",
		zap.Int("map", mapID),
		zap.Int("block_x", blockX),
		zap.Int("block_y", blockY),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("missing", missing))

	return img, nil
}

func (r *Renderer) drawBlock(img *image.RGBA, px, py int, block *maps.RadarBlock) {
	for x := 0; x < formats.BlockSide; x++ {
		for y := 0; y < formats.BlockSide; y++ {
			c := r.palette.Color(block.Cells[x][y])
			r.fill(img, px+x*r.scale, py+y*r.scale, r.scale, c)
		}
	}
}

func (r *Renderer) fill(img *image.RGBA, px, py, size int, c color.RGBA) {
	for x := px; x < px+size; x++ {
		for y := py; y < py+size; y++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// DefaultPalette derives a stable colour from the graphic id and shades it by z.
// Land uses earthy hues, statics use desaturated ones.
var DefaultPalette Palette = PaletteFunc(hashColor)

func hashColor(cell maps.RadarCell) color.RGBA {
	h := uint32(cell.Graphic) * 2654435761
	r, g, b := uint8(h>>24), uint8(h>>16), uint8(h>>8)

	if cell.IsLand {
		r = 40 + r/3
		g = 80 + g/2
		b = 20 + b/4
	} else {
		grey := uint8((uint16(r) + uint16(g) + uint16(b)) / 3)
		r = grey/2 + r/4 + 40
		g = grey/2 + g/4 + 40
		b = grey/2 + b/4 + 40
	}

	// z in -128..127 maps to 60%..100% brightness
	shade := 60 + (int(cell.Z)+128)*40/255
	return color.RGBA{
		R: uint8(int(r) * shade / 100),
		G: uint8(int(g) * shade / 100),
		B: uint8(int(b) * shade / 100),
		A: 255,
	}
}
