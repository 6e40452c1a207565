package maps

import "github.com/Faultbox/uomaps/pkg/formats"

// MapCount is the number of map slots the registry manages.
const MapCount = 6

// LegacyLandRecords is the land record count of the pre-expansion map 0.
const LegacyLandRecords = 393216

const legacyMapWidth = 6144

// defaultSizes holds each slot's width and height in tiles.
var defaultSizes = [MapCount][2]int{
	{7168, 4096}, // Felucca
	{7168, 4096}, // Trammel
	{2304, 1600}, // Ilshenar
	{2560, 2048}, // Malas
	{1448, 1448}, // Tokuno
	{1280, 4096}, // Ter Mur
}

// Descriptor holds the dimensions of one map.
type Descriptor struct {
	Width       int // Tiles
	Height      int // Tiles
	BlockWidth  int // Width >> 3
	BlockHeight int // Height >> 3
}

// NewDescriptor derives block dimensions from tile dimensions.
func NewDescriptor(width, height int) Descriptor {
	return Descriptor{
		Width:       width,
		Height:      height,
		BlockWidth:  width >> 3,
		BlockHeight: height >> 3,
	}
}

// Blocks returns the number of blocks in the map.
func (d Descriptor) Blocks() int {
	return d.BlockWidth * d.BlockHeight
}

// BlockNumber returns the index position of block (x, y), or -1 if it is outside the grid.
func (d Descriptor) BlockNumber(x, y int) int {
	if x < 0 || y < 0 || x >= d.BlockWidth || y >= d.BlockHeight {
		return -1
	}
	return x*d.BlockHeight + y
}

// UseLegacyWidth reports whether maps 0 and 1 use the narrow pre-expansion width.
// landRecords is the number of land records in map 0's land file.
func UseLegacyWidth(landRecords int, version ClientVersion) bool {
	if landRecords == LegacyLandRecords {
		return true
	}
	return version.Known() && version < CV4011D
}

// Descriptors computes every slot's dimensions.
func Descriptors(landRecords int, version ClientVersion) [MapCount]Descriptor {
	sizes := defaultSizes
	if UseLegacyWidth(landRecords, version) {
		sizes[0][0] = legacyMapWidth
		sizes[1][0] = legacyMapWidth
	}

	var out [MapCount]Descriptor
	for i, s := range sizes {
		out[i] = NewDescriptor(s[0], s[1])
	}
	return out
}

// landRecordCount returns how many whole land records fit in n bytes.
func landRecordCount(n int) int {
	return n / formats.LandBlockSize
}
