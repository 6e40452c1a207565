package maps

import "github.com/Faultbox/uomaps/pkg/formats"

// Static colors that never render.
const (
	noGraphic      = 0x0000
	invalidGraphic = 0xFFFF
)

// RadarCell is one merged cell of a decoded block.
type RadarCell struct {
	Graphic uint16
	Z       int8
	IsLand  bool
}

// RadarBlock is a decoded 8x8 block, indexed Cells[x][y].
type RadarBlock struct {
	Cells [formats.BlockSide][formats.BlockSide]RadarCell
}

// At returns the cell at local coordinates (x, y).
func (b *RadarBlock) At(x, y int) RadarCell {
	return b.Cells[x][y]
}

// MergeBlock lays statics over the land cells.
// A static replaces a cell when its z is at least the cell's z, so later
// statics win ties and any static wins a tie with land.
func MergeBlock(land formats.LandBlock, statics formats.StaticRun, classifier Classifier) *RadarBlock {
	if classifier == nil {
		classifier = drawAll
	}

	block := &RadarBlock{}
	for x := 0; x < formats.BlockSide; x++ {
		for y := 0; y < formats.BlockSide; y++ {
			cell := land.CellAt(x, y)
			block.Cells[x][y] = RadarCell{Graphic: cell.TileID, Z: cell.Z, IsLand: true}
		}
	}

	for i := 0; i < statics.Len(); i++ {
		s := statics.At(i)
		if s.Color == noGraphic || s.Color == invalidGraphic || !s.InBlock() {
			continue
		}
		if classifier.IsNonDrawable(s.Color) {
			continue
		}

		out := &block.Cells[s.X][s.Y]
		if out.Z <= s.Z {
			out.Graphic = s.Color
			out.Z = s.Z
			out.IsLand = false
		}
	}

	return block
}

// decodeBlock reads the records rec points at. It reports false when the
// land record is unavailable or cut short by the end of the file.
func decodeBlock(land, statics []byte, rec IndexRecord, classifier Classifier) (*RadarBlock, bool) {
	if !rec.HasLand || rec.LandOffset < 0 || rec.LandOffset >= int64(len(land)) {
		return nil, false
	}

	lb, err := formats.ReadLandBlock(land[rec.LandOffset:])
	if err != nil {
		return nil, false
	}

	var run formats.StaticRun
	if rec.HasStatics && rec.StaticOffset >= 0 && rec.StaticOffset < int64(len(statics)) {
		run = formats.NewStaticRun(statics[rec.StaticOffset:], int(rec.StaticCount))
	}

	return MergeBlock(lb, run, classifier), true
}
