package maps

import (
	"github.com/Faultbox/uomaps/pkg/formats"
	"github.com/Faultbox/uomaps/pkg/uofile"
)

// BlocksPerChunk is the number of land blocks stored in one UOP entry.
const BlocksPerChunk = 4096

// IndexRecord locates one block's land record and static run.
// The zero value is the invalid record.
type IndexRecord struct {
	LandOffset   int64 // Offset into the land file; 0 unless HasLand
	StaticOffset int64 // Offset into the statics file; 0 unless HasStatics
	StaticCount  uint32
	HasLand      bool
	HasStatics   bool

	// Raw values before bounds checks and clamping.
	// OriginalLandOffset is -1 when the block's UOP chunk could not be resolved or starts outside the file.
	OriginalLandOffset   int64
	OriginalStaticOffset int64
	OriginalStaticCount  uint32
}

// indexStats summarises one index build.
type indexStats struct {
	Blocks      int
	Land        int
	WithStatics int
	Clamped     int
}

// buildIndex computes one record per block of desc. Missing statics files
// leave every record without statics. It never reads outside the files.
func buildIndex(land, staticIndex, statics *uofile.File, desc Descriptor) ([]IndexRecord, indexStats) {
	count := desc.Blocks()
	records := make([]IndexRecord, count)
	stats := indexStats{Blocks: count}

	landLen := int64(land.Len())
	idxData := staticIndex.Bytes()
	staticsLen := int64(statics.Len())

	isUOP := land.IsUOP()
	entries := land.Entries()
	chunk := -1
	var chunkOffset int64
	chunkResolved := false

	for b := 0; b < count; b++ {
		rec := &records[b]

		local := b
		if isUOP {
			local = b & (BlocksPerChunk - 1)
			if c := b >> 12; c != chunk {
				chunk = c
				chunkOffset, chunkResolved = 0, false
				// A chunk must start inside the file; anything else is unresolved.
				if c < len(entries) && entries[c].Resolved && entries[c].Offset >= 0 && entries[c].Offset < landLen {
					chunkOffset, chunkResolved = entries[c].Offset, true
				}
			}
		}

		if isUOP && !chunkResolved {
			rec.OriginalLandOffset = -1
		} else {
			rel := int64(local) * formats.LandBlockSize
			rec.OriginalLandOffset = chunkOffset + rel
			if rel < landLen-chunkOffset {
				rec.LandOffset = chunkOffset + rel
				rec.HasLand = true
				stats.Land++
			}
		}

		pos := b * formats.StaticIndexSize
		if pos+formats.StaticIndexSize > len(idxData) {
			continue
		}

		si, err := formats.ReadStaticIndex(idxData[pos:])
		if err != nil {
			continue
		}

		rec.OriginalStaticOffset = int64(si.Position)
		rec.OriginalStaticCount = si.Count()

		if !si.HasStatics() || int64(si.Position) >= staticsLen {
			continue
		}

		n := si.Count()
		if n > formats.MaxStaticsPerBlock {
			n = formats.MaxStaticsPerBlock
			stats.Clamped++
		}

		rec.StaticOffset = int64(si.Position)
		rec.StaticCount = n
		rec.HasStatics = true
		stats.WithStatics++
	}

	return records, stats
}
