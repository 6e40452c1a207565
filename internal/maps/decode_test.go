package maps

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/uomaps/pkg/formats"
)

// mergeTest decodes one land block with 5 at every z and the given statics on top.
func mergeTest(t *testing.T, statics []formats.Static, c Classifier) *RadarBlock {
	t.Helper()

	land := createTestLand(1)
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			setLandCell(land, 0, x, y, formats.LandCell{TileID: uint16(x*8 + y + 1), Z: 5})
		}
	}
	lb, err := formats.ReadLandBlock(land)
	if err != nil {
		t.Fatalf("ReadLandBlock failed: %v", err)
	}

	payload := make([]byte, len(statics)*formats.StaticSize)
	for i, s := range statics {
		formats.PutStatic(payload[i*formats.StaticSize:], s)
	}

	return MergeBlock(lb, formats.NewStaticRun(payload, len(statics)), c)
}

func landOnly(t *testing.T) *RadarBlock {
	t.Helper()
	return mergeTest(t, nil, nil)
}

func TestMergeBlock_LandOnly(t *testing.T) {
	block := landOnly(t)

	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			want := RadarCell{Graphic: uint16(x*8 + y + 1), Z: 5, IsLand: true}
			if got := block.At(x, y); got != want {
				t.Errorf("cell (%d,%d): expected %+v, got %+v", x, y, want, got)
			}
		}
	}
}

func TestMergeBlock_RowMajorLand(t *testing.T) {
	land := createTestLand(1)
	setLandCell(land, 0, 6, 1, formats.LandCell{TileID: 0xBEEF, Z: -3})
	lb, _ := formats.ReadLandBlock(land)

	block := MergeBlock(lb, formats.StaticRun{}, nil)

	// Land cells are stored y*8+x; the grid is indexed [x][y]
	if got := block.Cells[6][1]; got.Graphic != 0xBEEF || got.Z != -3 {
		t.Errorf("expected cell (6,1) to hold 0xBEEF at -3, got %+v", got)
	}
	if got := block.Cells[1][6]; got.Graphic == 0xBEEF {
		t.Error("cell (1,6) should not hold the (6,1) tile")
	}
}

func TestMergeBlock_StaticTiesWithLand(t *testing.T) {
	block := mergeTest(t, []formats.Static{{Color: 0x0ABC, X: 2, Y: 3, Z: 5}}, nil)

	want := RadarCell{Graphic: 0x0ABC, Z: 5, IsLand: false}
	if got := block.At(2, 3); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestMergeBlock_StaticBelowLand(t *testing.T) {
	block := mergeTest(t, []formats.Static{{Color: 0x0ABC, X: 2, Y: 3, Z: 4}}, nil)

	if diff := cmp.Diff(landOnly(t), block); diff != "" {
		t.Errorf("static below land changed the grid (-want +got):\n%s", diff)
	}
}

func TestMergeBlock_ElevationOrder(t *testing.T) {
	tests := []struct {
		name    string
		statics []formats.Static
		want    RadarCell
	}{
		{
			name: "3 then 7",
			statics: []formats.Static{
				{Color: 0x100, X: 1, Y: 1, Z: 3},
				{Color: 0x200, X: 1, Y: 1, Z: 7},
			},
			want: RadarCell{Graphic: 0x200, Z: 7},
		},
		{
			name: "7 then 3",
			statics: []formats.Static{
				{Color: 0x200, X: 1, Y: 1, Z: 7},
				{Color: 0x100, X: 1, Y: 1, Z: 3},
			},
			want: RadarCell{Graphic: 0x200, Z: 7},
		},
		{
			name: "later wins tie",
			statics: []formats.Static{
				{Color: 0x100, X: 1, Y: 1, Z: 9},
				{Color: 0x200, X: 1, Y: 1, Z: 9},
			},
			want: RadarCell{Graphic: 0x200, Z: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := mergeTest(t, tt.statics, nil)
			if got := block.At(1, 1); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestMergeBlock_SkippedStatics(t *testing.T) {
	hidden := ClassifierFunc(func(g uint16) bool { return g == 0x0777 })

	tests := []struct {
		name   string
		static formats.Static
	}{
		{"color zero", formats.Static{Color: 0x0000, X: 0, Y: 0, Z: 127}},
		{"color invalid", formats.Static{Color: 0xFFFF, X: 0, Y: 0, Z: 127}},
		{"non-drawable", formats.Static{Color: 0x0777, X: 0, Y: 0, Z: 127}},
		{"x outside block", formats.Static{Color: 0x0100, X: 8, Y: 0, Z: 127}},
		{"y outside block", formats.Static{Color: 0x0100, X: 0, Y: 200, Z: 127}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := mergeTest(t, []formats.Static{tt.static}, hidden)
			if diff := cmp.Diff(landOnly(t), block); diff != "" {
				t.Errorf("skipped static changed the grid (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeBlock_DefaultClassifier(t *testing.T) {
	block := mergeTest(t, []formats.Static{
		{Color: 0x0001, X: 0, Y: 0, Z: 10},
		{Color: 0x21A0, X: 1, Y: 0, Z: 10},
		{Color: 0x0100, X: 2, Y: 0, Z: 10},
	}, DefaultClassifier)

	if !block.At(0, 0).IsLand || !block.At(1, 0).IsLand {
		t.Error("hidden graphics should not replace land")
	}
	if block.At(2, 0).IsLand {
		t.Error("drawable static should replace land")
	}
}

func TestDecodeBlock(t *testing.T) {
	land := createTestLand(2)
	_, statics := createTestStatics(1, map[int][]formats.Static{
		0: {{Color: 0x0300, X: 7, Y: 7, Z: 1}},
	})

	tests := []struct {
		name string
		rec  IndexRecord
		ok   bool
	}{
		{"no land", IndexRecord{}, false},
		{"offset past end", IndexRecord{HasLand: true, LandOffset: int64(len(land))}, false},
		{"truncated record", IndexRecord{HasLand: true, LandOffset: int64(len(land) - 10)}, false},
		{"negative offset", IndexRecord{HasLand: true, LandOffset: -1}, false},
		{"land only", IndexRecord{HasLand: true, LandOffset: formats.LandBlockSize}, true},
		{"with statics", IndexRecord{HasLand: true, HasStatics: true, StaticCount: 1}, true},
		{"static count past payload", IndexRecord{HasLand: true, HasStatics: true, StaticCount: 1000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, ok := decodeBlock(land, statics, tt.rec, nil)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				if block != nil {
					t.Error("expected nil block")
				}
				return
			}
			if tt.rec.HasStatics {
				if got := block.At(7, 7); got.Graphic != 0x0300 || got.IsLand {
					t.Errorf("expected static at (7,7), got %+v", got)
				}
			} else if got := block.At(0, 0); got.Graphic != 0x101 {
				t.Errorf("expected tile 0x101 from block 1, got 0x%x", got.Graphic)
			}
		})
	}
}
