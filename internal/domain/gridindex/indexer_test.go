package gridindex

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexer(t *testing.T, resolution int) *Indexer {
	t.Helper()
	ix, err := NewIndexer(resolution)
	require.NoError(t, err)
	return ix
}

func TestNewIndexer_InvalidResolution(t *testing.T) {
	for _, res := range []int{0, -1, -5000} {
		ix, err := NewIndexer(res)
		assert.Nil(t, ix)
		assert.True(t, errors.Is(err, ErrInvalidResolution), "resolution %d", res)
	}
}

func TestEncodeCell_KnownCoordinate(t *testing.T) {
	ix := newTestIndexer(t, 5000)

	assert.Equal(t, 1465, ix.QuantizeAxis(-74.485))
	assert.Equal(t, 3194, ix.QuantizeAxis(50))
	assert.Equal(t, CellID(7328194), ix.EncodeCell(orb.Point{-74.485, 50}))

	x, y := ix.Unpack(7328194)
	assert.Equal(t, 1465, x)
	assert.Equal(t, 3194, y)
}

func TestQuantizeAxis_Range(t *testing.T) {
	ix := newTestIndexer(t, 5000)

	assert.Equal(t, 0, ix.QuantizeAxis(-180))
	assert.Equal(t, 2500, ix.QuantizeAxis(0))
	assert.Equal(t, 4999, ix.QuantizeAxis(179.9999))

	// 範囲外はそのまま範囲外のバケットになる
	assert.Equal(t, 5000, ix.QuantizeAxis(180))
	assert.Less(t, ix.QuantizeAxis(-181), 0)
}

func TestDecodeCellBounds_ContainsOriginal(t *testing.T) {
	points := []orb.Point{
		{-74.485, 50},
		{135.5023, 34.6937},
		{0, 0},
		{-180, -90},
		{179.99, 89.99},
		{-0.0001, -0.0001},
	}

	for _, res := range []int{1, 7, 360, 5000, 100000} {
		ix := newTestIndexer(t, res)
		for _, p := range points {
			b := ix.DecodeCellBounds(ix.EncodeCell(p))
			assert.True(t, b.Contains(p), "res=%d point=%v bound=%v", res, p, b)
		}
	}
}

func TestEncodeCell_SameCellSameID(t *testing.T) {
	for _, res := range []int{3, 100, 5000} {
		ix := newTestIndexer(t, res)
		b := ix.DecodeCellBounds(ix.EncodeCell(orb.Point{12.34, -56.78}))
		w := b.Max.Lon() - b.Min.Lon()
		h := b.Max.Lat() - b.Min.Lat()

		p1 := orb.Point{b.Min.Lon() + w*0.25, b.Min.Lat() + h*0.25}
		p2 := orb.Point{b.Min.Lon() + w*0.75, b.Min.Lat() + h*0.5}
		assert.Equal(t, ix.EncodeCell(p1), ix.EncodeCell(p2), "res=%d", res)
	}
}

func TestEncodeCell_JustBelowEdge(t *testing.T) {
	ix := newTestIndexer(t, 5000)
	edge := ix.toDegrees(1466)
	inner := ix.EncodeCell(orb.Point{-74.485, 50})

	for _, lon := range []float64{math.Nextafter(edge, math.Inf(-1)), edge - 3e-11} {
		p := orb.Point{lon, 50}
		assert.Equal(t, 1465, ix.QuantizeAxis(lon), "lon=%v", lon)
		assert.Equal(t, inner, ix.EncodeCell(p), "lon=%v", lon)
		assert.True(t, ix.DecodeCellBounds(ix.EncodeCell(p)).Contains(p), "lon=%v", lon)
	}

	// 境界ちょうどは上側のセル
	assert.Equal(t, 1466, ix.QuantizeAxis(edge))
}

func TestEncodeCell_NearEdgesStayInDecodedBounds(t *testing.T) {
	for _, res := range []int{7, 360, 5000, 100000} {
		ix := newTestIndexer(t, res)
		for _, cell := range []int{1, res / 3, res / 2, res - 1} {
			edge := ix.toDegrees(cell)
			for _, v := range []float64{math.Nextafter(edge, math.Inf(-1)), edge, math.Nextafter(edge, math.Inf(1))} {
				p := orb.Point{v, v / 2}
				b := ix.DecodeCellBounds(ix.EncodeCell(p))
				assert.True(t, b.Contains(p), "res=%d v=%v bound=%v", res, v, b)
			}
		}
	}
}

func TestEnumerateCoveringCells_SingleCell(t *testing.T) {
	ix := newTestIndexer(t, 5000)
	id := ix.EncodeCell(orb.Point{-74.485, 50})

	cells := ix.EnumerateCoveringCells(ix.DecodeCellBounds(id))

	require.Len(t, cells, 1)
	assert.Equal(t, id, cells[0].ID)
}

func TestEnumerateCoveringCells_RowMajor(t *testing.T) {
	ix := newTestIndexer(t, 5000)
	minCell := ix.Cell(ix.EncodeCell(orb.Point{-74.485, 50}))
	maxCell := ix.cellBound(minCell.X+1, minCell.Y+2)

	region := orb.Bound{Min: minCell.Bound.Min, Max: maxCell.Max}
	cells := ix.EnumerateCoveringCells(region)

	require.Len(t, cells, 6)
	expected := []CellID{}
	for x := minCell.X; x <= minCell.X+1; x++ {
		for y := minCell.Y; y <= minCell.Y+2; y++ {
			expected = append(expected, CellID(x)*5000+CellID(y))
		}
	}
	assert.Equal(t, expected, CellIDs(cells))
}

func TestEnumerateCoveringCells_MaxCornerJustPastEdge(t *testing.T) {
	ix := newTestIndexer(t, 5000)
	base := ix.cellBound(1465, 3194)
	edge := ix.toDegrees(1466)

	for _, maxLon := range []float64{math.Nextafter(edge, math.Inf(1)), edge + 3e-11} {
		region := orb.Bound{Min: base.Min, Max: orb.Point{maxLon, base.Max.Lat()}}

		cells := ix.EnumerateCoveringCells(region)

		require.Len(t, cells, 2, "maxLon=%v", maxLon)
		last := cells[len(cells)-1]
		assert.Equal(t, 1466, last.X)
		assert.True(t, last.Bound.Contains(region.Max))
		assert.Equal(t, 2, ix.CoveringCellCount(region))
	}
}

func TestCoveringCellCount_MatchesEnumeration(t *testing.T) {
	ix := newTestIndexer(t, 5000)
	regions := []orb.Bound{
		ix.DecodeCellBounds(7328194),
		{Min: ix.cellBound(1465, 3194).Min, Max: ix.cellBound(1466, 3196).Max},
		{Min: orb.Point{-74.50, 49.98}, Max: orb.Point{-74.47, 50.02}},
		{Min: orb.Point{179.9, 10}, Max: orb.Point{-179.9, 10.1}},
	}

	for _, r := range regions {
		assert.Equal(t, len(ix.EnumerateCoveringCells(r)), ix.CoveringCellCount(r), "region=%v", r)
	}
}

func TestEnumerateCoveringCells_CoversRegion(t *testing.T) {
	ix := newTestIndexer(t, 5000)
	region := orb.Bound{Min: orb.Point{-74.50, 49.98}, Max: orb.Point{-74.47, 50.02}}

	cells := ix.EnumerateCoveringCells(region)
	require.NotEmpty(t, cells)

	union := cells[0].Bound
	for _, c := range cells[1:] {
		union = union.Union(c.Bound)
	}
	assert.True(t, union.Contains(region.Min))
	assert.True(t, union.Contains(region.Max))

	// 連続したブロックであること
	first, last := cells[0], cells[len(cells)-1]
	assert.Len(t, cells, (last.X-first.X+1)*(last.Y-first.Y+1))
	for _, c := range cells {
		assert.Equal(t, ix.cellBound(c.X, c.Y), c.Bound)
	}
}

func TestEnumerateCoveringCells_FinerResolutionBlock(t *testing.T) {
	ix := newTestIndexer(t, 50000)
	region := orb.Bound{Min: orb.Point{-74.50, 49.98}, Max: orb.Point{-74.47, 50.02}}

	cells := ix.EnumerateCoveringCells(region)

	// セル幅 0.0072度: 経度 14652..14656, 緯度 31941..31947
	first, last := cells[0], cells[len(cells)-1]
	assert.Equal(t, 14652, first.X)
	assert.Equal(t, 5, last.X-first.X+1)
	assert.Equal(t, 7, last.Y-first.Y+1)
	assert.Len(t, cells, 35)
}

func TestEnumerateCoveringCells_Idempotent(t *testing.T) {
	ix := newTestIndexer(t, 5000)
	region := orb.Bound{Min: orb.Point{139.60, 35.60}, Max: orb.Point{139.80, 35.70}}

	first := ix.EnumerateCoveringCells(region)
	second := ix.EnumerateCoveringCells(region)
	assert.Equal(t, first, second)
}

func TestEnumerateCoveringCells_InvertedRegionIsEmpty(t *testing.T) {
	ix := newTestIndexer(t, 5000)
	// 日付変更線をまたぐ領域は min > max になる
	region := orb.Bound{Min: orb.Point{179.9, 10}, Max: orb.Point{-179.9, 10.1}}

	cells := ix.EnumerateCoveringCells(region)
	assert.NotNil(t, cells)
	assert.Empty(t, cells)
}

func TestEnumerateCoveringCells_PointRegion(t *testing.T) {
	ix := newTestIndexer(t, 5000)
	p := orb.Point{-74.485, 50}

	cells := ix.EnumerateCoveringCells(orb.Bound{Min: p, Max: p})
	require.Len(t, cells, 1)
	assert.Equal(t, ix.EncodeCell(p), cells[0].ID)
}

func TestValidate(t *testing.T) {
	ix := newTestIndexer(t, 5000)

	assert.NoError(t, ix.Validate(orb.Point{-74.485, 50}))
	assert.NoError(t, ix.Validate(orb.Point{-180, -90}))
	assert.NoError(t, ix.Validate(orb.Point{179.999, 90}))

	for _, p := range []orb.Point{{180, 0}, {-180.1, 0}, {0, 90.1}, {0, -91}} {
		err := ix.Validate(p)
		assert.True(t, errors.Is(err, ErrOutOfDomain), "point %v", p)
	}
}

func TestValidateRegion(t *testing.T) {
	ix := newTestIndexer(t, 5000)

	assert.NoError(t, ix.ValidateRegion(orb.Bound{Min: orb.Point{170, 0}, Max: orb.Point{180, 10}}))
	assert.ErrorIs(t, ix.ValidateRegion(orb.Bound{Min: orb.Point{170, 0}, Max: orb.Point{181, 10}}), ErrOutOfDomain)
	assert.ErrorIs(t, ix.ValidateRegion(orb.Bound{Min: orb.Point{-190, 0}, Max: orb.Point{0, 10}}), ErrOutOfDomain)
}

func TestUnpack_NegativeID(t *testing.T) {
	ix := newTestIndexer(t, 10)

	x, y := ix.Unpack(-3)
	assert.Equal(t, -1, x)
	assert.Equal(t, 7, y)
}
