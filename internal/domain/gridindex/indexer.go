package gridindex

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// DefaultResolution 1軸あたりのセル数のデフォルト値
const DefaultResolution = 5000

var (
	// ErrInvalidResolution 解像度が0以下
	ErrInvalidResolution = errors.New("解像度は正の整数である必要があります")
	// ErrOutOfDomain 座標が想定する正規化範囲外
	ErrOutOfDomain = errors.New("座標が範囲外です")
)

// CellID セル座標 (x, y) を x*resolution+y に詰めた識別子
type CellID int64

// Cell 1つのグリッドセル
type Cell struct {
	ID    CellID    `json:"cell_id"`
	X     int       `json:"x"`
	Y     int       `json:"y"`
	Bound orb.Bound `json:"-"`
}

// Polygon セル矩形をポリゴンとして返す
func (c Cell) Polygon() orb.Polygon {
	return c.Bound.ToPolygon()
}

// Indexer 経度・緯度を固定解像度のグリッドに量子化する
//
// 経度・緯度の両軸に同じ [-180,180) の正規化式を適用するため、
// 緯度方向はグリッドの中央半分しか使われない。
// 日付変更線・極でのラップアラウンドは扱わない。
type Indexer struct {
	resolution int
}

// NewIndexer 新しいIndexerを作成
func NewIndexer(resolution int) (*Indexer, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}
	return &Indexer{resolution: resolution}, nil
}

// Resolution 1軸あたりのセル数
func (ix *Indexer) Resolution() int {
	return ix.resolution
}

// QuantizeAxis 経度または緯度の値を0始まりのバケット番号に変換する
// 範囲外の入力は負数や resolution 以上の値をそのまま返す
func (ix *Indexer) QuantizeAxis(value float64) int {
	cell := int(math.Floor(((value + 180) / 360) * float64(ix.resolution)))
	// 丸め誤差で境界の反対側に落ちた場合はデコード後の矩形に合わせる
	if ix.toDegrees(cell) > value {
		cell--
	} else if ix.toDegrees(cell+1) <= value {
		cell++
	}
	return cell
}

func (ix *Indexer) toDegrees(cell int) float64 {
	return (float64(cell)/float64(ix.resolution))*360 - 180
}

// EncodeCell 座標をセルIDに変換する
func (ix *Indexer) EncodeCell(p orb.Point) CellID {
	return ix.pack(ix.QuantizeAxis(p.Lon()), ix.QuantizeAxis(p.Lat()))
}

func (ix *Indexer) pack(x, y int) CellID {
	return CellID(x)*CellID(ix.resolution) + CellID(y)
}

// Unpack セルIDを (x, y) に戻す
func (ix *Indexer) Unpack(id CellID) (x, y int) {
	res := CellID(ix.resolution)
	y = int(id % res)
	x = int(id / res)
	// 負のIDでも floor 除算と非負の剰余になるよう補正
	if y < 0 {
		y += ix.resolution
		x--
	}
	return x, y
}

// DecodeCellBounds セルIDが表す矩形を返す
func (ix *Indexer) DecodeCellBounds(id CellID) orb.Bound {
	x, y := ix.Unpack(id)
	return ix.cellBound(x, y)
}

func (ix *Indexer) cellBound(x, y int) orb.Bound {
	return orb.Bound{
		Min: orb.Point{ix.toDegrees(x), ix.toDegrees(y)},
		Max: orb.Point{ix.toDegrees(x + 1), ix.toDegrees(y + 1)},
	}
}

// Cell セルIDからCellを組み立てる
func (ix *Indexer) Cell(id CellID) Cell {
	x, y := ix.Unpack(id)
	return Cell{ID: id, X: x, Y: y, Bound: ix.cellBound(x, y)}
}

// EnumerateCoveringCells 領域と重なる全セルを X昇順・Y昇順 で列挙する
// 最小側のセルが最大側より大きい軸があれば空を返す
func (ix *Indexer) EnumerateCoveringCells(region orb.Bound) []Cell {
	minX, maxX := ix.axisRange(region.Min.Lon(), region.Max.Lon())
	minY, maxY := ix.axisRange(region.Min.Lat(), region.Max.Lat())
	if minX > maxX || minY > maxY {
		return []Cell{}
	}

	cells := make([]Cell, 0, (maxX-minX+1)*(maxY-minY+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			cells = append(cells, Cell{
				ID:    ix.pack(x, y),
				X:     x,
				Y:     y,
				Bound: ix.cellBound(x, y),
			})
		}
	}
	return cells
}

func (ix *Indexer) axisRange(minV, maxV float64) (lo, hi int) {
	lo = ix.QuantizeAxis(minV)
	hi = ix.QuantizeAxis(maxV)
	if maxV < minV {
		return lo, hi
	}
	// 最大側がセルの下端ちょうどなら、そのセルとは辺で接しているだけ
	if hi > lo && ix.toDegrees(hi) == maxV {
		hi--
	}
	return lo, hi
}

// CoveringCellCount EnumerateCoveringCells が返すセル数
func (ix *Indexer) CoveringCellCount(region orb.Bound) int {
	minX, maxX := ix.axisRange(region.Min.Lon(), region.Max.Lon())
	minY, maxY := ix.axisRange(region.Min.Lat(), region.Max.Lat())
	if minX > maxX || minY > maxY {
		return 0
	}
	return (maxX - minX + 1) * (maxY - minY + 1)
}

// CellIDs セル列からID列を取り出す
func CellIDs(cells []Cell) []CellID {
	ids := make([]CellID, len(cells))
	for i, c := range cells {
		ids[i] = c.ID
	}
	return ids
}

// Validate 座標が経度 [-180,180)、緯度 [-90,90] にあるか検証する
func (ix *Indexer) Validate(p orb.Point) error {
	if math.IsNaN(p.Lon()) || p.Lon() < -180 || p.Lon() >= 180 {
		return fmt.Errorf("%w: 経度 %f", ErrOutOfDomain, p.Lon())
	}
	if math.IsNaN(p.Lat()) || p.Lat() < -90 || p.Lat() > 90 {
		return fmt.Errorf("%w: 緯度 %f", ErrOutOfDomain, p.Lat())
	}
	return nil
}

// ValidateRegion 領域の両端が範囲内にあるか検証する
// 最大側の経度は180ちょうどを許容する
func (ix *Indexer) ValidateRegion(region orb.Bound) error {
	if err := ix.Validate(region.Min); err != nil {
		return err
	}
	maxLon, maxLat := region.Max.Lon(), region.Max.Lat()
	if math.IsNaN(maxLon) || maxLon < -180 || maxLon > 180 {
		return fmt.Errorf("%w: 経度 %f", ErrOutOfDomain, maxLon)
	}
	if math.IsNaN(maxLat) || maxLat < -90 || maxLat > 90 {
		return fmt.Errorf("%w: 緯度 %f", ErrOutOfDomain, maxLat)
	}
	return nil
}
