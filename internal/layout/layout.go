// Package layout assigns deterministic 2D grid positions to the seats of a
// single floor. It is pure: no I/O, no status, and stable output order for
// identical input order.
package layout

import "github.com/Crsto22/Movitex-sub001/internal/model"

// seatsPerColumn is the visual grid height: seats fill columns top to
// bottom in groups of this size before the next column starts.
const seatsPerColumn = 4

// Params controls the pixel geometry of the generated grid. The vertical
// slot offsets are fixed per column and cycle every four seats.
type Params struct {
	BaseX         int    // horizontal offset of the first column
	ColumnSpacing int    // horizontal distance between columns
	GlyphY        [4]int // vertical offsets of the seat glyph per slot
	LabelY        [4]int // vertical offsets of the number label per slot
	LabelDX       int    // horizontal shift of the label relative to the glyph
}

// DefaultParams mirrors the geometry of the seat-map component: columns
// 72px apart starting at 16px, glyphs stacked in four 58px slots with the
// number label centered 20px into each glyph.
func DefaultParams() Params {
	return Params{
		BaseX:         16,
		ColumnSpacing: 72,
		GlyphY:        [4]int{12, 70, 128, 186},
		LabelY:        [4]int{32, 90, 148, 206},
		LabelDX:       18,
	}
}

// Generate maps one floor's seat records onto grid positions. Seats are
// partitioned into consecutive groups of four in column-major order: the
// first four records fill column 1 top to bottom, the next four column 2,
// and so on. Input order decides placement; seat numbers are ignored. A
// final column with fewer than four seats is allowed.
func Generate(seats []model.SeatRecord, p Params) []model.PositionedSeat {
	out := make([]model.PositionedSeat, 0, len(seats))
	for i, s := range seats {
		col := i/seatsPerColumn + 1
		row := i%seatsPerColumn + 1
		x := p.BaseX + (col-1)*p.ColumnSpacing
		out = append(out, model.PositionedSeat{
			SeatRecord:  s,
			Column:      col,
			RowInColumn: row,
			GlyphX:      x,
			GlyphY:      p.GlyphY[row-1],
			LabelX:      x + p.LabelDX,
			LabelY:      p.LabelY[row-1],
		})
	}
	return out
}
