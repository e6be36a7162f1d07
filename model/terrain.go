package model

// TerrainType classifies one grid cell as reported by the engine.
type TerrainType int8

const (
	Unknown TerrainType = -1 // fog of war, not yet scouted
	Water   TerrainType = 0  // ships only
	Land    TerrainType = 1  // tanks and base sites
)

// TerrainGrid is the row-major land/water grid that accompanies each
// snapshot. CellSize maps grid cells to world units. The map wraps around,
// so cell lookups wrap too.
type TerrainGrid struct {
	Cols     int
	Rows     int
	CellSize float64
	Grid     []TerrainType // row-major: Grid[row*Cols + col]
}

// NewTerrainGrid returns a grid with every cell marked Unknown.
func NewTerrainGrid(cols, rows int, cellSize float64) *TerrainGrid {
	g := &TerrainGrid{Cols: cols, Rows: rows, CellSize: cellSize}
	g.Grid = make([]TerrainType, cols*rows)
	for i := range g.Grid {
		g.Grid[i] = Unknown
	}
	return g
}

// Width is the grid's horizontal extent in world units. Maps are square,
// so this doubles as the wrap size on both axes.
func (g *TerrainGrid) Width() float64 {
	return float64(g.Cols) * g.CellSize
}

// At returns the terrain type at grid coordinates (col, row), wrapping
// indices around the map edges.
func (g *TerrainGrid) At(col, row int) TerrainType {
	col = wrapIndex(col, g.Cols)
	row = wrapIndex(row, g.Rows)
	return g.Grid[row*g.Cols+col]
}

// Set overwrites the terrain type at (col, row), wrapping like At.
func (g *TerrainGrid) Set(col, row int, t TerrainType) {
	col = wrapIndex(col, g.Cols)
	row = wrapIndex(row, g.Rows)
	g.Grid[row*g.Cols+col] = t
}

// AtPos converts world coordinates to grid coordinates and returns the
// terrain type. Returns Unknown for a grid with zero-sized cells.
func (g *TerrainGrid) AtPos(p Position) TerrainType {
	if g.CellSize <= 0 {
		return Unknown
	}
	return g.At(int(p.X/g.CellSize), int(p.Y/g.CellSize))
}

// LandNear reports whether the cell containing p, or any of its eight
// neighbors, is land. This is the engine's criterion for ship-to-base
// conversion.
func (g *TerrainGrid) LandNear(p Position) bool {
	if g.CellSize <= 0 {
		return false
	}
	col := int(p.X / g.CellSize)
	row := int(p.Y / g.CellSize)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if g.At(col+dc, row+dr) == Land {
				return true
			}
		}
	}
	return false
}

// HasWater reports whether any cell in the grid is water.
func (g *TerrainGrid) HasWater() bool {
	for _, t := range g.Grid {
		if t == Water {
			return true
		}
	}
	return false
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
