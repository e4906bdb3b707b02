package model

// Ship is a single placed ship on a board. X, Y is the top-left cell;
// a horizontal ship extends right, a vertical one extends down.
type Ship struct {
	X          int
	Y          int
	Size       int
	IsVertical bool
	Dead       bool
	// Tag optionally marks the ship's cells with a custom value in
	// rendered views. Values below the cell enum range are ignored.
	Tag int
}

// Extent returns the bottom-right cell covered by the ship
func (s *Ship) Extent() (x2, y2 int) {
	if s.IsVertical {
		return s.X, s.Y + s.Size - 1
	}
	return s.X + s.Size - 1, s.Y
}

// Occupies reports whether the ship covers the given cell
func (s *Ship) Occupies(x, y int) bool {
	x2, y2 := s.Extent()
	return s.X <= x && x <= x2 && s.Y <= y && y <= y2
}
