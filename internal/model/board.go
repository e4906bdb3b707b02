package model

// Board dimensions and the required fleet composition
const (
	BoardWidth  = 10
	BoardHeight = 10
)

// ShipSizes is the multiset of ship sizes a valid placement must contain
var ShipSizes = []int{5, 4, 3, 3, 2}

// Cell is the state of a single board cell
type Cell int

const (
	CellEmpty     Cell = 0
	CellMark      Cell = 1 // shot that missed
	CellShip      Cell = 2
	CellHit       Cell = 3 // ship cell hit, ship still afloat
	CellShipwreck Cell = 4 // cell of a sunken ship
)

// SalvoOutcome is the result of resolving a single shot
type SalvoOutcome struct {
	Accepted bool
	Hit      bool
	Sunk     *Ship // non-nil when this shot sank a ship
	Err      error // non-nil iff the shot was rejected
}

// Board is one player's 10x10 grid. Cell state is derived entirely from
// the placed ships and accumulated shots; only Place, Reset and Salvo
// mutate it. The board is not internally synchronized — the owning room
// registry serializes access.
type Board struct {
	Cells  [BoardHeight][BoardWidth]Cell // row-major: Cells[y][x]
	Ships  []*Ship
	Ready  bool
	Player *Player
}

// NewBoard creates an empty board owned by the given player
func NewBoard(player *Player) *Board {
	return &Board{Player: player}
}

// CheckShipSizes reports whether the submitted ships' sizes exactly match
// the required multiset, order-independent
func CheckShipSizes(ships []*Ship) bool {
	remaining := make([]int, len(ShipSizes))
	copy(remaining, ShipSizes)
	for _, ship := range ships {
		found := -1
		for i, size := range remaining {
			if size == ship.Size {
				found = i
				break
			}
		}
		if found < 0 {
			return false
		}
		remaining = append(remaining[:found], remaining[found+1:]...)
	}
	return len(remaining) == 0
}

// Place validates the ships against the grid bounds and each other on a
// scratch occupancy grid, and only then commits them to the board. On
// failure the board is left untouched. A successful placement marks the
// board ready.
func (b *Board) Place(ships []*Ship) bool {
	var occupied [BoardHeight][BoardWidth]bool
	for _, ship := range ships {
		x2, y2 := ship.Extent()
		if ship.X < 0 || x2 >= BoardWidth || ship.Y < 0 || y2 >= BoardHeight {
			return false
		}
		for y := ship.Y; y <= y2; y++ {
			for x := ship.X; x <= x2; x++ {
				if occupied[y][x] {
					return false
				}
				occupied[y][x] = true
			}
		}
	}

	b.Cells = [BoardHeight][BoardWidth]Cell{}
	for _, ship := range ships {
		x2, y2 := ship.Extent()
		for y := ship.Y; y <= y2; y++ {
			for x := ship.X; x <= x2; x++ {
				b.Cells[y][x] = CellShip
			}
		}
	}
	b.Ships = ships
	b.Ready = true
	return true
}

// Reset clears the cells, the ships and the readiness flag
func (b *Board) Reset() {
	b.Cells = [BoardHeight][BoardWidth]Cell{}
	b.Ships = nil
	b.Ready = false
}

// Salvo resolves a single shot at the given coordinates
func (b *Board) Salvo(x, y int) SalvoOutcome {
	if x < 0 || x >= BoardWidth || y < 0 || y >= BoardHeight {
		return SalvoOutcome{Err: ErrShotOutOfBounds}
	}
	switch b.Cells[y][x] {
	case CellMark, CellHit, CellShipwreck:
		return SalvoOutcome{Err: ErrShotRepeated}
	case CellEmpty:
		b.Cells[y][x] = CellMark
		return SalvoOutcome{Accepted: true}
	}

	for _, ship := range b.Ships {
		if !ship.Occupies(x, y) {
			continue
		}
		b.Cells[y][x] = CellHit
		x2, y2 := ship.Extent()
		dead := true
		for iy := ship.Y; iy <= y2; iy++ {
			for ix := ship.X; ix <= x2; ix++ {
				if b.Cells[iy][ix] != CellHit {
					dead = false
				}
			}
		}
		if dead {
			for iy := ship.Y; iy <= y2; iy++ {
				for ix := ship.X; ix <= x2; ix++ {
					b.Cells[iy][ix] = CellShipwreck
				}
			}
			ship.Dead = true
			return SalvoOutcome{Accepted: true, Hit: true, Sunk: ship}
		}
		return SalvoOutcome{Accepted: true, Hit: true}
	}

	// A ship cell no ship covers means the derived-state invariant broke
	// somewhere upstream
	return SalvoOutcome{Err: ErrInternalMistake}
}

// AllShipsDead reports whether every placed ship has been sunk
func (b *Board) AllShipsDead() bool {
	if len(b.Ships) == 0 {
		return false
	}
	for _, ship := range b.Ships {
		if !ship.Dead {
			return false
		}
	}
	return true
}
