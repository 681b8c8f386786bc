package engine

import "fmt"

// Square is a signed 2D integer grid coordinate.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Sq is a shorthand constructor for Square.
func Sq(x, y int) Square {
	return Square{X: x, Y: y}
}

// Direction identifies one of the eight grid directions.
type Direction int

const (
	Top Direction = iota
	Bottom
	Left
	Right
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

// orthogonalDirections are the four non-diagonal directions.
var orthogonalDirections = [4]Direction{Top, Bottom, Left, Right}

// diagonalDirections are the four diagonal directions.
var diagonalDirections = [4]Direction{TopLeft, TopRight, BottomLeft, BottomRight}

// allDirections lists orthogonal directions before diagonal ones; the
// pathfinder relies on this ordering to price diagonal steps separately.
var allDirections = [8]Direction{
	Top, Bottom, Left, Right,
	TopLeft, TopRight, BottomLeft, BottomRight,
}

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	case TopLeft:
		return "top_left"
	case TopRight:
		return "top_right"
	case BottomLeft:
		return "bottom_left"
	case BottomRight:
		return "bottom_right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	case TopLeft:
		return BottomRight
	case TopRight:
		return BottomLeft
	case BottomLeft:
		return TopRight
	case BottomRight:
		return TopLeft
	}
	return d
}

func (s Square) String() string {
	return fmt.Sprintf("(%d,%d)", s.X, s.Y)
}

// Add returns the component-wise sum of two squares.
func (s Square) Add(other Square) Square {
	return Square{X: s.X + other.X, Y: s.Y + other.Y}
}

// Neighbor returns the adjacent square in the given direction.
func (s Square) Neighbor(d Direction) Square {
	switch d {
	case Top:
		return Square{s.X, s.Y + 1}
	case Bottom:
		return Square{s.X, s.Y - 1}
	case Left:
		return Square{s.X - 1, s.Y}
	case Right:
		return Square{s.X + 1, s.Y}
	case TopLeft:
		return Square{s.X - 1, s.Y + 1}
	case TopRight:
		return Square{s.X + 1, s.Y + 1}
	case BottomLeft:
		return Square{s.X - 1, s.Y - 1}
	case BottomRight:
		return Square{s.X + 1, s.Y - 1}
	}
	return s
}

// NeighborsOrthogonal returns the four orthogonally adjacent squares.
func (s Square) NeighborsOrthogonal() [4]Square {
	var out [4]Square
	for i, d := range orthogonalDirections {
		out[i] = s.Neighbor(d)
	}
	return out
}

// NeighborsDiagonal returns the four diagonally adjacent squares.
func (s Square) NeighborsDiagonal() [4]Square {
	var out [4]Square
	for i, d := range diagonalDirections {
		out[i] = s.Neighbor(d)
	}
	return out
}

// NeighborsAll returns all eight adjacent squares, orthogonal first.
func (s Square) NeighborsAll() [8]Square {
	var out [8]Square
	for i, d := range allDirections {
		out[i] = s.Neighbor(d)
	}
	return out
}

// Manhattan returns the Manhattan distance between two squares.
func (s Square) Manhattan(other Square) int {
	dx := s.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := s.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
