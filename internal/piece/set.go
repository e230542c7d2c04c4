package piece

// roster lists how many of each piece one side fields. Ranks index troops.
var roster = []struct {
	kind  Kind
	rank  int
	count int
}{
	{Bomb, 0, 6},
	{Flag, 0, 1},
	{Marshal, 0, 1},
	{Spy, 0, 1},
	{Scout, 0, 8},
	{Miner, 0, 5},
	{Troop, 9, 1},
	{Troop, 8, 2},
	{Troop, 7, 3},
	{Troop, 6, 4},
	{Troop, 5, 4},
	{Troop, 4, 4},
}

// SetSize is the number of pieces each side places during setup.
const SetSize = 40

// StandardSet returns the 40 pieces one side places during setup.
func StandardSet(color Color) []Piece {
	out := make([]Piece, 0, SetSize)
	for _, r := range roster {
		var p Piece
		if r.kind == Troop {
			p = Must(NewTroop(color, r.rank))
		} else {
			p = Must(New(r.kind, color))
		}
		for i := 0; i < r.count; i++ {
			out = append(out, p)
		}
	}
	return out
}

// Counts tallies pieces by value.
func Counts(ps []Piece) map[Piece]int {
	m := make(map[Piece]int, len(roster))
	for _, p := range ps {
		m[p]++
	}
	return m
}
