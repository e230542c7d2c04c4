package piece

import "fmt"

// Confront resolves an attack of attacker onto defender's square.
// defender is nil when the destination is empty.
//
// The returned piece is what ends up on the destination square; nil means
// both pieces were destroyed. Rules, first match wins:
//  1. no defender: attacker.
//  2. defender is a Flag: the Flag (the caller treats this as a win).
//  3. defender is a Bomb: attacker if it is a Miner, otherwise the Bomb.
//  4. Spy attacking a Marshal: the Spy.
//  5. higher rank wins, equal ranks destroy each other.
//
// Bombs and Flags never attack; asking them to yields ErrUnsupported.
func Confront(attacker Piece, defender *Piece) (*Piece, error) {
	if !attacker.Movable() {
		return nil, fmt.Errorf("%w: %s cannot attack", ErrUnsupported, attacker.Kind)
	}
	if defender == nil {
		return &attacker, nil
	}
	d := *defender

	switch {
	case d.Kind == Flag:
		return &d, nil
	case d.Kind == Bomb:
		if attacker.Kind == Miner {
			return &attacker, nil
		}
		return &d, nil
	case d.Kind == Marshal && attacker.Kind == Spy:
		return &attacker, nil
	}

	switch {
	case attacker.Rank > d.Rank:
		return &attacker, nil
	case attacker.Rank < d.Rank:
		return &d, nil
	}
	return nil, nil
}
