package stego

import "errors"

// Match is the result of a successful brute force search.
type Match struct {
	Message string
	Config  BitConfig
	// Attempts is the number of candidates tried, including the match.
	Attempts int
}

// BruteForce tries every bit configuration from Candidates, in order, and
// returns the first whose extraction ends in terminator.
//
// Candidates are tried one at a time so the reported match is always the
// first in enumeration order. ErrNoMessageFound is returned when all of them
// fail.
func BruteForce(grid *Grid, order Order, terminator string) (*Match, error) {
	if err := grid.checkOrder(order); err != nil {
		return nil, err
	}

	var it Candidates
	attempts := 0
	for cfg, ok := it.Next(); ok; cfg, ok = it.Next() {
		attempts++
		msg, err := extract(grid, order, cfg.Channels(), terminator)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &Match{Message: msg, Config: cfg, Attempts: attempts}, nil
	}
	return nil, ErrNoMessageFound
}
