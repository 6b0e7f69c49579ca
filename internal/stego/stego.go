package stego

// Hide embeds msg into grid using cfg and seed.
//
// Checks run in a fixed order before anything is written: the pixel count,
// then capacity (*CharacterOverflowError), then the terminator and ASCII
// checks. grid is only modified when Hide returns nil.
func Hide(grid *Grid, cfg BitConfig, msg, seed string) error {
	if !cfg.Valid() {
		return ErrInvalidConfig
	}
	order, err := NewOrder(grid.Pixels(), seed)
	if err != nil {
		return err
	}
	if err := CheckCapacity(len(order), cfg, len(msg), Terminator); err != nil {
		return err
	}

	bits, err := Encode(msg, Terminator)
	if err != nil {
		return err
	}
	return Embed(grid, order, cfg, bits)
}

// Reveal extracts a message embedded with a known cfg and seed.
func Reveal(grid *Grid, cfg BitConfig, seed string) (string, error) {
	order, err := NewOrder(grid.Pixels(), seed)
	if err != nil {
		return "", err
	}
	return Extract(grid, order, cfg, Terminator)
}

// RevealBrute extracts a message embedded with an unknown bit configuration.
func RevealBrute(grid *Grid, seed string) (*Match, error) {
	order, err := NewOrder(grid.Pixels(), seed)
	if err != nil {
		return nil, err
	}
	return BruteForce(grid, order, Terminator)
}
