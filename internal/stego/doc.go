// Package stego hides ASCII messages in the least significant bits of an
// image's color channels and recovers them.
//
// The package works on a Grid of raw 8-bit channel values and never touches
// files; decoding and encoding images is the job of the imaging package.
//
// # Bit Layout
//
// A message is encoded as its bytes followed by Terminator, each byte expanded
// to 8 bits most-significant first. The resulting bitstream is written into
// (pixel, channel) slots:
//
//   - Pixels are visited in an Order: identity, or a permutation derived from
//     a seed string.
//   - Within a pixel, channels are visited R, G, B, skipping channels whose
//     bit count is zero. Alpha is never used.
//   - Each slot receives the next b bits of the stream in its low b bits,
//     where b is the channel's entry in the BitConfig.
//
// Extraction must use the same Order and BitConfig as embedding. A different
// seed or bit configuration yields garbage, which is normally reported as
// ErrNotFound because a non-ASCII byte turns up before the terminator.
//
// # Capacity
//
// The number of message characters an image can hold is
//
//	pixels * (r + g + b) / 8 - len(Terminator)
//
// using integer division.
//
// # Brute Force
//
// When the bit configuration is unknown, BruteForce tries every configuration
// in lexicographic (R, G, B) order and returns the first one whose extraction
// ends in the terminator.
//
// # Thread Safety
//
// Embed mutates the grid and needs exclusive access. Extract and BruteForce
// only read the grid and may run concurrently on the same Grid.
package stego
