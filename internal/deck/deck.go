// Package deck models the 52-card deck as plain integers and shuffles it
// with a caller-supplied random source.
package deck

import "github.com/lox/trashsim/internal/randutil"

// Size is the number of cards in a full deck.
const Size = NumSuits * NumRanks

// New returns the 52 cards 0..51 in canonical order.
func New() []Card {
	cards := make([]Card, Size)
	Fill(cards)
	return cards
}

// Fill rewrites cards with the canonical order 0..len(cards)-1 so a batch
// worker can reuse one buffer per trial.
func Fill(cards []Card) {
	for i := range cards {
		cards[i] = Card(i)
	}
}

// Shuffle permutes cards in place with a Fisher-Yates walk from the last
// index down to 1. src must return values in [0,1); anything outside that
// range is clamped so the walk stays a permutation.
func Shuffle(cards []Card, src randutil.Source) {
	for i := len(cards) - 1; i > 0; i-- {
		j := int(src.Float64() * float64(i+1))
		if j > i {
			j = i
		} else if j < 0 {
			j = 0
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Shuffled returns a new canonical deck shuffled with src.
func Shuffled(src randutil.Source) []Card {
	cards := New()
	Shuffle(cards, src)
	return cards
}
