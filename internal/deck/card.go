package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit. Suits never affect the rules, they only keep
// the 52 cards distinct.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// NumSuits is the number of suits in a standard deck.
const NumSuits = 4

// String returns the single-letter form of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Rank represents a card rank, Ace low.
type Rank int

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// NumRanks is the number of ranks in a suit.
const NumRanks = 13

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		if r > Ace && r < Ten {
			return string(rune('1' + int(r)))
		}
		return "?"
	}
}

// Card is a rank/suit pair packed into [0,52): rank + 13*suit.
type Card int

// NoCard marks an empty slot.
const NoCard Card = -1

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card(int(suit)*NumRanks + int(rank))
}

// Rank returns card mod 13.
func (c Card) Rank() Rank {
	return Rank(int(c) % NumRanks)
}

// Suit returns the suit the card was dealt from.
func (c Card) Suit() Suit {
	return Suit(int(c) / NumRanks)
}

// Valid reports whether c is one of the 52 cards.
func (c Card) Valid() bool {
	return c >= 0 && int(c) < Size
}

// String returns the two-character form of a card (e.g., "As", "Td")
func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return c.Rank().String() + c.Suit().String()
}

// ParseRank reads a rank written as A, 2-9, T (or 10), J, Q or K.
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return Ace, nil
	case "T", "10":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	}
	if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
		return Rank(s[0] - '1'), nil
	}
	return 0, fmt.Errorf("invalid rank %q", s)
}

func parseSuit(c byte) (Suit, error) {
	switch c {
	case 's', 'S':
		return Spades, nil
	case 'h', 'H':
		return Hearts, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'c', 'C':
		return Clubs, nil
	}
	return 0, fmt.Errorf("invalid suit %q", c)
}

// ParseCard reads a single card such as "As" or "10h".
func ParseCard(s string) (Card, error) {
	if len(s) < 2 || len(s) > 3 {
		return NoCard, fmt.Errorf("invalid card %q", s)
	}
	rank, err := ParseRank(s[:len(s)-1])
	if err != nil {
		return NoCard, fmt.Errorf("card %q: %w", s, err)
	}
	suit, err := parseSuit(s[len(s)-1])
	if err != nil {
		return NoCard, fmt.Errorf("card %q: %w", s, err)
	}
	return NewCard(rank, suit), nil
}

// ParseCards reads a run of cards ("AsKd7h" or "10h 9s As"). A rank is one
// character, or "10" for ten, followed by a suit. Whitespace and commas
// between cards are ignored.
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(" ", "", ",", "", "\t", "", "\n", "").Replace(s)

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); {
		width := 2
		if s[i] == '1' && i+1 < len(s) && s[i+1] == '0' {
			width = 3
		}
		if i+width > len(s) {
			return nil, fmt.Errorf("card string %q ends with incomplete card %q", s, s[i:])
		}
		card, err := ParseCard(s[i : i+width])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
		i += width
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals in tests; it panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
