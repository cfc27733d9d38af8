// Package rules describes a Trash variant: board size, wild and dead ranks,
// and how the discard pile behaves.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/trashsim/internal/deck"
)

// DefaultName identifies the Jack-wild, Queen/King-dead variant with a
// face-up initial discard.
const DefaultName = "jack-wild-discard"

// DefaultBoardSize is one slot per rank from Ace to Ten.
const DefaultBoardSize = 10

// ErrInvalidConfig is returned (wrapped) by Validate.
var ErrInvalidConfig = errors.New("invalid rule configuration")

// RankSet is a bitset over the thirteen ranks.
type RankSet uint16

const allRanks RankSet = 1<<deck.NumRanks - 1

// NewRankSet returns a set holding ranks. Out-of-range ranks are kept so
// Validate can report them.
func NewRankSet(ranks ...deck.Rank) RankSet {
	var s RankSet
	for _, r := range ranks {
		if r >= 0 && r < 16 {
			s |= 1 << uint(r)
		}
	}
	return s
}

// Has reports whether r is in the set.
func (s RankSet) Has(r deck.Rank) bool {
	return r >= 0 && r < 16 && s&(1<<uint(r)) != 0
}

// Ranks lists the members in ascending order.
func (s RankSet) Ranks() []deck.Rank {
	var ranks []deck.Rank
	for r := deck.Rank(0); r < 16; r++ {
		if s.Has(r) {
			ranks = append(ranks, r)
		}
	}
	return ranks
}

func (s RankSet) String() string {
	ranks := s.Ranks()
	parts := make([]string, len(ranks))
	for i, r := range ranks {
		parts[i] = r.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Config is one rule variant. It is a small value type; the simulator
// copies it into every round and never writes to it.
type Config struct {
	Name              string
	BoardSize         int
	AllowDiscardDraw  bool
	UseInitialDiscard bool
	WildRanks         RankSet
	DeadRanks         RankSet
}

// Default returns the jack-wild-discard variant.
func Default() Config {
	return Config{
		Name:              DefaultName,
		BoardSize:         DefaultBoardSize,
		AllowDiscardDraw:  true,
		UseInitialDiscard: true,
		WildRanks:         NewRankSet(deck.Jack),
		DeadRanks:         NewRankSet(deck.Queen, deck.King),
	}
}

// DealSize is the number of cards removed from the deck before the first draw.
func (c Config) DealSize() int {
	if c.UseInitialDiscard {
		return c.BoardSize + 1
	}
	return c.BoardSize
}

// IsWild reports whether r may fill any empty slot.
func (c Config) IsWild(r deck.Rank) bool { return c.WildRanks.Has(r) }

// IsDead reports whether r can never be placed.
func (c Config) IsDead(r deck.Rank) bool { return c.DeadRanks.Has(r) }

// Validate checks the config against a full deck.
func (c Config) Validate() error {
	if c.BoardSize <= 0 {
		return fmt.Errorf("%w: board size must be positive, got %d", ErrInvalidConfig, c.BoardSize)
	}
	if c.DealSize() > deck.Size {
		return fmt.Errorf("%w: dealing %d cards needs more than a %d-card deck", ErrInvalidConfig, c.DealSize(), deck.Size)
	}
	if extra := (c.WildRanks | c.DeadRanks) &^ allRanks; extra != 0 {
		return fmt.Errorf("%w: ranks %s are outside A-K", ErrInvalidConfig, extra)
	}
	if both := c.WildRanks & c.DeadRanks; both != 0 {
		return fmt.Errorf("%w: ranks %s are both wild and dead", ErrInvalidConfig, both)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s(board=%d wild=%s dead=%s discardDraw=%t initialDiscard=%t)",
		c.Name, c.BoardSize, c.WildRanks, c.DeadRanks, c.AllowDiscardDraw, c.UseInitialDiscard)
}
