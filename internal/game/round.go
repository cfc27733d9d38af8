package game

import (
	"errors"
	"fmt"

	"github.com/lox/trashsim/internal/deck"
	"github.com/lox/trashsim/internal/randutil"
	"github.com/lox/trashsim/internal/rules"
)

// ErrMisconfigured is returned when the deck cannot cover the deal.
var ErrMisconfigured = errors.New("misconfigured deal")

// Phase is where a Round is in its state machine.
type Phase int

const (
	Dealing Phase = iota
	Drawing
	Placing
	Completed
	Exhausted
)

func (p Phase) String() string {
	switch p {
	case Dealing:
		return "dealing"
	case Drawing:
		return "drawing"
	case Placing:
		return "placing"
	case Completed:
		return "completed"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further card will be played.
func (p Phase) Terminal() bool {
	return p == Completed || p == Exhausted
}

// Result is the outcome of one first round.
type Result struct {
	FirstTurnPerfect bool
	DrawsTaken       int
	BoardCompleted   bool
	SlotsFilled      int
}

// Round is the state of one trial.
type Round struct {
	rules rules.Config

	slots  []deck.Card
	hidden []deck.Card
	stock  []deck.Card
	next   int

	discard    deck.Card
	hasDiscard bool

	filled  int
	draws   int
	perfect bool
	phase   Phase
}

// NewRound allocates a round for cfg. The config is copied.
func NewRound(cfg rules.Config) *Round {
	size := cfg.BoardSize
	if size < 0 {
		size = 0
	}
	return &Round{
		rules:  cfg,
		slots:  make([]deck.Card, size),
		hidden: make([]deck.Card, size),
		phase:  Dealing,
	}
}

// Deal resets the round and deals from cards: BoardSize cards face down in
// deck order, then the initial discard if the rules use one. The rest of
// cards is the stock. cards is read but never written.
func (r *Round) Deal(cards []deck.Card) error {
	r.phase = Dealing
	size := r.rules.BoardSize
	if size <= 0 {
		return fmt.Errorf("%w: board size %d", ErrMisconfigured, size)
	}
	if len(cards) < size {
		return fmt.Errorf("%w: deck exhausted while dealing (%d cards for %d slots)", ErrMisconfigured, len(cards), size)
	}

	for i := 0; i < size; i++ {
		r.slots[i] = deck.NoCard
		r.hidden[i] = cards[i]
	}
	index := size

	r.discard, r.hasDiscard = deck.NoCard, false
	if r.rules.UseInitialDiscard {
		if index >= len(cards) {
			return fmt.Errorf("%w: deck exhausted while setting discard pile", ErrMisconfigured)
		}
		r.discard, r.hasDiscard = cards[index], true
		index++
	}

	r.stock = cards
	r.next = index
	r.filled = 0
	r.draws = 0
	r.perfect = true
	r.phase = Drawing
	return nil
}

// Play runs the dealt round to a terminal phase. Calling Play on a round
// that was not dealt, or has already finished, returns its current result.
func (r *Round) Play() Result {
	if r.phase != Drawing {
		return r.result()
	}

	card, ok := r.draw()
	for ok {
		r.phase = Placing
		slot, placeable := r.chooseSlot(card)
		if !placeable {
			r.perfect = false
			r.discard, r.hasDiscard = card, true
			card, ok = r.draw()
			continue
		}

		revealed, hasRevealed := r.place(card, slot)
		if r.filled == r.rules.BoardSize {
			r.phase = Completed
			return r.result()
		}

		if hasRevealed {
			// The turned-over card is played without a draw.
			card = revealed
			continue
		}
		card, ok = r.draw()
	}

	r.perfect = false
	r.phase = Exhausted
	return r.result()
}

// Phase returns the current phase.
func (r *Round) Phase() Phase { return r.phase }

// SlotsFilled returns how many slots hold a card.
func (r *Round) SlotsFilled() int { return r.filled }

// Slot returns the card placed in slot i, if any.
func (r *Round) Slot(i int) (deck.Card, bool) {
	if i < 0 || i >= len(r.slots) || r.slots[i] == deck.NoCard {
		return deck.NoCard, false
	}
	return r.slots[i], true
}

// Hidden returns the face-down card still under slot i, if any.
func (r *Round) Hidden(i int) (deck.Card, bool) {
	if i < 0 || i >= len(r.hidden) || r.hidden[i] == deck.NoCard {
		return deck.NoCard, false
	}
	return r.hidden[i], true
}

// Discard returns the face-up discard, if any.
func (r *Round) Discard() (deck.Card, bool) {
	return r.discard, r.hasDiscard
}

// StockRemaining is the number of undrawn stock cards.
func (r *Round) StockRemaining() int {
	return len(r.stock) - r.next
}

func (r *Round) result() Result {
	return Result{
		FirstTurnPerfect: r.perfect && r.phase == Completed,
		DrawsTaken:       r.draws,
		BoardCompleted:   r.phase == Completed,
		SlotsFilled:      r.filled,
	}
}

// draw takes the discard if it can be placed, otherwise the next stock card.
func (r *Round) draw() (deck.Card, bool) {
	r.phase = Drawing

	if r.rules.AllowDiscardDraw && r.hasDiscard {
		if _, ok := r.chooseSlot(r.discard); ok {
			card := r.discard
			r.discard, r.hasDiscard = deck.NoCard, false
			r.draws++
			return card, true
		}
	}

	if r.next >= len(r.stock) {
		return deck.NoCard, false
	}
	card := r.stock[r.next]
	r.next++
	r.draws++
	return card, true
}

// chooseSlot applies the placement rule: wild cards take the lowest empty
// slot, dead cards never place, and Ace through Ten go in the slot equal to
// their rank while it is empty and on the board.
func (r *Round) chooseSlot(card deck.Card) (int, bool) {
	rank := card.Rank()

	if r.rules.IsWild(rank) {
		for i, c := range r.slots {
			if c == deck.NoCard {
				return i, true
			}
		}
		return 0, false
	}

	if r.rules.IsDead(rank) {
		return 0, false
	}

	slot := int(rank)
	if slot >= 0 && rank <= deck.Ten && slot < r.rules.BoardSize && r.slots[slot] == deck.NoCard {
		return slot, true
	}
	return 0, false
}

// place fills slot and turns over the card hidden beneath it.
func (r *Round) place(card deck.Card, slot int) (deck.Card, bool) {
	r.slots[slot] = card
	r.filled++

	revealed := r.hidden[slot]
	r.hidden[slot] = deck.NoCard
	if revealed == deck.NoCard {
		return deck.NoCard, false
	}
	return revealed, true
}

// SimulateFromDeck plays one round on an already shuffled deck.
func SimulateFromDeck(cards []deck.Card, cfg rules.Config) (Result, error) {
	r := NewRound(cfg)
	if err := r.Deal(cards); err != nil {
		return Result{}, err
	}
	return r.Play(), nil
}

// Simulate shuffles a fresh deck with src and plays one round on it.
func Simulate(cfg rules.Config, src randutil.Source) (Result, error) {
	return SimulateFromDeck(deck.Shuffled(src), cfg)
}
