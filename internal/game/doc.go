// Package game plays the first round of a single-player game of Trash.
//
// A Round is dealt from a shuffled deck and then played until the board is
// full or no card can be drawn:
//
//	r := game.NewRound(rules.Default())
//	if err := r.Deal(cards); err != nil {
//	    return err // deck too short for the deal
//	}
//	result := r.Play()
//
// # Phases
//
// Dealing puts BoardSize cards face down under the slots and optionally
// turns one card face up as the discard. Drawing takes the discard when it
// can be placed, otherwise the next stock card. Placing puts the card in
// its slot and turns over the hidden card underneath, which is placed next
// without a draw. A card that cannot be placed goes on the discard and the
// round is no longer perfect.
//
// # Reuse
//
// A Round keeps its slot buffers between deals, so a batch worker can play
// many trials with one allocation. Deal never modifies the cards it is given.
package game
