package cards

import (
	"math/rand"
)

// DeckSize is the number of cards in a fresh deck: 4 suits of 13 plus 2 jokers.
const DeckSize = 54

// Deck is an ordered pile of cards. Cards are drawn from the end.
type Deck struct {
	Cards []Card
}

// NewDeck builds and shuffles a full deck using rng.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{Cards: make([]Card, 0, DeckSize)}
	for _, suit := range StackSuits {
		for rank := Ace; rank <= King; rank++ {
			d.Cards = append(d.Cards, New(suit, rank))
		}
	}
	d.Cards = append(d.Cards, NewJoker(), NewJoker())
	if rng != nil {
		rng.Shuffle(len(d.Cards), func(i, j int) {
			d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
		})
	}
	return d
}

// Len returns the number of cards left.
func (d *Deck) Len() int {
	return len(d.Cards)
}

// Empty reports whether the deck is exhausted.
func (d *Deck) Empty() bool {
	return len(d.Cards) == 0
}

// Draw removes up to n cards from the top of the deck. The result may be
// shorter than n when the deck runs out.
func (d *Deck) Draw(n int) []Card {
	if n <= 0 || len(d.Cards) == 0 {
		return nil
	}
	if n > len(d.Cards) {
		n = len(d.Cards)
	}
	cut := len(d.Cards) - n
	drawn := make([]Card, n)
	copy(drawn, d.Cards[cut:])
	d.Cards = d.Cards[:cut]
	return drawn
}

// Splice removes and returns the first card matching pred.
func (d *Deck) Splice(pred func(Card) bool) (Card, bool) {
	for i, c := range d.Cards {
		if pred(c) {
			d.Cards = append(d.Cards[:i], d.Cards[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// Copy returns an independent copy of the deck.
func (d *Deck) Copy() *Deck {
	if d == nil {
		return nil
	}
	out := &Deck{}
	if d.Cards != nil {
		out.Cards = make([]Card, len(d.Cards))
		copy(out.Cards, d.Cards)
	}
	return out
}
