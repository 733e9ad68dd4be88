package cards

import (
	"fmt"
	"strconv"
)

// Suit identifies which stack a card feeds. Jokers carry no suit stack.
type Suit int

const (
	Clubs Suit = iota
	Hearts
	Diamonds
	Spades
	Joker
)

var suitNames = map[Suit]string{
	Clubs:    "CLUBS",
	Hearts:   "HEARTS",
	Diamonds: "DIAMONDS",
	Spades:   "SPADES",
	Joker:    "JOKER",
}

var suitSymbols = map[Suit]string{
	Clubs:    "♣",
	Hearts:   "♥",
	Diamonds: "♦",
	Spades:   "♠",
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SUIT_%d", int(s))
}

// Symbol returns the glyph used in log messages, empty for jokers.
func (s Suit) Symbol() string {
	return suitSymbols[s]
}

// StackSuits are the four suits that build ship stats.
var StackSuits = []Suit{Clubs, Hearts, Diamonds, Spades}

// Rank constants. Jokers use RankJoker.
const (
	RankJoker = 0
	Ace       = 1
	Jack      = 11
	Queen     = 12
	King      = 13
)

// Card is an immutable playing card.
type Card struct {
	Suit Suit
	Rank int
}

// New returns a suited card.
func New(suit Suit, rank int) Card {
	return Card{Suit: suit, Rank: rank}
}

// NewJoker returns a joker.
func NewJoker() Card {
	return Card{Suit: Joker, Rank: RankJoker}
}

// IsJoker reports whether the card is a joker.
func (c Card) IsJoker() bool {
	return c.Suit == Joker
}

// IsAce reports whether the card can be spent on a crown.
func (c Card) IsAce() bool {
	return !c.IsJoker() && c.Rank == Ace
}

// IsRoyalSpade reports whether the card is J♠, Q♠ or K♠.
func (c Card) IsRoyalSpade() bool {
	return c.Suit == Spades && c.Rank >= Jack && c.Rank <= King
}

// IsSpecial reports whether playing the card goes straight to special targeting.
func (c Card) IsSpecial() bool {
	return c.IsJoker() || c.IsRoyalSpade()
}

// IsWeapon reports whether the card is an installable spade (2-10).
func (c Card) IsWeapon() bool {
	return c.Suit == Spades && c.Rank >= 2 && c.Rank <= 10
}

// Label renders the card as it appears in the log, e.g. "A♣", "10♥", "Joker".
func (c Card) Label() string {
	if c.IsJoker() {
		return "Joker"
	}
	return rankLabel(c.Rank) + c.Suit.Symbol()
}

func (c Card) String() string {
	return c.Label()
}

func rankLabel(rank int) string {
	switch rank {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return strconv.Itoa(rank)
	}
}
