package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/broadside/broadside-server-go/internal/game/cards"
)

// Checksum computes a deterministic SHA-256 of the state. Two states with
// equal checksums are equal for every rule the engine evaluates.
func (s *State) Checksum() string {
	sum := sha256.Sum256([]byte(s.buildDeterministicRepresentation()))
	return hex.EncodeToString(sum[:])
}

// buildDeterministicRepresentation creates a canonical string
// representation of the state.
func (s *State) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%d|%d|%s|%t|%d|%s|%d|%d|%d|%d\n",
		s.Turn.TurnNumber,
		s.Turn.Active,
		s.Turn.Phase,
		s.Turn.ActionUsed,
		s.FleetCap,
		s.Pending.Kind,
		s.Pending.CardIndex,
		s.Pending.PairIndex,
		s.Pending.Attacker,
		s.Winner,
	)
	fmt.Fprintf(&buf, "END:%t|%t|%s\n", s.DeckOutChecked, s.GameOver, s.WinReason)

	if s.Deck != nil {
		buf.WriteString("DECK:")
		writeCards(&buf, s.Deck.Cards)
		buf.WriteByte('\n')
	}

	for _, p := range s.Players {
		if p == nil {
			continue
		}
		fmt.Fprintf(&buf, "PLAYER:%d|%s|%t|%d\n", p.ID, p.Name, p.HasTakenFirstTurnBonusDraw, p.Launched)
		buf.WriteString("  HAND:")
		writeCards(&buf, p.Hand)
		buf.WriteByte('\n')

		for _, ship := range p.Ships {
			fmt.Fprintf(&buf, "  SHIP:%s|%s|%v|%v|%v|%v|%d|%d|%d|%t|%t|%t|%t\n",
				ship.ID,
				ship.Name,
				ship.Clubs,
				ship.Hearts,
				ship.Diamonds,
				ship.Spades,
				ship.EngineFloor,
				ship.Hull,
				ship.HullMax,
				ship.ShieldActive,
				ship.Alive,
				ship.Flagship,
				ship.ReflectPending,
			)
			for _, counter := range ship.Timers.ToView() {
				fmt.Fprintf(&buf, "    TIMER:%s=%d\n", counter.Name, counter.Count)
			}
		}
	}

	return buf.String()
}

func writeCards(buf *bytes.Buffer, list []cards.Card) {
	for i, c := range list {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(c.Label())
	}
}
