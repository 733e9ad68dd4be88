// Package ai implements the computer opponents. Each tier turns a private
// copy of the state into one game.Action; the engine applies it through
// the same handlers a human uses.
package ai

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/game/cards"
	"github.com/broadside/broadside-server-go/internal/game/fleet"
)

// Difficulty selects an AI tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts a tier name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Normal, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown ai difficulty: %q", s)
	}
}

// NewPolicy creates the policy for a tier. rng only matters for Easy; nil
// seeds one from the clock.
func NewPolicy(difficulty Difficulty, rng *rand.Rand) (game.Policy, error) {
	switch difficulty {
	case Easy:
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		return &RandomPolicy{rng: rng}, nil
	case Normal:
		return NewChainPolicy(string(Normal), NormalRules), nil
	case Hard:
		return NewChainPolicy(string(Hard), HardRules), nil
	default:
		return nil, fmt.Errorf("unknown ai difficulty: %q", difficulty)
	}
}

// ChainPolicy plays the first rule whose precondition holds and ends the
// turn when none does.
type ChainPolicy struct {
	name  string
	rules []Rule
}

// NewChainPolicy builds a policy from an ordered rule list.
func NewChainPolicy(name string, rules []Rule) *ChainPolicy {
	return &ChainPolicy{name: name, rules: rules}
}

func (p *ChainPolicy) Name() string {
	return p.name
}

// Decide implements game.Policy.
func (p *ChainPolicy) Decide(s *game.State, self int) (game.Action, error) {
	action, _ := p.Explain(s, self)
	return action, nil
}

// Explain is Decide plus the name of the rule that fired, or "end_turn".
func (p *ChainPolicy) Explain(s *game.State, self int) (game.Action, string) {
	c := NewContext(s, self)
	for _, r := range p.rules {
		if r.When(c) {
			return r.Then(c), r.Name
		}
	}
	return game.EndTurn(), "end_turn"
}

// RandomPolicy is the Easy tier: a uniform pick among the plays that are
// currently possible.
type RandomPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (p *RandomPolicy) Name() string {
	return string(Easy)
}

// Decide implements game.Policy.
func (p *RandomPolicy) Decide(s *game.State, self int) (game.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := NewContext(s, self)
	var options []game.Action
	for _, r := range []Rule{CrownFirst, p.randomSpecial(), p.randomWeapon(), LaunchShip, AttackAny} {
		if r.When(c) {
			options = append(options, r.Then(c))
		}
	}
	if len(options) == 0 {
		return game.EndTurn(), nil
	}
	return options[p.rng.Intn(len(options))], nil
}

// randomSpecial plays a random special that has a target. The card is
// drawn once per decision so When and Then agree.
func (p *RandomPolicy) randomSpecial() Rule {
	pick := -1
	return plan("random_special", func(c *Context) (game.Action, bool) {
		var playable []int
		for i, card := range c.Player.Hand {
			if _, ok := specialTarget(c, card); ok && card.IsSpecial() {
				playable = append(playable, i)
			}
		}
		if len(playable) == 0 {
			return game.Action{}, false
		}
		if pick < 0 {
			pick = playable[p.rng.Intn(len(playable))]
		}
		ref, _ := specialTarget(c, c.Player.Hand[pick])
		return game.Special(pick, ref), true
	})
}

// randomWeapon installs a random weapon that fits some ship onto the first
// ship it fits.
func (p *RandomPolicy) randomWeapon() Rule {
	pick := -1
	return plan("random_weapon", func(c *Context) (game.Action, bool) {
		var fitting []int
		for i, card := range c.Player.Hand {
			if card.IsWeapon() && len(fitsOn(c, card)) > 0 {
				fitting = append(fitting, i)
			}
		}
		if len(fitting) == 0 {
			return game.Action{}, false
		}
		if pick < 0 {
			pick = fitting[p.rng.Intn(len(fitting))]
		}
		return game.Build(pick, fitsOn(c, c.Player.Hand[pick])[0].ref), true
	})
}

func fitsOn(c *Context, card cards.Card) []candidate {
	return filter(c.own(), func(s *fleet.Ship) bool { return s.CanInstall(card) })
}
