// Package stacking derives ship stats from the ranks installed per suit.
//
// Every suit aggregates the same way: the best card counts in full and each
// additional card adds one.
package stacking

import "fmt"

// Aggregate returns 0 for an empty stack, otherwise max(values) + (count-1).
func Aggregate(values []int) int {
	if len(values) == 0 {
		return 0
	}
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	return best + len(values) - 1
}

// Usable filters weapon ranks down to those the engine can power.
func Usable(weapons []int, engine int) []int {
	var out []int
	for _, w := range weapons {
		if w <= engine {
			out = append(out, w)
		}
	}
	return out
}

// Role is the derived ship classification.
type Role int

const (
	RoleSupport Role = iota
	RoleSpeed
	RoleTank
)

var roleNames = map[Role]string{
	RoleSupport: "Support",
	RoleSpeed:   "Speed",
	RoleTank:    "Tank",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("ROLE_%d", int(r))
}

// SpeedBonus is added to the damage of Speed ships, and is the flat damage of
// a Speed ship with nothing usable.
const SpeedBonus = 2

// Classify returns the role for a ship with the given weapon pool size,
// engine and maximum hull.
func Classify(weaponCount, engine, hullMax int) Role {
	switch {
	case weaponCount == 0 || engine == hullMax:
		return RoleSupport
	case engine > hullMax:
		return RoleSpeed
	default:
		return RoleTank
	}
}

// Damage computes attack output from the usable weapon ranks and role.
func Damage(usable []int, role Role) int {
	if len(usable) == 0 {
		if role == RoleSpeed {
			return SpeedBonus
		}
		return 0
	}
	dmg := Aggregate(usable)
	if role == RoleSpeed {
		dmg += SpeedBonus
	}
	if dmg < 0 {
		return 0
	}
	return dmg
}

// Delta returns how much Aggregate changes when rank is added to values.
func Delta(values []int, rank int) int {
	next := make([]int, len(values), len(values)+1)
	copy(next, values)
	next = append(next, rank)
	return Aggregate(next) - Aggregate(values)
}
