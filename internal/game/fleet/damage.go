package fleet

import "github.com/broadside/broadside-server-go/internal/game/counters"

// Hit describes the outcome of applying damage to a ship.
type Hit struct {
	Absorbed    int
	HullDamage  int
	ShieldBroke bool
	Destroyed   bool
}

// Dealt is the total damage the hit accounted for.
func (h Hit) Dealt() int {
	return h.Absorbed + h.HullDamage
}

// TakeHit applies attack damage through the shield. An armed shield with a
// positive rating absorbs up to its rating once, then drops and starts
// cooling down for cooldown owner-turns.
func (s *Ship) TakeHit(amount, cooldown int) Hit {
	var hit Hit
	if !s.Alive || amount <= 0 {
		return hit
	}
	if rating := s.ShieldRating(); s.ShieldActive && rating > 0 {
		absorbed := min(amount, rating)
		amount -= absorbed
		hit.Absorbed = absorbed
		hit.ShieldBroke = true
		s.ShieldActive = false
		s.Timers.Set(counters.ShieldCooldown, cooldown)
	}
	hit.HullDamage, hit.Destroyed = s.damageHull(amount)
	return hit
}

// TakeBypass applies damage straight to the hull, ignoring any shield.
func (s *Ship) TakeBypass(amount int) Hit {
	var hit Hit
	if !s.Alive || amount <= 0 {
		return hit
	}
	hit.HullDamage, hit.Destroyed = s.damageHull(amount)
	return hit
}

func (s *Ship) damageHull(amount int) (int, bool) {
	if amount <= 0 {
		return 0, false
	}
	s.Hull -= amount
	if s.Hull <= 0 {
		s.Hull = 0
		s.Alive = false
		return amount, true
	}
	return amount, false
}
