package sim

import "fmt"

const (
	// AttackCooldown is the seconds between two swings of the same fighter.
	AttackCooldown = 1.0
	// KillBounty is paid to the side that lands a killing blow.
	KillBounty = 1
)

// attackOrder is emitted by the cooldown phase for every fighter ready to
// swing. The attacker's skills are captured so the blow can be resolved even
// if the attacker is removed before its order is drained.
type attackOrder struct {
	attacker EntityID
	defender EntityID
	skills   Skills
	side     Side
}

// collectAttacks is the parallel half of combat. Every fighter's cooldown
// ticks down, and each fighter that is ready and engaged yields an order.
// A worker only ever reads and writes the fighters of its own chunk. Orders
// come back in ascending attacker ID.
func collectAttacks(store *Store, dt float64, workers int) []attackOrder {
	ids := store.FighterIDs()
	return parallelChunks(ids, workers, func(chunk []EntityID) []attackOrder {
		var out []attackOrder
		for _, id := range chunk {
			f := store.fighters[id]
			f.AttackCooldown -= dt
			if f.AttackCooldown > 0 {
				continue
			}
			f.AttackCooldown = 0
			if f.Fighting == nil {
				continue
			}
			out = append(out, attackOrder{
				attacker: id,
				defender: *f.Fighting,
				skills:   f.Skills,
				side:     f.Side,
			})
		}
		return out
	})
}

// roll draws uniformly from [lo, hi]. An empty range yields 0.
func (w *World) roll(lo, hi uint8) uint8 {
	if hi < lo {
		return 0
	}
	return lo + uint8(w.rng.Intn(int(hi)-int(lo)+1))
}

// resolveAttacks is the serial half of combat. Orders are drained one by
// one, so all damage, deaths and bounties happen without contention.
func (w *World) resolveAttacks(orders []attackOrder) {
	for _, o := range orders {
		defender, ok := w.store.fighters[o.defender]
		if !ok {
			// The opponent died or crossed the field earlier; the fight is over.
			if a, alive := w.store.fighters[o.attacker]; alive {
				a.disengage()
				a.AttackCooldown += AttackCooldown
				w.log.Add(w.tick, entityLabel(o.side, o.attacker), o.side.String(), "combat", "disengage",
					fmt.Sprintf("opponent %d gone", o.defender), 0)
			}
			continue
		}

		w.strike(o, defender)

		if a, alive := w.store.fighters[o.attacker]; alive {
			a.AttackCooldown += AttackCooldown
		}
	}
}

// strike resolves one contested roll and its consequences.
func (w *World) strike(o attackOrder, defender *Fighter) {
	attacker := &w.stats.Sides[o.side]
	hit := w.roll(0, o.skills.Attack)
	guard := w.roll(0, defender.Skills.Defence)
	if hit <= guard {
		attacker.Misses++
		w.log.AddVerbose(w.tick, entityLabel(o.side, o.attacker), o.side.String(), "combat", "miss",
			fmt.Sprintf("%d <= %d", hit, guard), 0)
		return
	}

	raw := w.roll(1, o.skills.Strength)
	reduction := w.roll(0, defender.Protection)
	damage := satSub(raw, reduction)
	defender.HP = satSub(defender.HP, damage)
	attacker.Hits++
	attacker.DamageDealt += int(damage)

	if pos, ok := w.store.positions[o.defender]; ok {
		spawnImpact(w.store, *pos, damage)
	}
	w.log.Add(w.tick, entityLabel(o.side, o.attacker), o.side.String(), "combat", "hit",
		fmt.Sprintf("%s for %d (hp %d)", entityLabel(defender.Side, o.defender), damage, defender.HP), float64(damage))

	if defender.HP > 0 {
		return
	}
	w.economy.Credit(o.side, KillBounty)
	attacker.Kills++
	attacker.BountyCoins += KillBounty
	w.stats.Sides[defender.Side].Losses++
	w.store.Remove(o.defender)
	w.log.Add(w.tick, entityLabel(o.side, o.attacker), o.side.String(), "combat", "kill",
		entityLabel(defender.Side, o.defender), KillBounty)
	w.logger.Debug().
		Int("tick", w.tick).
		Uint64("attacker", uint64(o.attacker)).
		Uint64("defender", uint64(o.defender)).
		Str("side", o.side.String()).
		Msg("fighter killed")
}
