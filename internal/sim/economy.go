package sim

import "math"

// DefaultStartingMoney is what each side opens with.
const DefaultStartingMoney = 20

// Economy holds one purse per side. A purse never goes below zero.
type Economy struct {
	balances [sideCount]uint32
}

func NewEconomy(left, right uint32) *Economy {
	return &Economy{balances: [sideCount]uint32{left, right}}
}

// Balance returns the coins side currently holds.
func (e *Economy) Balance(side Side) uint32 {
	return e.balances[side]
}

// CanAfford reports whether side holds at least price coins.
func (e *Economy) CanAfford(side Side, price uint32) bool {
	return e.balances[side] >= price
}

// Credit adds n coins to side, saturating at the type's maximum.
func (e *Economy) Credit(side Side, n uint32) {
	if math.MaxUint32-e.balances[side] < n {
		e.balances[side] = math.MaxUint32
		return
	}
	e.balances[side] += n
}

// Debit takes n coins from side. It refuses, leaving the balance untouched,
// when side cannot afford it.
func (e *Economy) Debit(side Side, n uint32) bool {
	if !e.CanAfford(side, n) {
		return false
	}
	e.balances[side] -= n
	return true
}
