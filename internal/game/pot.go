package game

import (
	"slices"
)

// Pot is the main pot or a side pot. Eligible holds the seats that can win
// it; a pot only one player paid into is an uncalled bet and goes straight
// back to that player.
type Pot struct {
	Amount   int
	Eligible []int
	Uncalled bool
}

// PotManager tracks every chip committed to the hand per seat. Main and side
// pots are derived from those contributions on demand, so they always agree
// with the all-in levels reached so far.
type PotManager struct {
	contributions []int
}

// NewPotManager creates an empty pot manager for numSeats players.
func NewPotManager(numSeats int) PotManager {
	return PotManager{contributions: make([]int, numSeats)}
}

func (pm PotManager) clone() PotManager {
	return PotManager{contributions: slices.Clone(pm.contributions)}
}

// Contribute adds amount chips from seat.
func (pm *PotManager) Contribute(seat, amount int) {
	if amount < 0 {
		panic("negative contribution")
	}
	pm.contributions[seat] += amount
}

// Contribution returns how much seat has committed this hand.
func (pm PotManager) Contribution(seat int) int {
	return pm.contributions[seat]
}

// Total returns all chips currently in the middle.
func (pm PotManager) Total() int {
	total := 0
	for _, c := range pm.contributions {
		total += c
	}
	return total
}

// Pots splits the contributions into the main pot followed by side pots.
// A new tier starts at every distinct all-in total; each tier is eligible to
// the non-folded players who paid into it.
func (pm PotManager) Pots(players []Player) []Pot {
	var levels []int
	for _, p := range players {
		if p.AllIn && !p.Folded && pm.contributions[p.Seat] > 0 {
			levels = append(levels, pm.contributions[p.Seat])
		}
	}
	top := slices.Max(pm.contributions)
	levels = append(levels, top)
	slices.Sort(levels)
	levels = slices.Compact(levels)

	var pots []Pot
	carry := 0
	prev := 0
	for _, level := range levels {
		if level <= prev {
			continue
		}
		pot := Pot{Amount: carry}
		contributors := 0
		for _, p := range players {
			c := min(pm.contributions[p.Seat], level) - prev
			if c <= 0 {
				continue
			}
			pot.Amount += c
			contributors++
			if !p.Folded {
				pot.Eligible = append(pot.Eligible, p.Seat)
			}
		}
		prev = level
		carry = 0

		switch {
		case pot.Amount == 0:
			continue
		case len(pot.Eligible) == 0:
			// Only folded players reached this tier.
			if len(pots) > 0 {
				pots[len(pots)-1].Amount += pot.Amount
			} else {
				carry = pot.Amount
			}
			continue
		}
		pot.Uncalled = contributors == 1
		pots = append(pots, pot)
	}
	if carry > 0 && len(pots) > 0 {
		pots[len(pots)-1].Amount += carry
	}
	return pots
}

// PotAward records how one pot was distributed.
type PotAward struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
	Winners  []string `json:"winners"`
	Uncalled bool     `json:"uncalled,omitempty"`
	Share    []int    `json:"share"`
}

// Resolve distributes every pot independently to its best eligible hands.
// strength returns a comparable rank per seat; it is only consulted for
// pots with more than one eligible player. Split pots are divided evenly and
// odd chips go one at a time to the winners in clockwise order starting
// left of the dealer. The returned slice holds the chips won per seat.
func (pm PotManager) Resolve(players []Player, dealer int, strength func(seat int) uint32) ([]int, []PotAward) {
	won := make([]int, len(players))
	pots := pm.Pots(players)
	awards := make([]PotAward, 0, len(pots))

	for _, pot := range pots {
		winners := pot.Eligible
		if len(pot.Eligible) > 1 {
			var best uint32
			winners = nil
			for _, seat := range pot.Eligible {
				s := strength(seat)
				switch {
				case winners == nil || s > best:
					best = s
					winners = []int{seat}
				case s == best:
					winners = append(winners, seat)
				}
			}
		}

		winners = clockwiseFrom(winners, dealer, len(players))
		share := pot.Amount / len(winners)
		odd := pot.Amount % len(winners)
		award := PotAward{Amount: pot.Amount, Uncalled: pot.Uncalled}
		for i, seat := range winners {
			amount := share
			if i < odd {
				amount++
			}
			won[seat] += amount
			award.Winners = append(award.Winners, players[seat].Name)
			award.Share = append(award.Share, amount)
		}
		for _, seat := range pot.Eligible {
			award.Eligible = append(award.Eligible, players[seat].Name)
		}
		awards = append(awards, award)
	}
	return won, awards
}

// clockwiseFrom orders seats by distance clockwise from the seat left of
// dealer.
func clockwiseFrom(seats []int, dealer, numSeats int) []int {
	ordered := slices.Clone(seats)
	slices.SortFunc(ordered, func(a, b int) int {
		return distance(dealer, a, numSeats) - distance(dealer, b, numSeats)
	})
	return ordered
}

func distance(dealer, seat, numSeats int) int {
	return (seat - dealer - 1 + numSeats) % numSeats
}

func (pm *PotManager) clear() {
	for i := range pm.contributions {
		pm.contributions[i] = 0
	}
}
