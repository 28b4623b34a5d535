package game

import (
	"fmt"
	"math/bits"
	"math/rand/v2"
)

// RandomCard rolls a card in the style of the built-in bots: an attack on
// enemy units, sometimes a second ability, and one or two resistances of its
// own. Ability costs come from the pricing heuristics, and the summon cost is
// the card's price, capped so a deck unit can always afford it.
func RandomCard(r *rand.Rand) Card {
	abilities := []Ability{randomAttack(r)}
	if r.IntN(4) < 2 {
		abilities = append(abilities, randomAbility(r))
	}
	abilities = append(abilities, randomResistance(r))
	if r.IntN(3) < 2 {
		abilities = append(abilities, randomResistance(r))
	}

	maxEnergy := 0
	for _, a := range abilities {
		if a.Activated != nil {
			maxEnergy = max(maxEnergy, a.Activated.Cost.Static.Energy)
		}
	}
	c := Card{
		Name:           randomName(r),
		HP:             max(1, rollLogN(r, 8, 12)),
		StartingEnergy: min(maxEnergy, rollLogN(r, 3, 3)),
		MaxEnergy:      maxEnergy,
		Abilities:      abilities,
	}
	c.SummonCost = min(max(0, int(PriceCard(c))), DeckUnitMaxEnergy)
	return c
}

// RandomDeck rolls size cards, or three to five when size is not positive.
func RandomDeck(r *rand.Rand, name string, size int) Decklist {
	if size <= 0 {
		size = 3 + r.IntN(3)
	}
	d := Decklist{Name: name}
	for range size {
		d.Cards = append(d.Cards, RandomCard(r))
	}
	return d
}

func randomAbility(r *rand.Rand) Ability {
	if r.IntN(100) < 80 {
		return randomAttack(r)
	}
	return randomResistance(r)
}

func randomAttack(r *rand.Rand) Ability {
	n := rollLog(r, 10)
	targets := Exactly(n, And(Enemy, Occupied))
	if r.IntN(5) < 2 {
		targets = UpTo(n, And(Enemy, Occupied))
	}
	effect := Attack(rollLogN(r, 10, 3)+1, randomDamageKind(r))

	score := priceEffect(effect, 0) * amountMultiplier(targets.Amount)
	jitter := float64(r.IntN(3) - 1)
	cost := max(0, int(score+jitter))
	return Activated(effect, StaticCost(cost), targets)
}

func randomResistance(r *rand.Rand) Ability {
	factor := 2.0
	if r.IntN(2) == 1 {
		factor = 0.5
	}
	return Passive(Resistance(randomDamageKind(r), factor), ThisUnit)
}

func randomDamageKind(r *rand.Rand) DamageKind {
	return DamageKind(r.IntN(int(DamageElectrical) + 1))
}

// rollLog returns a number in [1, limit] where each value is twice as likely
// as the next.
func rollLog(r *rand.Rand, limit int) int {
	v := r.IntN(1<<limit-1) + 1
	return limit - (bits.Len(uint(v)) - 1)
}

// rollLogN sums n rolls of rollLog shifted to start at zero.
func rollLogN(r *rand.Rand, limit, n int) int {
	sum := 0
	for range n {
		sum += rollLog(r, limit) - 1
	}
	return sum
}

func randomName(r *rand.Rand) string {
	adj := nameAdjectives[r.IntN(len(nameAdjectives))]
	noun := nameNouns[r.IntN(len(nameNouns))]
	if r.IntN(20) == 0 {
		return fmt.Sprintf("%s %s %d", adj, noun, rollLog(r, 10)*1000)
	}
	return adj + " " + noun
}

var nameAdjectives = []string{
	"Adept", "Aggressive", "Ambitious", "Brave", "Calm", "Eager", "Fierce",
	"Gentle", "Grumpy", "Jolly", "Lazy", "Lively", "Mysterious", "Nervous",
	"Patient", "Proud", "Silly", "Witty", "Zealous", "Clumsy", "Clever",
	"Famous", "Odd", "Powerful", "Shy", "Scruffy", "Tiny", "Colossal",
	"Massive", "Puny", "Loud", "Quiet", "Screeching", "Thundering", "Whispering",
	"Chilly", "Greasy", "Rusty", "Sharp", "Sticky", "Carbon-Fiber", "Steel",
	"Copper", "Bronze", "Iron", "Gold", "Silicon", "Quartz", "Invisible", "Secret",
}

var nameNouns = []string{
	"Wolf", "Moose", "Eagle", "Hawk", "Dragon", "Raven", "Viper", "Shark",
	"Tiger", "Crab", "Wasp", "Beetle", "Algorithm", "Calculator", "Storm",
	"Tornado", "Comet", "Quasar", "Ranger", "Paladin", "Wizard", "Soldier",
	"Tinkerer", "Inventor", "Agent", "Judge", "Rogue", "Sentinel", "Observer",
	"Colossus", "Wisp", "Ghost", "Goblin", "Drone", "Bot", "Robot",
}
