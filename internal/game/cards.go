package game

// ShrapnelBot: {2}: Deal 1 physical damage to all unit(s).
func ShrapnelBot() Card {
	return Card{
		Name:           "Shrapnel Bot",
		Size:           2,
		SummonCost:     3,
		HP:             6,
		StartingEnergy: 1,
		MaxEnergy:      3,
		Abilities: []Ability{
			Activated(Attack(1, DamagePhysical), StaticCost(2), All(Occupied)),
		},
	}
}

// ChargeBot: Whenever a friendly unit is hit, that unit gains 2 energy.
func ChargeBot() Card {
	return Card{
		Name:       "Charge Bot",
		Size:       3,
		SummonCost: 4,
		HP:         10,
		Abilities: []Ability{
			Passive(WhenHit(ChangeEnergy(2), TargetThatUnit), And(Friendly, Occupied)),
		},
	}
}

// SupportBot: grants physical weakness or physical armour to up to 3 units.
func SupportBot() Card {
	return Card{
		Name:           "Support Bot",
		Size:           1,
		SummonCost:     1,
		HP:             10,
		StartingEnergy: 2,
		MaxEnergy:      5,
		Abilities: []Ability{
			Activated(GrantAbility(Passive(Resistance(DamagePhysical, 2.0), ThisUnit)), StaticCost(3), UpTo(3, Occupied)),
			Activated(GrantAbility(Passive(Resistance(DamagePhysical, 0.5), ThisUnit)), StaticCost(3), UpTo(3, Occupied)),
		},
	}
}

// Gigablaster: {50}: Deal 50 explosion damage to 1 unit.
// Whenever a friendly unit is destroyed, this unit gains 5 energy.
func Gigablaster() Card {
	return Card{
		Name:           "GIGABLASTER",
		Size:           5,
		SummonCost:     0,
		HP:             15,
		StartingEnergy: 3,
		MaxEnergy:      50,
		Abilities: []Ability{
			Activated(Attack(50, DamageExplosion), StaticCost(50), Exactly(1, Occupied)),
			Passive(WhenDies(ChangeEnergy(5), TargetThisUnit), And(Friendly, Occupied)),
		},
	}
}

func SelfDestructBot() Card {
	return Card{
		Name:       "Self Destruct Bot",
		Size:       1,
		SummonCost: 2,
		HP:         3,
		MaxEnergy:  1,
		Abilities: []Ability{
			Activated(Attack(3, DamageExplosion), StaticCost(1), Exactly(2, Occupied)),
		},
	}
}

// ProtectionBot heals, or armours a unit against one damage kind.
func ProtectionBot() Card {
	armour := func(kind DamageKind) Ability {
		return Activated(GrantAbility(Passive(Resistance(kind, 0.5), ThisUnit)), StaticCost(3), Exactly(1, Occupied))
	}
	return Card{
		Name:           "Protection Bot",
		Size:           2,
		SummonCost:     2,
		HP:             4,
		StartingEnergy: 2,
		MaxEnergy:      5,
		Abilities: []Ability{
			Activated(ChangeHP(5), StaticCost(3), Exactly(1, Occupied)),
			armour(DamagePhysical),
			armour(DamageExplosion),
			armour(DamageElectrical),
			armour(DamageFire),
		},
	}
}

// BrawlerBot trades blows: the target hits back for the same damage.
func BrawlerBot() Card {
	return Card{
		Name:           "Brawler Bot",
		Size:           2,
		SummonCost:     2,
		HP:             8,
		StartingEnergy: 1,
		MaxEnergy:      3,
		Abilities: []Ability{
			Activated(MutualAttack(3, DamagePhysical), StaticCost(1), Exactly(1, And(Enemy, Occupied))),
		},
	}
}

func FireDrone() Card {
	return Card{
		Name:           "Fire Drone",
		Size:           1,
		SummonCost:     1,
		HP:             4,
		StartingEnergy: 1,
		MaxEnergy:      2,
		Abilities: []Ability{
			Activated(Attack(2, DamageFire), StaticCost(1), Exactly(1, And(Enemy, Occupied))),
			Passive(Resistance(DamageFire, 0.5), ThisUnit),
		},
	}
}

func MedicBot() Card {
	return Card{
		Name:           "Medic Bot",
		Size:           1,
		SummonCost:     2,
		HP:             5,
		StartingEnergy: 2,
		MaxEnergy:      4,
		Abilities: []Ability{
			Activated(Multiple(ChangeHP(3), ChangeEnergy(1)), StaticCost(2), UpTo(2, And(Friendly, Occupied))),
		},
	}
}

func ScrapDrone() Card {
	return Card{
		Name:       "Scrap Drone",
		Size:       1,
		SummonCost: 1,
		HP:         2,
		MaxEnergy:  1,
		Abilities: []Ability{
			Activated(Attack(1, DamageElectrical), StaticCost(1), Exactly(1, And(Enemy, Occupied))),
			Passive(WhenHit(ChangeEnergy(1), TargetThisUnit), ThisUnit),
		},
	}
}

// DroneBay builds Scrap Drones next to itself, paying the drone's size.
func DroneBay() Card {
	return Card{
		Name:           "Drone Bay",
		Size:           3,
		SummonCost:     3,
		HP:             7,
		StartingEnergy: 1,
		MaxEnergy:      4,
		Abilities: []Ability{
			Activated(Summon(ScrapDrone()), DerivedCost(AttrSize), Exactly(1, And(Friendly, Unoccupied))),
		},
	}
}
