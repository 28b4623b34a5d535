package game

import (
	"strings"
	"testing"
)

func TestCardText(t *testing.T) {
	want := "Shrapnel Bot\n6 HP\n1/3 energy\n{2}: Deal 1 physical damage to all unit(s)."
	if got := ShrapnelBot().Text(); got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestAbilityText(t *testing.T) {
	tests := []struct {
		name    string
		ability Ability
		want    string
	}{
		{"charge", ChargeBot().Abilities[0], "Whenever a friendly unit(s) is hit, that unit gains 2 energy."},
		{"armour", Passive(Resistance(DamageFire, 0.5), ThisUnit), "This unit takes 0.5x damage from fire attacks."},
		{"brawler", BrawlerBot().Abilities[0], "{1}: Deal 3 physical damage to 1 enemy unit(s). This unit takes the same damage."},
		{"medic", MedicBot().Abilities[0], "{2}: up to 2 friendly unit(s) gains 3 health. up to 2 friendly unit(s) gains 1 energy."},
		{"destroy", Activated(Destroy(), StaticCost(5), Exactly(1, Or(Enemy, ThisUnit))), "{5}: Destroy 1 enemy or this unit."},
		{"drain", Activated(ChangeEnergy(-2), StaticCost(0), All(Enemy)), "{0}: all enemy loses 2 energy."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ability.Text(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSummonText(t *testing.T) {
	got := BasicSummon(ScrapDrone()).Text()
	if !strings.HasPrefix(got, "{1}: Summon the following unit to 1 friendly open location(s):") {
		t.Errorf("Unexpected summon text %q", got)
	}
	if !strings.Contains(got, "Scrap Drone\n2 HP") {
		t.Errorf("Expected the summoned card's text, got %q", got)
	}
}
