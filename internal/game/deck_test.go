package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDecks = `
decks:
  - name: mixed
    cards:
      - name: Shrapnel Bot
        count: 2
      - card:
          name: Arc Welder
          size: 2
          summon_cost: 2
          hp: 5
          starting_energy: 1
          max_energy: 3
          abilities:
            - activated:
                effect: {attack: {damage: 2, kind: electrical, mutual: true}}
                cost: 1
                targets:
                  amount: {n: 1}
                  filter: {and: [enemy, occupied]}
            - activated:
                effect: {summon: {name: Spark, hp: 1, max_energy: 0}}
                cost: {derived: hp}
                targets:
                  amount: {up_to: 2}
                  filter: {and: [friendly, unoccupied]}
            - activated:
                effect:
                  multiple:
                    - {change_hp: -1}
                    - {change_energy: 2}
                    - destroy
                cost: 0
                targets:
                  amount: all
                  filter: {or: [this_unit, enemy]}
            - passive:
                effect: {resistance: {kind: electrical, factor: 0.25}}
                filter: this_unit
            - passive:
                effect:
                  when_dies:
                    effect: {grant_ability: {passive: {effect: {resistance: {kind: fire, factor: 2}}, filter: this_unit}}}
                    target: that_unit
                filter: {and: [friendly, occupied]}
  - name: tiny
    cards:
      - name: Scrap Drone
`

func TestParseDecks(t *testing.T) {
	decks, err := ParseDecks([]byte(sampleDecks))
	if err != nil {
		t.Fatalf("ParseDecks: %v", err)
	}
	if got := DeckNames(decks); strings.Join(got, ",") != "mixed,tiny" {
		t.Fatalf("Expected decks mixed,tiny, got %v", got)
	}

	mixed := decks["mixed"]
	if len(mixed.Cards) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(mixed.Cards))
	}
	if mixed.Cards[0].Name != "Shrapnel Bot" || mixed.Cards[1].Name != "Shrapnel Bot" {
		t.Error("Expected two Shrapnel Bots from count: 2")
	}

	welder := mixed.Cards[2]
	if len(welder.Abilities) != 5 {
		t.Fatalf("Expected 5 abilities, got %d", len(welder.Abilities))
	}
	attack := welder.Abilities[0].Activated
	if attack.Effect.Kind != EffectAttack || !attack.Effect.Mutual || attack.Effect.DamageKind != DamageElectrical {
		t.Errorf("Expected a mutual electrical attack, got %+v", attack.Effect)
	}
	if attack.Targets.Amount != (TargetAmount{Kind: AmountN, N: 1}) {
		t.Errorf("Expected exactly 1 target, got %+v", attack.Targets.Amount)
	}
	summon := welder.Abilities[1].Activated
	if summon.Cost.Kind != CostDerived || summon.ResolvedCost().Energy != 1 {
		t.Errorf("Expected a derived cost resolving to Spark's 1 HP, got %+v", summon.Cost)
	}
	multi := welder.Abilities[2].Activated.Effect
	if multi.Kind != EffectMultiple || len(multi.Effects) != 3 || multi.Effects[2].Kind != EffectDestroy {
		t.Errorf("Expected change_hp, change_energy, destroy, got %+v", multi.Effects)
	}
	if welder.Abilities[2].Activated.Targets.Filter.Kind != FilterOr {
		t.Error("Expected an or filter")
	}
	resist := welder.Abilities[3].Passive
	if resist.Effect.Factor != 0.25 || resist.Filter.Kind != FilterThisUnit {
		t.Errorf("Expected a 0.25 electrical resistance on this unit, got %+v", resist)
	}
	dies := welder.Abilities[4].Passive.Effect
	if dies.Kind != PassiveWhenDies || dies.Target != TargetThatUnit || dies.Effect.Kind != EffectGrantAbility {
		t.Errorf("Expected when_dies grant on that unit, got %+v", dies)
	}
}

func TestParseDecksErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown card", "decks: [{name: x, cards: [{name: Nope}]}]", "unknown card"},
		{"empty entry", "decks: [{name: x, cards: [{count: 2}]}]", "needs a name"},
		{"duplicate deck", "decks: [{name: x, cards: [{name: Scrap Drone}]}, {name: x, cards: [{name: Scrap Drone}]}]", "defined twice"},
		{"no cards", "decks: [{name: x, cards: []}]", "no cards"},
		{"derived cost on attack", `
decks:
  - name: x
    cards:
      - card:
          name: Bad
          hp: 1
          abilities:
            - activated:
                effect: {attack: {damage: 1, kind: fire}}
                cost: {derived: size}
                targets: {amount: all, filter: enemy}
`, "derived cost"},
		{"both ability kinds", `
decks:
  - name: x
    cards:
      - card:
          name: Bad
          hp: 1
          abilities:
            - activated: {effect: destroy, cost: 0, targets: {amount: all, filter: enemy}}
              passive: {effect: {resistance: {kind: fire, factor: 2}}, filter: this_unit}
`, "exactly one"},
		{"unknown damage kind", `
decks:
  - name: x
    cards:
      - card:
          name: Bad
          hp: 1
          abilities:
            - passive: {effect: {resistance: {kind: laser, factor: 2}}, filter: this_unit}
`, "laser"},
		{"unknown filter", `
decks:
  - name: x
    cards:
      - card:
          name: Bad
          hp: 1
          abilities:
            - activated: {effect: destroy, cost: 0, targets: {amount: all, filter: nearby}}
`, "nearby"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDecks([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDecklistRoundTrip(t *testing.T) {
	for name, deck := range BuiltinDecks() {
		t.Run(name, func(t *testing.T) {
			data, err := MarshalDecklist(deck)
			if err != nil {
				t.Fatalf("MarshalDecklist: %v", err)
			}
			back, err := UnmarshalDecklist(data)
			if err != nil {
				t.Fatalf("UnmarshalDecklist: %v\n%s", err, data)
			}
			if len(back.Cards) != len(deck.Cards) {
				t.Fatalf("Expected %d cards, got %d", len(deck.Cards), len(back.Cards))
			}
			for i := range deck.Cards {
				if got, want := back.Cards[i].Text(), deck.Cards[i].Text(); got != want {
					t.Errorf("Card %d changed.\nwant:\n%s\ngot:\n%s", i, want, got)
				}
			}
		})
	}
}

func TestDeckByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decks.yaml")
	if err := os.WriteFile(path, []byte(sampleDecks), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := DeckByName(path, "tiny")
	if err != nil {
		t.Fatalf("DeckByName: %v", err)
	}
	if len(d.Cards) != 1 || d.Cards[0].Name != "Scrap Drone" {
		t.Errorf("Expected one Scrap Drone, got %+v", d.Cards)
	}
	if _, err := DeckByName(path, "missing"); err == nil {
		t.Error("Expected an error for a missing deck")
	}
}

func TestRepoDeckFile(t *testing.T) {
	decks, err := ParseDeckFile(filepath.Join("..", "..", "decks.yaml"))
	if err != nil {
		t.Fatalf("ParseDeckFile: %v", err)
	}
	if len(decks) == 0 {
		t.Error("Expected the shipped deck file to define decks")
	}
}

func TestParseCard(t *testing.T) {
	c, err := ParseCard([]byte(`
name: Welder
summon_cost: 2
hp: 4
max_energy: 3
abilities:
  - activated:
      effect: {attack: {damage: 3, kind: fire}}
      cost: 2
      targets:
        amount: {n: 1}
        filter: enemy
`))
	if err != nil {
		t.Fatalf("ParseCard: %v", err)
	}
	if c.Name != "Welder" || c.HP != 4 || len(c.Abilities) != 1 {
		t.Errorf("Expected Welder with 4 HP and one ability, got %+v", c)
	}

	if _, err := ParseCard([]byte("name: Broken\nhp: 0\nmax_energy: 1\n")); err == nil {
		t.Error("Expected a card with 0 HP to be rejected")
	}
	if _, err := ParseCard([]byte("name: [")); err == nil {
		t.Error("Expected malformed YAML to be rejected")
	}
}
