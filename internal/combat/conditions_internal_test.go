package combat

import "testing"

func TestAttackAdvantageProneAttackerIsAlwaysDisadvantaged(t *testing.T) {
	attacker := &Participant{ID: "attacker", Conditions: []*Condition{{Type: ConditionProne}}}
	target := &Participant{ID: "target"}

	for _, isMelee := range []bool{true, false} {
		advantage, disadvantage := attackAdvantage(attacker, target, isMelee, false, false)
		if advantage {
			t.Fatalf("isMelee=%v: expected a prone attacker's own attack to never gain advantage, got advantage=true", isMelee)
		}
		if !disadvantage {
			t.Fatalf("isMelee=%v: expected a prone attacker's own attack to always have disadvantage", isMelee)
		}
	}
}

func TestAttackAdvantageProneTargetStillFollowsRangeRule(t *testing.T) {
	attacker := &Participant{ID: "attacker"}
	target := &Participant{ID: "target", Conditions: []*Condition{{Type: ConditionProne}}}

	advantage, disadvantage := attackAdvantage(attacker, target, true, false, false)
	if !advantage || disadvantage {
		t.Fatalf("expected melee attacks against a prone target to have advantage, got advantage=%v disadvantage=%v", advantage, disadvantage)
	}

	advantage, disadvantage = attackAdvantage(attacker, target, false, false, false)
	if advantage || !disadvantage {
		t.Fatalf("expected ranged attacks against a prone target to have disadvantage, got advantage=%v disadvantage=%v", advantage, disadvantage)
	}
}
