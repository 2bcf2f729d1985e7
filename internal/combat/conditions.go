package combat

// incapacitatingConditions cannot take actions or reactions (§4.D.5).
var incapacitatingConditions = map[ConditionType]bool{
	ConditionStunned:     true,
	ConditionParalyzed:   true,
	ConditionUnconscious: true,
	ConditionPetrified:   true,
}

// autoFailStrDexConditions force automatic failure on strength/dexterity
// saves (§4.D.5).
var autoFailStrDexConditions = map[ConditionType]bool{
	ConditionStunned:     true,
	ConditionParalyzed:   true,
	ConditionUnconscious: true,
	ConditionPetrified:   true,
}

// zeroSpeedConditions reduce movement speed to 0 (§4.D.5).
var zeroSpeedConditions = map[ConditionType]bool{
	ConditionRestrained: true,
	ConditionGrappled:   true,
}

// hasCondition reports whether p currently carries a condition of type t.
func (p *Participant) hasCondition(t ConditionType) bool {
	for _, c := range p.Conditions {
		if c.Type == t {
			return true
		}
	}
	return false
}

// isIncapacitated reports whether p cannot take actions or reactions.
func (p *Participant) isIncapacitated() bool {
	for _, c := range p.Conditions {
		if incapacitatingConditions[c.Type] {
			return true
		}
	}
	return false
}

// autoFailsStrDexSaves reports whether p automatically fails strength and
// dexterity saving throws.
func (p *Participant) autoFailsStrDexSaves() bool {
	for _, c := range p.Conditions {
		if autoFailStrDexConditions[c.Type] {
			return true
		}
	}
	return false
}

// effectiveSpeed returns p's movement speed after condition modifiers
// (restrained/grappled reduce it to 0, §4.D.5).
func (p *Participant) effectiveSpeed() int {
	for _, c := range p.Conditions {
		if zeroSpeedConditions[c.Type] {
			return 0
		}
	}
	return p.MovementSpeed
}

// frightenedBySource reports whether p is frightened with sourceID as the
// fear source, which imposes disadvantage on attacks while the source
// remains in sight (§4.D.5). Line-of-sight to the source is assumed to have
// already been established by the caller; this only checks the condition
// itself.
func frightenedBySource(p *Participant, sourceID string) bool {
	for _, c := range p.Conditions {
		if c.Type == ConditionFrightened && c.SourceID == sourceID {
			return true
		}
	}
	return false
}

// frightenedSources returns the participant IDs of every fear source p is
// currently frightened by (§4.D.5: frightened "cannot willingly move closer
// to the source of its fear").
func (p *Participant) frightenedSources() []string {
	var sources []string
	for _, c := range p.Conditions {
		if c.Type == ConditionFrightened && c.SourceID != "" {
			sources = append(sources, c.SourceID)
		}
	}
	return sources
}

// attackAdvantage computes the net advantage/disadvantage an Attack roll
// carries from both combatants' conditions plus per-call flags (§4.D.4
// step 2). isMelee selects between the prone target's melee and ranged
// rules; the other conditions apply regardless of range.
func attackAdvantage(attacker, target *Participant, isMelee, callerAdvantage, callerDisadvantage bool) (advantage, disadvantage bool) {
	advantage, disadvantage = callerAdvantage, callerDisadvantage

	if attacker.hasCondition(ConditionProne) {
		// §4.D.5's authoritative condition table: a prone attacker's own
		// attacks have disadvantage unconditionally, regardless of range.
		disadvantage = true
	}
	if attacker.hasCondition(ConditionBlinded) {
		disadvantage = true
	}
	if attacker.hasCondition(ConditionInvisible) {
		advantage = true
	}
	if frightenedBySource(attacker, target.ID) {
		disadvantage = true
	}

	if target.hasCondition(ConditionProne) {
		if isMelee {
			advantage = true
		} else {
			disadvantage = true
		}
	}
	if target.isIncapacitated() {
		advantage = true
	}
	if target.hasCondition(ConditionRestrained) {
		advantage = true
	}
	if target.hasCondition(ConditionBlinded) {
		advantage = true
	}
	if target.hasCondition(ConditionInvisible) {
		disadvantage = true
	}

	return advantage, disadvantage
}
