// ABOUTME: Fixed reason, message, and tone for every decision rule.
// ABOUTME: Downstream code reads these verbatim; nothing else builds decision text.
package decision

import (
	"fmt"

	"github.com/harperreed/coach/internal/models"
)

// RuleID names the rule that produced a decision.
type RuleID string

const (
	RuleInjury            RuleID = "injury"
	RuleMultiplePain      RuleID = "multiple_pain"
	RuleHighFatigue       RuleID = "high_fatigue"
	RuleEnergyDepleted    RuleID = "energy_depleted"
	RuleLowAdherence      RuleID = "low_adherence"
	RuleInactivity        RuleID = "inactivity"
	RuleShortInactivity   RuleID = "short_inactivity"
	RuleOnboarding        RuleID = "onboarding"
	RulePainReported      RuleID = "pain_reported"
	RulePainRecovery      RuleID = "pain_recovery"
	RulePostScaleBack     RuleID = "post_scale_back"
	RuleModerateAdherence RuleID = "moderate_adherence"
	RuleElevatedFatigue   RuleID = "elevated_fatigue"
	RuleLowEnergy         RuleID = "low_energy"
	RuleSettlingIn        RuleID = "settling_in"
	RuleOneMoreWeek       RuleID = "one_more_week"
	RuleReadyToProgress   RuleID = "ready_to_progress"
	RuleAtTrueCeiling     RuleID = "at_true_ceiling"
	RuleBlocked           RuleID = "blocked_by_constraints"
	RuleSteady            RuleID = "steady"
)

type entry struct {
	decision models.Decision
	reason   string
	message  string
	tone     models.Tone
}

var table = map[RuleID]entry{
	RuleInjury: {
		models.DecisionScaleBack,
		"Active injury reported",
		"You flagged an active injury, so this week drops to a gentle recovery program. Please check in with a professional if it persists.",
		models.ToneCautious,
	},
	RuleMultiplePain: {
		models.DecisionScaleBack,
		"Multiple pain reports this week",
		"You reported pain in more than one place, so we are easing off to protect you while things settle.",
		models.ToneCautious,
	},
	RuleHighFatigue: {
		models.DecisionScaleBack,
		"High fatigue",
		"Your sleep, stress, and readiness point to high fatigue. A lighter week will help you recover.",
		models.ToneSupportive,
	},
	RuleEnergyDepleted: {
		models.DecisionScaleBack,
		"Energy depleted",
		"Low energy together with uncertain fueling showed up more than once. We are scaling back while you refuel.",
		models.ToneSupportive,
	},
	RuleLowAdherence: {
		models.DecisionScaleBack,
		"Low adherence for two weeks",
		"The plan has been hard to fit in lately, so we are making it smaller and easier to keep.",
		models.ToneSupportive,
	},
	RuleInactivity: {
		models.DecisionScaleBack,
		"Extended inactivity",
		"It has been a few weeks since your last session. We are restarting with a short, easy program.",
		models.ToneSupportive,
	},
	RuleShortInactivity: {
		models.DecisionMaintain,
		"Short break from training",
		"Life got busy. Your program stays the same so you can pick it back up this week.",
		models.ToneSupportive,
	},
	RuleOnboarding: {
		models.DecisionMaintain,
		"Still onboarding",
		"You are still building the habit. Keep the same program while we learn how you respond.",
		models.ToneEncouraging,
	},
	RulePainReported: {
		models.DecisionMaintain,
		"Pain reported",
		"You mentioned some pain, so we are holding steady instead of adding anything new.",
		models.ToneCautious,
	},
	RulePainRecovery: {
		models.DecisionMaintain,
		"Recovering from recent pain",
		"We want a couple of pain-free weeks before adding more. Holding steady for now.",
		models.ToneCautious,
	},
	RulePostScaleBack: {
		models.DecisionMaintain,
		"Recently scaled back",
		"You recently eased off. Let's keep things steady for another week before building again.",
		models.ToneSupportive,
	},
	RuleModerateAdherence: {
		models.DecisionMaintain,
		"Adherence in progress",
		"You are getting most sessions in. Keeping the same plan until it feels consistent.",
		models.ToneEncouraging,
	},
	RuleElevatedFatigue: {
		models.DecisionMaintain,
		"Elevated fatigue",
		"Fatigue is creeping up, so the program holds steady this week.",
		models.ToneSupportive,
	},
	RuleLowEnergy: {
		models.DecisionMaintain,
		"Low energy",
		"Energy has been low. Holding steady and keeping an eye on rest and fueling.",
		models.ToneSupportive,
	},
	RuleSettlingIn: {
		models.DecisionMaintain,
		"Settling into the current level",
		"You just started this level. Give it another week to settle in.",
		models.ToneNeutral,
	},
	RuleOneMoreWeek: {
		models.DecisionMaintain,
		"One stable week so far",
		"Great week! One more like this and you will be ready to progress.",
		models.ToneEncouraging,
	},
	RuleReadyToProgress: {
		models.DecisionProgress,
		"Two consecutive stable weeks",
		"Two strong, steady weeks in a row. Time to take the next step.",
		models.ToneCelebratory,
	},
	RuleAtTrueCeiling: {
		models.DecisionMaintain,
		"At program ceiling",
		"You are at the top of the program. Keep it up; we will maintain this level.",
		models.ToneCelebratory,
	},
	RuleBlocked: {
		models.DecisionMaintain,
		"No further step available within your current limits",
		"You are ready for more, but there is no next step within your current limits yet. The program stays the same this week.",
		models.ToneNeutral,
	},
	RuleSteady: {
		models.DecisionMaintain,
		"Holding steady",
		"Keep doing what you are doing. The program stays the same this week.",
		models.ToneNeutral,
	},
}

// ResultFor builds the Result for a rule from the fixed table.
func ResultFor(rule RuleID) Result {
	e, ok := table[rule]
	if !ok {
		panic(fmt.Sprintf("decision: no table entry for rule %q", rule))
	}
	return Result{
		Decision: e.decision,
		Reason:   e.reason,
		Message:  e.message,
		Tone:     e.tone,
		Rule:     rule,
	}
}

// Block converts a result to the snapshot's decision block.
func (r Result) Block() models.DecisionBlock {
	return models.DecisionBlock{
		Type:    r.Decision,
		Reason:  r.Reason,
		Message: r.Message,
		Tone:    r.Tone,
	}
}
