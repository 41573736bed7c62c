// ABOUTME: Closed enumerations shared by the coaching engine.
// ABOUTME: Phases, intensity tiers, decisions, check-in categories, and session selectors.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValue is returned when a string does not name a member of a closed enumeration.
var ErrUnknownValue = errors.New("unknown value")

// parseEnum matches s against the members of a closed enumeration.
func parseEnum[T ~string](kind, s string, all []T) (T, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, v := range all {
		if string(v) == needle {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrUnknownValue, kind, s)
}

func contains[T comparable](all []T, v T) bool {
	for _, candidate := range all {
		if candidate == v {
			return true
		}
	}
	return false
}

// Phase is the coarse training stage.
type Phase string

const (
	PhaseOnboarding  Phase = "onboarding"
	PhaseBuilding    Phase = "building"
	PhaseMaintaining Phase = "maintaining"
	PhaseRecovering  Phase = "recovering"
)

// AllPhases lists every phase in lifecycle order.
var AllPhases = []Phase{PhaseOnboarding, PhaseBuilding, PhaseMaintaining, PhaseRecovering}

// ParsePhase converts a string to a Phase.
func ParsePhase(s string) (Phase, error) { return parseEnum("phase", s, AllPhases) }

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool { return contains(AllPhases, p) }

// Intensity is the program's intensity tier. Tiers are totally ordered.
type Intensity string

const (
	IntensityLight       Intensity = "light"
	IntensityModerate    Intensity = "moderate"
	IntensityChallenging Intensity = "challenging"
)

// AllIntensities lists the tiers from lightest to hardest.
var AllIntensities = []Intensity{IntensityLight, IntensityModerate, IntensityChallenging}

// ParseIntensity converts a string to an Intensity.
func ParseIntensity(s string) (Intensity, error) { return parseEnum("intensity", s, AllIntensities) }

// Valid reports whether i is a known tier.
func (i Intensity) Valid() bool { return contains(AllIntensities, i) }

// Rank returns the position of the tier in the total order, or -1.
func (i Intensity) Rank() int {
	for n, v := range AllIntensities {
		if v == i {
			return n
		}
	}
	return -1
}

// Next returns the next harder tier and false when i is already the hardest.
func (i Intensity) Next() (Intensity, bool) {
	r := i.Rank()
	if r < 0 || r+1 >= len(AllIntensities) {
		return i, false
	}
	return AllIntensities[r+1], true
}

// MinIntensity returns the lighter of two tiers.
func MinIntensity(a, b Intensity) Intensity {
	if a.Rank() <= b.Rank() {
		return a
	}
	return b
}

// MaxIntensity returns the harder of two tiers.
func MaxIntensity(a, b Intensity) Intensity {
	if a.Rank() >= b.Rank() {
		return a
	}
	return b
}

// EnergyContext is the categorical read of fueling and energy adequacy.
type EnergyContext string

const (
	EnergyDepleted EnergyContext = "depleted"
	EnergyLow      EnergyContext = "low"
	EnergyNormal   EnergyContext = "normal"
	EnergyHigh     EnergyContext = "high"
)

// AllEnergyContexts lists every energy context.
var AllEnergyContexts = []EnergyContext{EnergyDepleted, EnergyLow, EnergyNormal, EnergyHigh}

// ParseEnergyContext converts a string to an EnergyContext.
func ParseEnergyContext(s string) (EnergyContext, error) {
	return parseEnum("energy context", s, AllEnergyContexts)
}

// Valid reports whether e is a known energy context.
func (e EnergyContext) Valid() bool { return contains(AllEnergyContexts, e) }

// Decision is the weekly verdict.
type Decision string

const (
	DecisionProgress  Decision = "progress"
	DecisionMaintain  Decision = "maintain"
	DecisionScaleBack Decision = "scale_back"
)

// AllDecisions lists every decision type.
var AllDecisions = []Decision{DecisionProgress, DecisionMaintain, DecisionScaleBack}

// ParseDecision converts a string to a Decision.
func ParseDecision(s string) (Decision, error) { return parseEnum("decision", s, AllDecisions) }

// Valid reports whether d is a known decision.
func (d Decision) Valid() bool { return contains(AllDecisions, d) }

// Tone is the register of the user-facing message.
type Tone string

const (
	ToneSupportive  Tone = "supportive"
	ToneEncouraging Tone = "encouraging"
	ToneCelebratory Tone = "celebratory"
	ToneNeutral     Tone = "neutral"
	ToneCautious    Tone = "cautious"
)

// SleepQuality is the self-reported sleep category of a check-in.
type SleepQuality string

const (
	SleepPoor  SleepQuality = "poor"
	SleepFair  SleepQuality = "fair"
	SleepGood  SleepQuality = "good"
	SleepGreat SleepQuality = "great"
)

// AllSleepQualities lists every sleep category.
var AllSleepQualities = []SleepQuality{SleepPoor, SleepFair, SleepGood, SleepGreat}

// ParseSleepQuality converts a string to a SleepQuality.
func ParseSleepQuality(s string) (SleepQuality, error) {
	return parseEnum("sleep quality", s, AllSleepQualities)
}

// StressLevel is the self-reported stress category of a check-in.
type StressLevel string

const (
	StressLow          StressLevel = "low"
	StressModerate     StressLevel = "moderate"
	StressHigh         StressLevel = "high"
	StressOverwhelming StressLevel = "overwhelming"
)

// AllStressLevels lists every stress category.
var AllStressLevels = []StressLevel{StressLow, StressModerate, StressHigh, StressOverwhelming}

// ParseStressLevel converts a string to a StressLevel.
func ParseStressLevel(s string) (StressLevel, error) {
	return parseEnum("stress level", s, AllStressLevels)
}

// Readiness is how ready the user felt to train.
type Readiness string

const (
	ReadinessStrong Readiness = "strong"
	ReadinessGood   Readiness = "good"
	ReadinessOkay   Readiness = "okay"
	ReadinessDrag   Readiness = "drag"
)

// AllReadiness lists every readiness category.
var AllReadiness = []Readiness{ReadinessStrong, ReadinessGood, ReadinessOkay, ReadinessDrag}

// ParseReadiness converts a string to a Readiness.
func ParseReadiness(s string) (Readiness, error) { return parseEnum("readiness", s, AllReadiness) }

// EnergyLevel is a single energy reading.
type EnergyLevel string

const (
	EnergyLevelLow      EnergyLevel = "low"
	EnergyLevelModerate EnergyLevel = "moderate"
	EnergyLevelHigh     EnergyLevel = "high"
)

// AllEnergyLevels lists every energy reading.
var AllEnergyLevels = []EnergyLevel{EnergyLevelLow, EnergyLevelModerate, EnergyLevelHigh}

// ParseEnergyLevel converts a string to an EnergyLevel.
func ParseEnergyLevel(s string) (EnergyLevel, error) {
	return parseEnum("energy level", s, AllEnergyLevels)
}

// EatingSufficiency is the user's read of whether they ate enough.
type EatingSufficiency string

const (
	EatingEnough             EatingSufficiency = "enough"
	EatingUncertain          EatingSufficiency = "uncertain"
	EatingLikelyInsufficient EatingSufficiency = "likely_insufficient"
)

// AllEatingSufficiencies lists every eating category.
var AllEatingSufficiencies = []EatingSufficiency{EatingEnough, EatingUncertain, EatingLikelyInsufficient}

// ParseEatingSufficiency converts a string to an EatingSufficiency.
func ParseEatingSufficiency(s string) (EatingSufficiency, error) {
	return parseEnum("eating sufficiency", s, AllEatingSufficiencies)
}

// ChangeCause tags why the program did or did not change in a cycle.
type ChangeCause string

const (
	CauseNone                 ChangeCause = "none"
	CauseDurationProgression  ChangeCause = "duration_progression"
	CauseVolumeProgression    ChangeCause = "volume_progression"
	CauseIntensityProgression ChangeCause = "intensity_progression"
	CauseScaleBackReset       ChangeCause = "scale_back_reset"
	CausePhaseTemplate        ChangeCause = "phase_template"
	CauseAtTrueCeiling        ChangeCause = "at_true_ceiling"
	CauseBlockedByConstraints ChangeCause = "blocked_by_constraints"
)

// AllChangeCauses lists every cause tag.
var AllChangeCauses = []ChangeCause{
	CauseNone, CauseDurationProgression, CauseVolumeProgression, CauseIntensityProgression,
	CauseScaleBackReset, CausePhaseTemplate, CauseAtTrueCeiling, CauseBlockedByConstraints,
}

// Valid reports whether c is a known cause.
func (c ChangeCause) Valid() bool { return contains(AllChangeCauses, c) }

// StrengthTemplate selects how strength slots are split across the week.
type StrengthTemplate string

const (
	TemplateFullBody   StrengthTemplate = "full_body"
	TemplateUpperLower StrengthTemplate = "upper_lower"
	TemplatePushPull   StrengthTemplate = "push_pull"
)

// AllStrengthTemplates lists every strength template.
var AllStrengthTemplates = []StrengthTemplate{TemplateFullBody, TemplateUpperLower, TemplatePushPull}

// ParseStrengthTemplate converts a string to a StrengthTemplate.
func ParseStrengthTemplate(s string) (StrengthTemplate, error) {
	return parseEnum("strength template", s, AllStrengthTemplates)
}

// SessionStyle biases a session toward strength or cardio work.
type SessionStyle string

const (
	StyleBalanced      SessionStyle = "balanced"
	StyleStrengthFocus SessionStyle = "strength_focus"
	StyleCardioFocus   SessionStyle = "cardio_focus"
)

// AllSessionStyles lists every session style.
var AllSessionStyles = []SessionStyle{StyleBalanced, StyleStrengthFocus, StyleCardioFocus}

// ParseSessionStyle converts a string to a SessionStyle.
func ParseSessionStyle(s string) (SessionStyle, error) {
	return parseEnum("session style", s, AllSessionStyles)
}

// Equipment is a piece of kit an exercise needs.
type Equipment string

const (
	EquipmentDumbbell   Equipment = "dumbbell"
	EquipmentKettlebell Equipment = "kettlebell"
	EquipmentBand       Equipment = "band"
	EquipmentBench      Equipment = "bench"
	EquipmentPullupBar  Equipment = "pullup_bar"
)

// AllEquipment lists every equipment tag.
var AllEquipment = []Equipment{EquipmentDumbbell, EquipmentKettlebell, EquipmentBand, EquipmentBench, EquipmentPullupBar}

// ParseEquipment converts a string to an Equipment tag.
func ParseEquipment(s string) (Equipment, error) { return parseEnum("equipment", s, AllEquipment) }

// MovementPattern tags an exercise for slot-based selection.
type MovementPattern string

const (
	PatternSquat  MovementPattern = "squat"
	PatternHinge  MovementPattern = "hinge"
	PatternPush   MovementPattern = "push"
	PatternPull   MovementPattern = "pull"
	PatternLunge  MovementPattern = "lunge"
	PatternCore   MovementPattern = "core"
	PatternCarry  MovementPattern = "carry"
	PatternCardio MovementPattern = "cardio"
	PatternWarmUp MovementPattern = "warmup"
)

// AllMovementPatterns lists every movement pattern.
var AllMovementPatterns = []MovementPattern{
	PatternSquat, PatternHinge, PatternPush, PatternPull, PatternLunge,
	PatternCore, PatternCarry, PatternCardio, PatternWarmUp,
}

// ParseMovementPattern converts a string to a MovementPattern.
func ParseMovementPattern(s string) (MovementPattern, error) {
	return parseEnum("movement pattern", s, AllMovementPatterns)
}
