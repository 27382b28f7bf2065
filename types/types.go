// Package types defines the shared data structures for the TypeQuest engine.
// This package contains only type definitions, no logic beyond trivial
// constructors.
package types

// LessonKind classifies a lesson within a chapter.
type LessonKind string

const (
	LessonNarrative LessonKind = "narrative"
	LessonDrill     LessonKind = "drill"
	LessonJob       LessonKind = "job"
)

// Stat names the player statistics that requirements and rewards may
// reference.
type Stat string

const (
	StatHappiness Stat = "happiness"
	StatEnergy    Stat = "energy"
	StatSkill     Stat = "skill"
)

// RequirementKind discriminates the Requirement sum type.
type RequirementKind string

const (
	ReqItemOwned         RequirementKind = "item_owned"
	ReqVehicleOwned      RequirementKind = "vehicle_owned"
	ReqPetOwned          RequirementKind = "pet_owned"
	ReqRelationshipLevel RequirementKind = "relationship_level"
	ReqStatAtLeast       RequirementKind = "stat_at_least"
	ReqChapterUnlocked   RequirementKind = "chapter_unlocked"
	ReqFlagSet           RequirementKind = "flag_set"
	ReqMoneyAtLeast      RequirementKind = "money_at_least"
)

// Requirement is a gating predicate. Only the fields for its Kind are set.
// Unknown kinds evaluate as satisfied so old engines tolerate new catalog
// vocabulary.
type Requirement struct {
	Kind      RequirementKind `json:"kind"`
	ItemID    string          `json:"item_id,omitempty"`
	VehicleID string          `json:"vehicle_id,omitempty"`
	PetID     string          `json:"pet_id,omitempty"`
	PartnerID string          `json:"partner_id,omitempty"`
	Stat      Stat            `json:"stat,omitempty"`
	Min       int             `json:"min,omitempty"`
	ChapterID int             `json:"chapter_id,omitempty"`
	Flag      string          `json:"flag,omitempty"`
	Amount    int             `json:"amount,omitempty"`
}

// RewardKind discriminates the Reward sum type.
type RewardKind string

const (
	RewMoneyDelta        RewardKind = "money_delta"
	RewItemGrant         RewardKind = "item_grant"
	RewVehicleGrant      RewardKind = "vehicle_grant"
	RewPetGrant          RewardKind = "pet_grant"
	RewRelationshipDelta RewardKind = "relationship_delta"
	RewStatDelta         RewardKind = "stat_delta"
	RewFlagSet           RewardKind = "flag_set"
)

// Reward is a single state mutation applied as the consequence of an action.
type Reward struct {
	Kind      RewardKind `json:"kind"`
	Amount    int        `json:"amount,omitempty"`
	ItemID    string     `json:"item_id,omitempty"`
	VehicleID string     `json:"vehicle_id,omitempty"`
	PetID     string     `json:"pet_id,omitempty"`
	PartnerID string     `json:"partner_id,omitempty"`
	Stat      Stat       `json:"stat,omitempty"`
	Delta     int        `json:"delta,omitempty"`
	Flag      string     `json:"flag,omitempty"`
}

// Hint is a displayable tip attached to a lesson.
type Hint struct {
	ID   string
	Text string
}

// LessonChoiceEffects are the numeric consequences of a lesson branch.
type LessonChoiceEffects struct {
	Money              int
	Happiness          int
	Energy             int
	Skill              int
	DifficultyModifier int
}

// LessonChoice is one of exactly two mutually exclusive branches a lesson
// may offer. The choice is write-once per lesson.
type LessonChoice struct {
	ID          string
	Label       string
	Description string
	Effects     LessonChoiceEffects
	StoryFlag   string
}

// Lesson is one typing exercise. Immutable; owned by the catalog.
type Lesson struct {
	ID           string
	ChapterID    int
	Kind         LessonKind
	Title        string
	Description  string
	Snippet      string // the text to type
	GoalAccuracy int    // 0–100
	GoalWPM      int    // > 0
	Payout       int    // >= 0
	Flavor       string
	Tags         []string
	Difficulty   string
	Hints        []Hint
	Requirements []Requirement
	Rewards      []Reward
	Choices      []LessonChoice // nil or exactly two
}

// Chapter groups lessons. IDs are dense ordinals from 0.
type Chapter struct {
	ID            int
	Name          string
	Summary       string
	Beats         []string
	EntryLessonID string
	EndingFlags   []string
}

// ItemEffects are the passive bonuses an owned item confers.
type ItemEffects struct {
	AccuracyBonus    int
	WPMBonus         int
	PayoutMultiplier float64 // 0 means "no multiplier" (contributes 1)
}

// Item is a purchasable piece of gear.
type Item struct {
	ID           string
	Name         string
	Type         string // "laptop", "keyboard", "monitor", "coffee"
	Cost         int
	Requirements []Requirement
	Effects      ItemEffects
}

// Vehicle is a purchasable mode of transport.
type Vehicle struct {
	ID           string
	Name         string
	Tier         int
	Cost         int
	Upkeep       int
	Requirements []Requirement
	JobTags      []string
}

// PetEffects are the passive bonuses an adopted pet confers.
type PetEffects struct {
	AccuracyBonus   int
	WPMBonus        int
	MotivationBonus int
}

// Pet is an adoptable companion.
type Pet struct {
	ID      string
	Name    string
	Cost    int
	Upkeep  int
	Effects PetEffects
}

// HousingEffects are the passive effects of a housing option.
type HousingEffects struct {
	HappinessBonus int
	EnergyRegen    int
}

// Housing is a place to live. Moving into housing with an EndingFlag latches
// that flag directly.
type Housing struct {
	ID         string
	Name       string
	Tier       int
	Cost       int
	Upkeep     int
	Effects    HousingEffects
	EndingFlag string
}

// RelationshipMilestone is one level of a partner relationship.
type RelationshipMilestone struct {
	Level       int
	Label       string
	LessonID    string
	Requirement *Requirement
	Reward      *Reward
}

// RelationshipPartner is a character the player can build a relationship with.
type RelationshipPartner struct {
	ID         string
	Name       string
	Occupation string
	Milestones []RelationshipMilestone
}

// Ending is a terminal narrative state. Conditions are conjunctive.
type Ending struct {
	ID          string
	Title       string
	Description string
	Conditions  []Requirement
}

// ChoiceOption is one selectable option of a choice node.
type ChoiceOption struct {
	ID               string
	Label            string
	OutcomeText      string
	Requirements     []Requirement
	Rewards          []Reward
	NextNodeID       string
	TriggersLessonID string
	EndingFlag       string
}

// ChoiceNode is a node in the narrative choice graph.
type ChoiceNode struct {
	ID        string
	ChapterID int
	Title     string
	Narrative string
	Options   []ChoiceOption
}

// TypingResult is the finished measurement of one typing run, produced by
// the typing collaborator. The engine never inspects raw keystrokes.
type TypingResult struct {
	Accuracy     float64 `json:"accuracy"` // 0–100
	WPM          float64 `json:"wpm"`      // >= 0
	Errors       int     `json:"errors"`
	TimeMs       int64   `json:"time_ms"`
	CorrectChars int     `json:"correct_chars"`
	TotalChars   int     `json:"total_chars"`
}

// CompletedLesson records the latest attempt at a lesson.
type CompletedLesson struct {
	Result           TypingResult `json:"result"`
	Payout           int          `json:"payout"`
	Passed           bool         `json:"passed"`
	CompletedAt      int64        `json:"completed_at"` // unix millis
	SelectedChoiceID string       `json:"selected_choice_id,omitempty"`
}

// LifetimeStats are cumulative totals. They only ever increase.
type LifetimeStats struct {
	TotalCharsTyped   int     `json:"total_chars_typed"`
	CorrectChars      int     `json:"correct_chars"`
	SessionsCompleted int     `json:"sessions_completed"`
	TotalTimeMs       int64   `json:"total_time_ms"`
	BestAccuracy      float64 `json:"best_accuracy"`
	BestWPM           float64 `json:"best_wpm"`
}

// Relationship is the player's standing with one partner.
type Relationship struct {
	Level    int `json:"level"`
	Progress int `json:"progress"`
}

// PlayerState is the aggregate root: the single mutable entity owned
// exclusively by the engine. Hosts hold one instance and submit actions one
// at a time.
type PlayerState struct {
	Money              int `json:"money"`
	Happiness          int `json:"happiness"`
	Energy             int `json:"energy"`
	Skill              int `json:"skill"`
	DifficultyModifier int `json:"difficulty_modifier"`

	CurrentChapterID int          `json:"current_chapter_id"`
	UnlockedChapters map[int]bool `json:"unlocked_chapters"`
	CurrentLessonID  string       `json:"current_lesson_id"`

	CompletedLessons map[string]CompletedLesson `json:"completed_lessons"`
	LifetimeStats    LifetimeStats              `json:"lifetime_stats"`

	OwnedItems    map[string]bool `json:"owned_items"`
	OwnedVehicles map[string]bool `json:"owned_vehicles"`
	OwnedPets     map[string]bool `json:"owned_pets"`
	HousingID     string          `json:"housing_id"`

	Relationships map[string]Relationship `json:"relationships"`

	Flags              map[string]bool   `json:"flags"`
	ChosenFlags        []string          `json:"chosen_flags"`
	LessonChoices      map[string]string `json:"lesson_choices"`
	ActiveChoiceNodeID string            `json:"active_choice_node_id,omitempty"`

	HasStarted bool `json:"has_started"`
}

// Bonuses are the transient modifiers derived from owned items and pets.
// Recomputed on demand, never stored.
type Bonuses struct {
	AccuracyBonus    int
	WPMBonus         int
	PayoutMultiplier float64
}

// ActionResult is the uniform outcome of a gated action. Gating failures are
// values, never errors: OK is false and Reason holds the user-visible cause.
type ActionResult struct {
	OK     bool
	Reason string
}

// Denied builds a failed ActionResult.
func Denied(reason string) ActionResult { return ActionResult{Reason: reason} }

// Allowed is the successful ActionResult.
func Allowed() ActionResult { return ActionResult{OK: true} }

// LessonOutcome is the scored result of submitting a TypingResult, returned
// so hosts can render it without recomputing.
type LessonOutcome struct {
	Passed            bool
	Earned            int
	UnlockedChapterID int // -1 when no chapter was unlocked
	EffectiveAccuracy float64
	EffectiveWPM      float64
	GoalAccuracy      int
	GoalWPM           int
}

// ChapterProgress is the pass-based progress view shown to the player.
type ChapterProgress struct {
	Completed int
	Total     int
}
