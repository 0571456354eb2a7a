package models

// All monetary fields are in minor units (hundredths of a $WOL).
// All timestamps are unix seconds.

type User struct {
	ID                     int64  `db:"id" json:"id"`
	Name                   string `db:"name" json:"name"`
	Balance                int64  `db:"balance" json:"balance"`
	TotalEarned            int64  `db:"total_earned" json:"total_earned"`
	CurrentRank            string `db:"current_rank" json:"current_rank"`
	LastWorkoutAt          int64  `db:"last_workout_at" json:"last_workout_at"`
	LastSeenAt             int64  `db:"last_seen_at" json:"last_seen_at"`
	PendingIncome          int64  `db:"pending_income" json:"pending_income"`
	LastPenalizedWorkoutAt *int64 `db:"last_penalized_workout_at" json:"last_penalized_workout_at,omitempty"`
	OwnedUpgrades          string `db:"owned_upgrades" json:"owned_upgrades"`
	HolidayMode            bool   `db:"holiday_mode" json:"holiday_mode"`
	UnitSystem             string `db:"unit_system" json:"unit_system"`
	Haptics                bool   `db:"haptics" json:"haptics"`
	Theme                  string `db:"theme" json:"theme"`
	OnboardingComplete     bool   `db:"onboarding_complete" json:"onboarding_complete"`
	CreatedAt              int64  `db:"created_at" json:"created_at"`
}

type Stock struct {
	Ticker            string `db:"ticker" json:"ticker"`
	DisplayName       string `db:"display_name" json:"display_name"`
	Category          string `db:"category" json:"category"`
	CurrentPrice      int64  `db:"current_price" json:"current_price"`
	OwnedShares       int64  `db:"owned_shares" json:"owned_shares"`
	LastWorkoutAt     int64  `db:"last_workout_at" json:"last_workout_at"`
	DumpPenalizedDays int64  `db:"dump_penalized_days" json:"dump_penalized_days"`
}

type PricePoint struct {
	TickAt int64 `db:"tick_at" json:"time"`
	Price  int64 `db:"price" json:"price"`
}

type ShopState struct {
	ID          int64 `db:"id" json:"id"`
	LastRefresh int64 `db:"last_refresh" json:"last_refresh"`
}

type ShopSlot struct {
	Position int64 `db:"position" json:"position"`
	ItemID   int64 `db:"item_id" json:"item_id"`
	SoldOut  bool  `db:"sold_out" json:"sold_out"`
}

// Contract statuses. Transitions are one-way:
// OFFERED -> ACTIVE -> {COMPLETED | FAILED}, or OFFERED -> DISCARDED.
const (
	ContractOffered   = "OFFERED"
	ContractActive    = "ACTIVE"
	ContractCompleted = "COMPLETED"
	ContractFailed    = "FAILED"
	ContractDiscarded = "DISCARDED"
)

const (
	ContractHeavyLift    = "HEAVY_LIFT"
	ContractCardioRush   = "CARDIO_RUSH"
	ContractIncomeStream = "INCOME_STREAM"
)

// Contract target/progress units depend on the type: HEAVY_LIFT counts
// kilograms of tonnage, the other types count minor currency units.
type Contract struct {
	ID              string `db:"id" json:"id"`
	WeekID          string `db:"week_id" json:"week_id"`
	Type            string `db:"type" json:"type"`
	Title           string `db:"title" json:"title"`
	Description     string `db:"description" json:"description"`
	Difficulty      string `db:"difficulty" json:"difficulty"`
	TargetValue     int64  `db:"target_value" json:"target_value"`
	Reward          int64  `db:"reward" json:"reward"`
	Penalty         int64  `db:"penalty" json:"penalty"`
	DurationHours   int64  `db:"duration_hours" json:"duration_hours"`
	Status          string `db:"status" json:"status"`
	CurrentProgress int64  `db:"current_progress" json:"current_progress"`
	Deadline        *int64 `db:"deadline" json:"deadline,omitempty"`
	CreatedAt       int64  `db:"created_at" json:"created_at"`
}

const (
	InventoryOwned    = "OWNED"
	InventoryConsumed = "CONSUMED"

	InventoryConsumable = "CONSUMABLE"
	InventoryPermanent  = "PERMANENT"
)

type InventoryEntry struct {
	ID         string `db:"id" json:"id"`
	ItemID     int64  `db:"item_id" json:"item_id"`
	Status     string `db:"status" json:"status"`
	Type       string `db:"type" json:"type"`
	AcquiredAt int64  `db:"acquired_at" json:"acquired_at"`
	ConsumedAt *int64 `db:"consumed_at" json:"consumed_at,omitempty"`
}

type Exercise struct {
	ID             int64   `db:"id" json:"id"`
	Name           string  `db:"name" json:"name"`
	Category       string  `db:"category" json:"category"`
	Multiplier     float64 `db:"multiplier" json:"multiplier"`
	PersonalRecord float64 `db:"personal_record" json:"personal_record"`
}

type Workout struct {
	ID        string `db:"id" json:"id"`
	Date      int64  `db:"date" json:"date"`
	Duration  int64  `db:"duration" json:"duration"`
	TotalGain int64  `db:"total_gain" json:"total_gain"`
	Mood      string `db:"mood" json:"mood"`
}

type SetLog struct {
	ID         string  `db:"id" json:"id"`
	ExerciseID int64   `db:"exercise_id" json:"exercise_id"`
	Weight     float64 `db:"weight" json:"weight"`
	Reps       int64   `db:"reps" json:"reps"`
	Duration   float64 `db:"duration" json:"duration"`
	Gain       int64   `db:"gain" json:"gain"`
	LoggedAt   int64   `db:"logged_at" json:"date"`
}

type Blueprint struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	Exercises string `db:"exercises" json:"exercises"`
}

// Legacy flat shop table, kept for inventory stats and backup compatibility.
type ShopItem struct {
	ID             int64  `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Cost           int64  `db:"cost" json:"cost"`
	Type           string `db:"type" json:"type"`
	PurchasedCount int64  `db:"purchased_count" json:"purchased_count"`
	Icon           string `db:"icon" json:"icon"`
}

// Session is the payload the workout-logging layer hands to contract
// progress tracking when a session finishes. Gain is carried per set so
// cardio earnings do not have to be recomputed downstream.
type Session struct {
	Exercises []SessionExercise `json:"exercises"`
	TotalGain int64             `json:"total_gain"`
}

type SessionExercise struct {
	Category string       `json:"category"`
	Sets     []SessionSet `json:"sets"`
}

type SessionSet struct {
	Weight   float64 `json:"weight"`
	Reps     int64   `json:"reps"`
	Duration float64 `json:"duration"`
	Gain     int64   `json:"gain"`
}
