package services

import (
	"context"
	"strings"
	"time"

	"irontycoon/internal/catalog"
	"irontycoon/internal/config"
	"irontycoon/internal/db"
	"irontycoon/internal/models"
	"irontycoon/internal/money"
	"irontycoon/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type WorkoutUserStore interface {
	userWallet
	Get(ctx context.Context) (models.User, error)
	SetLastWorkout(ctx context.Context, tx store.Execer, at int64) error
}

type WorkoutLogStore interface {
	InsertWorkout(ctx context.Context, tx store.Execer, w models.Workout) error
	InsertLog(ctx context.Context, tx store.Execer, l models.SetLog) error
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	ListLogs(ctx context.Context) ([]models.SetLog, error)
	TotalTonnage(ctx context.Context) (float64, error)
}

type WorkoutExerciseStore interface {
	List(ctx context.Context) ([]models.Exercise, error)
	GetForUpdate(ctx context.Context, tx store.Getter, id int64) (models.Exercise, error)
	SetPersonalRecord(ctx context.Context, tx store.Execer, id int64, record float64) error
	Insert(ctx context.Context, tx store.Execer, e models.Exercise) (int64, error)
}

type WorkoutBlueprintStore interface {
	List(ctx context.Context) ([]models.Blueprint, error)
	Insert(ctx context.Context, tx store.Execer, b models.Blueprint) error
}

// MarketPumper is the slice of the market the workout flow needs.
type MarketPumper interface {
	Pump(ctx context.Context, category string) (PumpResult, error)
}

// ContractTracker folds finished sessions into the active contract.
type ContractTracker interface {
	TrackProgress(ctx context.Context, session models.Session) (ContractSettlement, error)
}

// WorkoutService converts training into money: per-set gains with record
// bonuses, and the session close that pumps the market and advances the
// signed contract.
type WorkoutService struct {
	txRunner   db.TxRunner
	users      WorkoutUserStore
	workouts   WorkoutLogStore
	exercises  WorkoutExerciseStore
	blueprints WorkoutBlueprintStore
	market     MarketPumper
	contracts  ContractTracker
	hub        UpdateHub
	eco        config.Economy
	now        func() time.Time
}

func NewWorkoutService(txRunner db.TxRunner, users WorkoutUserStore, workouts WorkoutLogStore, exercises WorkoutExerciseStore, blueprints WorkoutBlueprintStore, market MarketPumper, contracts ContractTracker, hub UpdateHub, eco config.Economy) *WorkoutService {
	return &WorkoutService{
		txRunner:   txRunner,
		users:      users,
		workouts:   workouts,
		exercises:  exercises,
		blueprints: blueprints,
		market:     market,
		contracts:  contracts,
		hub:        hub,
		eco:        eco,
		now:        time.Now,
	}
}

type SetInput struct {
	ExerciseID  int64   `json:"exercise_id"`
	Weight      float64 `json:"weight"`
	Reps        int64   `json:"reps"`
	DurationMin float64 `json:"duration"`
	PerfectForm bool    `json:"perfect_form"`
}

type SetResult struct {
	Log       models.SetLog `json:"log"`
	GainMinor int64         `json:"gain"`
	NewRecord bool          `json:"new_record"`
	Category  string        `json:"category"`
	Balance   int64         `json:"balance"`
}

// LogSet prices one completed set and credits the gain. Cardio pays by the
// minute, everything else by tonnage; a new personal record on a weighted
// lift pays a flat bonus on top.
func (s *WorkoutService) LogSet(ctx context.Context, in SetInput) (SetResult, error) {
	var result SetResult
	var after models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		exercise, err := s.exercises.GetForUpdate(ctx, tx, in.ExerciseID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrUnknownExercise
			}
			return err
		}
		u, err := s.users.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		var baseWOL float64
		if exercise.Category == catalog.CategoryCardio {
			baseWOL = in.DurationMin * 10 * exercise.Multiplier
		} else {
			baseWOL = in.Weight * float64(in.Reps) * exercise.Multiplier
		}
		gain := money.ScaleFloat(money.FromWOL(1), baseWOL)
		newRecord := exercise.Category != catalog.CategoryCardio && in.Weight > exercise.PersonalRecord
		if newRecord {
			gain += money.FromWOL(s.eco.PersonalRecordBonus)
			if err := s.exercises.SetPersonalRecord(ctx, tx, exercise.ID, in.Weight); err != nil {
				return err
			}
		}
		if in.PerfectForm {
			gain += money.FromWOL(s.eco.PerfectSetBonus)
		}
		// The upgrade multiplier scales the whole payout, bonuses included.
		if up, ok := catalog.UpgradeByID(catalog.UpgradeGoldWeight); ok && hasUpgrade(u.OwnedUpgrades, up.ID) {
			gain = money.ScaleFloat(gain, up.Value)
		}
		if gain < 0 {
			return ErrInvalidAmount
		}
		after, err = creditEarned(ctx, tx, s.users, gain)
		if err != nil {
			return err
		}
		logEntry := models.SetLog{
			ID:         uuid.NewString(),
			ExerciseID: exercise.ID,
			Weight:     in.Weight,
			Reps:       in.Reps,
			Duration:   in.DurationMin,
			Gain:       gain,
			LoggedAt:   s.now().Unix(),
		}
		if err := s.workouts.InsertLog(ctx, tx, logEntry); err != nil {
			return err
		}
		result = SetResult{
			Log:       logEntry,
			GainMinor: gain,
			NewRecord: newRecord,
			Category:  exercise.Category,
			Balance:   after.Balance,
		}
		return nil
	})
	if err != nil {
		return SetResult{}, err
	}
	broadcastWallet(s.hub, after)
	return result, nil
}

type FinishSessionInput struct {
	Session     models.Session `json:"session"`
	DurationMin int64          `json:"duration"`
	Mood        string         `json:"mood"`
}

type FinishSessionResult struct {
	Workout    models.Workout     `json:"workout"`
	Pumps      []PumpResult       `json:"pumps"`
	Settlement ContractSettlement `json:"settlement"`
}

// FinishSession closes out a workout: the summary row and the streak stamp
// commit together, then each trained muscle group pumps its instrument once
// and the session feeds the active contract.
func (s *WorkoutService) FinishSession(ctx context.Context, in FinishSessionInput) (FinishSessionResult, error) {
	workout := models.Workout{
		ID:        uuid.NewString(),
		Date:      s.now().Unix(),
		Duration:  in.DurationMin,
		TotalGain: in.Session.TotalGain,
		Mood:      in.Mood,
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.workouts.InsertWorkout(ctx, tx, workout); err != nil {
			return err
		}
		return s.users.SetLastWorkout(ctx, tx, workout.Date)
	})
	if err != nil {
		return FinishSessionResult{}, err
	}
	result := FinishSessionResult{Workout: workout}
	for _, category := range distinctCategories(in.Session) {
		pump, err := s.market.Pump(ctx, category)
		if err != nil {
			return result, err
		}
		result.Pumps = append(result.Pumps, pump)
	}
	settlement, err := s.contracts.TrackProgress(ctx, in.Session)
	if err != nil {
		return result, err
	}
	result.Settlement = settlement
	return result, nil
}

func distinctCategories(session models.Session) []string {
	var categories []string
	seen := make(map[string]bool)
	for _, ex := range session.Exercises {
		category := strings.ToLower(ex.Category)
		if seen[category] {
			continue
		}
		if _, ok := catalog.TickerForCategory(category); !ok {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	return categories
}

func (s *WorkoutService) Exercises(ctx context.Context) ([]models.Exercise, error) {
	return s.exercises.List(ctx)
}

func (s *WorkoutService) CreateExercise(ctx context.Context, name, category string, multiplier float64) (models.Exercise, error) {
	if _, ok := catalog.TickerForCategory(category); !ok {
		return models.Exercise{}, ErrUnknownTicker
	}
	exercise := models.Exercise{Name: name, Category: category, Multiplier: multiplier}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := s.exercises.Insert(ctx, tx, exercise)
		if err != nil {
			return err
		}
		exercise.ID = id
		return nil
	})
	if err != nil {
		return models.Exercise{}, err
	}
	return exercise, nil
}

func (s *WorkoutService) History(ctx context.Context) ([]models.Workout, error) {
	return s.workouts.ListWorkouts(ctx)
}

func (s *WorkoutService) Logs(ctx context.Context) ([]models.SetLog, error) {
	return s.workouts.ListLogs(ctx)
}

func (s *WorkoutService) Blueprints(ctx context.Context) ([]models.Blueprint, error) {
	return s.blueprints.List(ctx)
}

func (s *WorkoutService) SaveBlueprint(ctx context.Context, name, exercisesJSON string) (models.Blueprint, error) {
	blueprint := models.Blueprint{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now().Unix(),
		Exercises: exercisesJSON,
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.blueprints.Insert(ctx, tx, blueprint)
	})
	if err != nil {
		return models.Blueprint{}, err
	}
	return blueprint, nil
}

// RestFactor reports the rest-timer scale after upgrades.
func (s *WorkoutService) RestFactor(ctx context.Context) (float64, error) {
	u, err := s.users.Get(ctx)
	if err != nil {
		return 1, err
	}
	if up, ok := catalog.UpgradeByID(catalog.UpgradeVentSystem); ok && hasUpgrade(u.OwnedUpgrades, up.ID) {
		return up.Value, nil
	}
	return 1, nil
}
