package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"irontycoon/internal/config"
	"irontycoon/internal/models"
	"irontycoon/internal/money"
	"irontycoon/internal/store"
)

type fakeExerciseStore struct {
	exercises map[int64]*models.Exercise
	nextID    int64
}

func newFakeExerciseStore(exercises ...models.Exercise) *fakeExerciseStore {
	f := &fakeExerciseStore{exercises: make(map[int64]*models.Exercise), nextID: 100}
	for i := range exercises {
		e := exercises[i]
		f.exercises[e.ID] = &e
	}
	return f
}

func (f *fakeExerciseStore) List(ctx context.Context) ([]models.Exercise, error) {
	var out []models.Exercise
	for _, e := range f.exercises {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeExerciseStore) GetForUpdate(ctx context.Context, tx store.Getter, id int64) (models.Exercise, error) {
	e, ok := f.exercises[id]
	if !ok {
		return models.Exercise{}, sql.ErrNoRows
	}
	return *e, nil
}

func (f *fakeExerciseStore) SetPersonalRecord(ctx context.Context, tx store.Execer, id int64, record float64) error {
	f.exercises[id].PersonalRecord = record
	return nil
}

func (f *fakeExerciseStore) Insert(ctx context.Context, tx store.Execer, e models.Exercise) (int64, error) {
	f.nextID++
	e.ID = f.nextID
	f.exercises[e.ID] = &e
	return e.ID, nil
}

type fakeWorkoutLogStore struct {
	workouts []models.Workout
	logs     []models.SetLog
}

func (f *fakeWorkoutLogStore) InsertWorkout(ctx context.Context, tx store.Execer, w models.Workout) error {
	f.workouts = append(f.workouts, w)
	return nil
}

func (f *fakeWorkoutLogStore) InsertLog(ctx context.Context, tx store.Execer, l models.SetLog) error {
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeWorkoutLogStore) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	return f.workouts, nil
}

func (f *fakeWorkoutLogStore) ListLogs(ctx context.Context) ([]models.SetLog, error) {
	return f.logs, nil
}

func (f *fakeWorkoutLogStore) TotalTonnage(ctx context.Context) (float64, error) {
	var total float64
	for _, l := range f.logs {
		total += l.Weight * float64(l.Reps)
	}
	return total, nil
}

type fakeBlueprintStore struct {
	blueprints []models.Blueprint
}

func (f *fakeBlueprintStore) List(ctx context.Context) ([]models.Blueprint, error) {
	return f.blueprints, nil
}

func (f *fakeBlueprintStore) Insert(ctx context.Context, tx store.Execer, b models.Blueprint) error {
	f.blueprints = append(f.blueprints, b)
	return nil
}

type stubPumper struct {
	categories []string
	err        error
}

func (s *stubPumper) Pump(ctx context.Context, category string) (PumpResult, error) {
	s.categories = append(s.categories, category)
	return PumpResult{Ticker: category}, s.err
}

type stubTracker struct {
	sessions   []models.Session
	settlement ContractSettlement
}

func (s *stubTracker) TrackProgress(ctx context.Context, session models.Session) (ContractSettlement, error) {
	s.sessions = append(s.sessions, session)
	return s.settlement, nil
}

type workoutFixture struct {
	svc       *WorkoutService
	users     *fakeUserStore
	logs      *fakeWorkoutLogStore
	exercises *fakeExerciseStore
	pumper    *stubPumper
	tracker   *stubTracker
	hub       *stubHub
}

func newWorkoutForTest(user models.User, exercises ...models.Exercise) workoutFixture {
	f := workoutFixture{
		users:     &fakeUserStore{user: user},
		logs:      &fakeWorkoutLogStore{},
		exercises: newFakeExerciseStore(exercises...),
		pumper:    &stubPumper{},
		tracker:   &stubTracker{},
		hub:       &stubHub{},
	}
	f.svc = NewWorkoutService(fakeTxRunner{}, f.users, f.logs, f.exercises, &fakeBlueprintStore{}, f.pumper, f.tracker, f.hub, config.DefaultEconomy())
	return f
}

func TestLogSetStrengthGain(t *testing.T) {
	f := newWorkoutForTest(
		models.User{OwnedUpgrades: "[]"},
		models.Exercise{ID: 1, Name: "Bench Press", Category: "push", Multiplier: 1.5, PersonalRecord: 120},
	)

	result, err := f.svc.LogSet(context.Background(), SetInput{ExerciseID: 1, Weight: 80, Reps: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 80 kg x 10 reps x 1.5 = 1200 $WOL.
	if result.GainMinor != money.FromWOL(1200) {
		t.Fatalf("unexpected gain: %d", result.GainMinor)
	}
	if result.NewRecord {
		t.Fatalf("80 kg is no record against 120")
	}
	if f.users.user.Balance != money.FromWOL(1200) || f.users.user.TotalEarned != money.FromWOL(1200) {
		t.Fatalf("gain must land as earnings: %+v", f.users.user)
	}
	if len(f.logs.logs) != 1 {
		t.Fatalf("set not logged")
	}
	if len(f.hub.updates) != 1 {
		t.Fatalf("expected a balance broadcast")
	}
}

func TestLogSetCardioPaysByMinute(t *testing.T) {
	f := newWorkoutForTest(
		models.User{OwnedUpgrades: "[]"},
		models.Exercise{ID: 2, Name: "Running (min)", Category: "cardio", Multiplier: 1.0},
	)

	result, err := f.svc.LogSet(context.Background(), SetInput{ExerciseID: 2, DurationMin: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 30 minutes x 10 $WOL/min.
	if result.GainMinor != money.FromWOL(300) {
		t.Fatalf("unexpected gain: %d", result.GainMinor)
	}
	if result.NewRecord {
		t.Fatalf("cardio never sets a weight record")
	}
}

func TestLogSetPersonalRecord(t *testing.T) {
	f := newWorkoutForTest(
		models.User{OwnedUpgrades: "[]"},
		models.Exercise{ID: 1, Name: "Squat", Category: "legs", Multiplier: 1.5, PersonalRecord: 100},
	)

	result, err := f.svc.LogSet(context.Background(), SetInput{ExerciseID: 1, Weight: 110, Reps: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewRecord {
		t.Fatalf("110 kg beats the 100 kg record")
	}
	// 110 x 1 x 1.5 = 165 $WOL plus the 500 $WOL record bonus.
	if result.GainMinor != money.FromWOL(665) {
		t.Fatalf("unexpected gain: %d", result.GainMinor)
	}
	if f.exercises.exercises[1].PersonalRecord != 110 {
		t.Fatalf("record not persisted")
	}
}

func TestLogSetPerfectFormBonus(t *testing.T) {
	f := newWorkoutForTest(
		models.User{OwnedUpgrades: "[]"},
		models.Exercise{ID: 1, Name: "Curl", Category: "pull", Multiplier: 1.0, PersonalRecord: 50},
	)

	result, err := f.svc.LogSet(context.Background(), SetInput{ExerciseID: 1, Weight: 20, Reps: 10, PerfectForm: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.GainMinor != money.FromWOL(210) {
		t.Fatalf("unexpected gain: %d", result.GainMinor)
	}
}

func TestLogSetGoldWeightsMultiplier(t *testing.T) {
	f := newWorkoutForTest(
		models.User{OwnedUpgrades: `["GOLD_WEIGHTS"]`},
		models.Exercise{ID: 1, Name: "Deadlift", Category: "pull", Multiplier: 1.0, PersonalRecord: 300},
	)

	result, err := f.svc.LogSet(context.Background(), SetInput{ExerciseID: 1, Weight: 100, Reps: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100 $WOL x 1.1 from the gold plating.
	if result.GainMinor != money.FromWOL(110) {
		t.Fatalf("unexpected gain: %d", result.GainMinor)
	}
}

func TestLogSetMultiplierScalesBonuses(t *testing.T) {
	f := newWorkoutForTest(
		models.User{OwnedUpgrades: `["GOLD_WEIGHTS"]`},
		models.Exercise{ID: 1, Name: "Deadlift", Category: "pull", Multiplier: 1.0, PersonalRecord: 50},
	)

	result, err := f.svc.LogSet(context.Background(), SetInput{ExerciseID: 1, Weight: 100, Reps: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewRecord {
		t.Fatalf("100 kg beats the 50 kg record")
	}
	// The gold plating multiplies the record bonus too: (100 + 500) x 1.1.
	if result.GainMinor != money.FromWOL(660) {
		t.Fatalf("unexpected gain: %d", result.GainMinor)
	}
}

func TestLogSetUnknownExercise(t *testing.T) {
	f := newWorkoutForTest(models.User{OwnedUpgrades: "[]"})
	if _, err := f.svc.LogSet(context.Background(), SetInput{ExerciseID: 42, Weight: 10, Reps: 1}); err != ErrUnknownExercise {
		t.Fatalf("expected ErrUnknownExercise, got %v", err)
	}
}

func TestFinishSessionPumpsAndTracks(t *testing.T) {
	now := time.Date(2026, 8, 3, 18, 0, 0, 0, time.UTC)
	f := newWorkoutForTest(models.User{OwnedUpgrades: "[]"})
	f.svc.now = func() time.Time { return now }

	session := models.Session{
		Exercises: []models.SessionExercise{
			{Category: "Push"},
			{Category: "push"},
			{Category: "cardio"},
			{Category: "yoga"},
		},
		TotalGain: money.FromWOL(450),
	}
	result, err := f.svc.FinishSession(context.Background(), FinishSessionInput{
		Session:     session,
		DurationMin: 55,
		Mood:        "strong",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Workout.TotalGain != money.FromWOL(450) || result.Workout.Duration != 55 {
		t.Fatalf("unexpected workout row: %+v", result.Workout)
	}
	if len(f.logs.workouts) != 1 {
		t.Fatalf("workout not recorded")
	}
	if f.users.user.LastWorkoutAt != now.Unix() {
		t.Fatalf("streak stamp missing")
	}
	// Push trains twice but pumps once; yoga maps to no instrument.
	if len(f.pumper.categories) != 2 || f.pumper.categories[0] != "push" || f.pumper.categories[1] != "cardio" {
		t.Fatalf("unexpected pumps: %v", f.pumper.categories)
	}
	if len(f.tracker.sessions) != 1 {
		t.Fatalf("session not fed to the contract")
	}
}

func TestCreateExercise(t *testing.T) {
	f := newWorkoutForTest(models.User{})

	exercise, err := f.svc.CreateExercise(context.Background(), "Front Squat", "legs", 1.3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exercise.ID == 0 {
		t.Fatalf("insert id not propagated")
	}
	if _, err := f.svc.CreateExercise(context.Background(), "Meditation", "mind", 1); err != ErrUnknownTicker {
		t.Fatalf("expected ErrUnknownTicker, got %v", err)
	}
}

func TestRestFactor(t *testing.T) {
	f := newWorkoutForTest(models.User{OwnedUpgrades: `["VENT_SYSTEM"]`})
	factor, err := f.svc.RestFactor(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if factor != 0.90 {
		t.Fatalf("unexpected rest factor: %f", factor)
	}

	f = newWorkoutForTest(models.User{OwnedUpgrades: "[]"})
	factor, err = f.svc.RestFactor(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if factor != 1 {
		t.Fatalf("unexpected rest factor without the vents: %f", factor)
	}
}
