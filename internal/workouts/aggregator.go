package workouts

import (
	"context"
	"fmt"
	"sync"

	"github.com/2beens/workoutlog/internal/exercises"

	log "github.com/sirupsen/logrus"
)

// Aggregator composes exercise details and sets into per-date session views,
// and keeps them in a local Cache alongside the DateIndex.
//
// Store errors are logged and returned, and leave the cache untouched. A cache
// write failure only drops the cached date, the store operation still counts as done.
type Aggregator struct {
	store Store
	cache *Cache
	dates *DateIndex

	// guards cache read-modify-write sequences
	mutex sync.Mutex
}

func NewAggregator(store Store, cache *Cache) *Aggregator {
	return &Aggregator{
		store: store,
		cache: cache,
		dates: NewDateIndex(),
	}
}

func (a *Aggregator) DateIndex() *DateIndex {
	return a.dates
}

// FetchWorkout loads the user's sessions on date and replaces the cached entry.
func (a *Aggregator) FetchWorkout(ctx context.Context, date string, userID int) ([]SessionView, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	sessions, err := a.store.ListSessions(ctx, userID, date)
	if err != nil {
		log.Errorf("aggregator, fetch workout [%s] user %d: %s", date, userID, err)
		return nil, fmt.Errorf("fetch workout %s: %w", date, err)
	}
	if sessions == nil {
		sessions = []SessionView{}
	}
	sortSessions(sessions)

	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.checkCacheWrite(date, a.cache.Replace(date, sessions))

	return cloneSessions(sessions), nil
}

// AddSession creates a session for exercise on date, seeded with one empty set.
func (a *Aggregator) AddSession(ctx context.Context, date string, userID int, exercise exercises.Exercise) (SessionView, error) {
	if _, err := ParseDate(date); err != nil {
		return SessionView{}, err
	}

	ids, err := a.store.AddSession(ctx, userID, exercise.ID, date)
	if err != nil {
		log.Errorf("aggregator, add session [%s] exercise %d: %s", date, exercise.ID, err)
		return SessionView{}, fmt.Errorf("add session: %w", err)
	}

	session := SessionView{
		ID:               ids.SessionID,
		ExerciseID:       exercise.ID,
		WorkoutDate:      date,
		ExerciseName:     exercise.Name,
		ExerciseCategory: exercise.Category,
		Sets: []SetView{
			{ID: ids.SetID},
		},
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.checkCacheWrite(date, a.cache.AppendSession(date, session))
	a.dates.Mark(date)

	return session, nil
}

// RemoveSession deletes the session. The date stays in the DateIndex even when
// this was its last session; FetchWorkoutDates re-derives it.
func (a *Aggregator) RemoveSession(ctx context.Context, date string, sessionID int) error {
	if err := a.store.DeleteSession(ctx, sessionID); err != nil {
		log.Errorf("aggregator, remove session %d [%s]: %s", sessionID, date, err)
		return fmt.Errorf("remove session: %w", err)
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.checkCacheWrite(date, a.cache.RemoveSession(date, sessionID))

	return nil
}

func (a *Aggregator) AddSet(ctx context.Context, date string, sessionID int) (SetView, error) {
	setID, err := a.store.AddSet(ctx, sessionID)
	if err != nil {
		log.Errorf("aggregator, add set to session %d [%s]: %s", sessionID, date, err)
		return SetView{}, fmt.Errorf("add set: %w", err)
	}

	set := SetView{ID: setID}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.checkCacheWrite(date, a.cache.AppendSet(date, sessionID, set))

	return set, nil
}

// RemoveSet deletes a set. A session left without sets is kept.
func (a *Aggregator) RemoveSet(ctx context.Context, date string, sessionID, setID int) error {
	if err := a.store.DeleteSet(ctx, setID); err != nil {
		log.Errorf("aggregator, remove set %d [%s]: %s", setID, date, err)
		return fmt.Errorf("remove set: %w", err)
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.checkCacheWrite(date, a.cache.RemoveSet(date, sessionID, setID))

	return nil
}

// UpdateSet persists the provided fields and merges only those into the cached set.
func (a *Aggregator) UpdateSet(ctx context.Context, date string, sessionID, setID int, update SetUpdate) error {
	if update.IsEmpty() {
		return ErrEmptySetUpdate
	}
	update, err := update.Normalize()
	if err != nil {
		return err
	}

	if err := a.store.UpdateSet(ctx, setID, update); err != nil {
		log.Errorf("aggregator, update set %d [%s]: %s", setID, date, err)
		return fmt.Errorf("update set: %w", err)
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.checkCacheWrite(date, a.cache.PatchSet(date, sessionID, setID, update))

	return nil
}

// Workout reads the cached sessions for date without touching the store.
func (a *Aggregator) Workout(date string) ([]SessionView, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.cache.Get(date)
}

// FetchWorkoutDates reloads the dates with sessions and replaces the DateIndex.
func (a *Aggregator) FetchWorkoutDates(ctx context.Context, userID int) ([]string, error) {
	dates, err := a.store.ListDates(ctx, userID)
	if err != nil {
		log.Errorf("aggregator, fetch workout dates user %d: %s", userID, err)
		return nil, fmt.Errorf("fetch workout dates: %w", err)
	}

	a.dates.Replace(dates)
	return a.dates.Dates(), nil
}

func (a *Aggregator) checkCacheWrite(date string, err error) {
	if err != nil {
		log.Warnf("aggregator, cache write [%s]: %s", date, err)
	}
}
