package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Planner holds one user's weekly schedule keyed by day of week.
type Planner struct {
	store  Store
	userID int

	mutex sync.Mutex
	plans map[int]DayPlan
}

func NewPlanner(store Store, userID int) *Planner {
	return &Planner{
		store:  store,
		userID: userID,
		plans:  map[int]DayPlan{},
	}
}

// Fetch reloads the schedule; the local map is rebuilt from scratch.
func (p *Planner) Fetch(ctx context.Context) error {
	list, err := p.store.List(ctx, p.userID)
	if err != nil {
		log.Errorf("planner, fetch schedule for user %d: %s", p.userID, err)
		return fmt.Errorf("fetch schedule: %w", err)
	}

	plans := make(map[int]DayPlan, len(list))
	for _, plan := range list {
		plans[plan.DayOfWeek] = plan
	}

	p.mutex.Lock()
	p.plans = plans
	p.mutex.Unlock()

	return nil
}

func (p *Planner) SaveDayPlan(ctx context.Context, day int, input DayPlanInput) (DayPlan, error) {
	if !ValidDay(day) {
		return DayPlan{}, ErrInvalidDay
	}

	saved, err := p.store.Upsert(ctx, p.userID, day, input)
	if err != nil {
		log.Errorf("planner, save day %d for user %d: %s", day, p.userID, err)
		return DayPlan{}, fmt.Errorf("save day plan: %w", err)
	}

	p.mutex.Lock()
	p.plans[day] = *saved
	p.mutex.Unlock()

	return *saved, nil
}

// DeleteDayPlan removes the plan for day. A plan already gone from the store
// counts as deleted and is dropped locally as well.
func (p *Planner) DeleteDayPlan(ctx context.Context, day int) error {
	if !ValidDay(day) {
		return ErrInvalidDay
	}

	if err := p.store.Delete(ctx, p.userID, day); err != nil && !errors.Is(err, ErrDayPlanNotFound) {
		log.Errorf("planner, delete day %d for user %d: %s", day, p.userID, err)
		return fmt.Errorf("delete day plan: %w", err)
	}

	p.mutex.Lock()
	delete(p.plans, day)
	p.mutex.Unlock()

	return nil
}

func (p *Planner) DayPlan(day int) (DayPlan, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	plan, ok := p.plans[day]
	return plan, ok
}

// Plans returns a copy of the schedule.
func (p *Planner) Plans() map[int]DayPlan {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	plans := make(map[int]DayPlan, len(p.plans))
	for day, plan := range p.plans {
		plans[day] = plan
	}
	return plans
}
