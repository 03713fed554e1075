package workouts

import (
	"sort"
	"sync"
)

// DateIndex is the set of dates on which the user logged at least one session.
type DateIndex struct {
	mutex sync.RWMutex
	dates map[string]struct{}
}

func NewDateIndex() *DateIndex {
	return &DateIndex{
		dates: map[string]struct{}{},
	}
}

// Mark adds date and reports whether it was not marked before.
func (d *DateIndex) Mark(date string) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if _, ok := d.dates[date]; ok {
		return false
	}
	d.dates[date] = struct{}{}
	return true
}

func (d *DateIndex) Has(date string) bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	_, ok := d.dates[date]
	return ok
}

// Dates returns the marked dates, ascending.
func (d *DateIndex) Dates() []string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	dates := make([]string, 0, len(d.dates))
	for date := range d.dates {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Replace swaps the whole collection for the deduplicated dates.
func (d *DateIndex) Replace(dates []string) {
	fresh := make(map[string]struct{}, len(dates))
	for _, date := range dates {
		fresh[date] = struct{}{}
	}
	d.mutex.Lock()
	d.dates = fresh
	d.mutex.Unlock()
}
