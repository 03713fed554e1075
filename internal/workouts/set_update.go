package workouts

import (
	"errors"
	"math"
	"strconv"
)

// weight is stored as NUMERIC(7, 2)
const maxSetWeight = 99999.99

var ErrInvalidWeight = errors.New("weight must be a number between 0 and 99999.99")

// SetUpdate is a partial update of a set; nil fields are left unchanged.
type SetUpdate struct {
	Weight    *float64 `json:"weight,omitempty"`
	Reps      *int     `json:"reps,omitempty"`
	Completed *bool    `json:"completed,omitempty"`
}

func (u SetUpdate) IsEmpty() bool {
	return u.Weight == nil && u.Reps == nil && u.Completed == nil
}

// Normalize rounds the weight to the stored two decimals (half away from zero,
// as postgres does) and rejects weights the column cannot hold.
func (u SetUpdate) Normalize() (SetUpdate, error) {
	if u.Weight == nil {
		return u, nil
	}

	w := *u.Weight
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return u, ErrInvalidWeight
	}
	// format first, 12.345*100 is 1234.4999999999998 in float64
	cents, err := strconv.ParseFloat(strconv.FormatFloat(w*100, 'f', 6, 64), 64)
	if err != nil {
		return u, ErrInvalidWeight
	}
	rounded := math.Round(cents) / 100
	if rounded > maxSetWeight {
		return u, ErrInvalidWeight
	}

	u.Weight = &rounded
	return u, nil
}

// Columns maps the provided fields to their persisted column names.
// This is the only place where completed becomes is_completed.
func (u SetUpdate) Columns() map[string]any {
	cols := make(map[string]any, 3)
	if u.Weight != nil {
		cols["weight"] = *u.Weight
	}
	if u.Reps != nil {
		cols["reps"] = *u.Reps
	}
	if u.Completed != nil {
		cols["is_completed"] = *u.Completed
	}
	return cols
}

// Apply merges the provided fields into set.
func (u SetUpdate) Apply(set SetView) SetView {
	if u.Weight != nil {
		set.Weight = *u.Weight
	}
	if u.Reps != nil {
		set.Reps = *u.Reps
	}
	if u.Completed != nil {
		set.Completed = *u.Completed
	}
	return set
}
