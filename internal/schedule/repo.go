package schedule

import (
	"context"
	"fmt"

	"github.com/2beens/workoutlog/internal/db"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
)

var _ Store = (*Repo)(nil)

type Repo struct {
	db db.Conn
}

func NewRepo(db db.Conn) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) List(ctx context.Context, userID int) (_ []DayPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.schedule.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, day_of_week, target_body_part, is_rest_day, note
			FROM weekly_schedule
			WHERE user_id = $1
			ORDER BY day_of_week ASC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}

	return rows2dayPlans(rows)
}

// Upsert writes the plan for (userID, day), replacing the existing one if any.
func (r *Repo) Upsert(ctx context.Context, userID, day int, input DayPlanInput) (_ *DayPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.schedule.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !ValidDay(day) {
		return nil, ErrInvalidDay
	}

	plan := DayPlan{
		UserID:         userID,
		DayOfWeek:      day,
		TargetBodyPart: input.TargetBodyPart,
		IsRestDay:      input.IsRestDay,
		Note:           input.Note,
	}
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO weekly_schedule (user_id, day_of_week, target_body_part, is_rest_day, note)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, day_of_week) DO UPDATE
				SET target_body_part = EXCLUDED.target_body_part,
					is_rest_day = EXCLUDED.is_rest_day,
					note = EXCLUDED.note
			RETURNING id;`,
		userID, day, input.TargetBodyPart, input.IsRestDay, input.Note,
	).Scan(&plan.ID); err != nil {
		return nil, fmt.Errorf("upsert day plan %d: %w", day, err)
	}

	return &plan, nil
}

func (r *Repo) Delete(ctx context.Context, userID, day int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.schedule.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM weekly_schedule WHERE user_id = $1 AND day_of_week = $2;`,
		userID, day,
	)
	if err != nil {
		return fmt.Errorf("delete day plan %d: %w", day, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDayPlanNotFound
	}

	return nil
}

func rows2dayPlans(rows pgx.Rows) ([]DayPlan, error) {
	defer rows.Close()

	plans := make([]DayPlan, 0, 7)
	for rows.Next() {
		var p DayPlan
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.DayOfWeek,
			&p.TargetBodyPart,
			&p.IsRestDay,
			&p.Note,
		); err != nil {
			return nil, fmt.Errorf("scan day plan: %w", err)
		}
		plans = append(plans, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day plans: %w", err)
	}

	return plans, nil
}
