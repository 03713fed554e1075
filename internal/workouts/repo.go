package workouts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/workoutlog/internal/db"
	"github.com/2beens/workoutlog/internal/exercises"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

var _ Store = (*Repo)(nil)

// foreign keys of workout_sessions, default postgres names
const (
	sessionsUserFKey     = "workout_sessions_user_id_fkey"
	sessionsExerciseFKey = "workout_sessions_exercise_id_fkey"
)

type Repo struct {
	db db.Conn
}

func NewRepo(db db.Conn) *Repo {
	return &Repo{
		db: db,
	}
}

// ListSessions loads the user's sessions on date with exercise details and sets
// in a single statement, so a set is never returned without its session.
func (r *Repo) ListSessions(ctx context.Context, userID int, date string) (_ []SessionView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT ws.id, ws.exercise_id, to_char(ws.workout_date, 'YYYY-MM-DD'), e.name, e.category,
				COALESCE(s.id, 0), COALESCE(s.weight, 0)::float8, COALESCE(s.reps, 0), COALESCE(s.is_completed, false)
			FROM workout_sessions ws
			JOIN exercises e ON e.id = ws.exercise_id
			LEFT JOIN workout_sets s ON s.session_id = ws.id
			WHERE ws.user_id = $1 AND ws.workout_date = $2
			ORDER BY ws.id ASC, s.id ASC;`,
		userID, day,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	return rows2sessions(rows)
}

func (r *Repo) AddSession(ctx context.Context, userID, exerciseID int, date string) (_ NewSessionIDs, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	day, err := ParseDate(date)
	if err != nil {
		return NewSessionIDs{}, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return NewSessionIDs{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("add session, rollback: %s", rbErr)
		}
	}()

	var ids NewSessionIDs
	if err = tx.QueryRow(
		ctx,
		`INSERT INTO workout_sessions (user_id, exercise_id, workout_date)
			VALUES ($1, $2, $3)
			RETURNING id;`,
		userID, exerciseID, day,
	).Scan(&ids.SessionID); err != nil {
		if constraint, ok := pkg.ForeignKeyViolationConstraint(err); ok {
			switch constraint {
			case sessionsUserFKey:
				return NewSessionIDs{}, ErrUserNotFound
			case sessionsExerciseFKey:
				return NewSessionIDs{}, exercises.ErrExerciseNotFound
			}
		}
		return NewSessionIDs{}, fmt.Errorf("insert session: %w", err)
	}

	if err = tx.QueryRow(
		ctx,
		`INSERT INTO workout_sets (session_id, weight, reps, is_completed)
			VALUES ($1, 0, 0, false)
			RETURNING id;`,
		ids.SessionID,
	).Scan(&ids.SetID); err != nil {
		return NewSessionIDs{}, fmt.Errorf("insert seed set: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return NewSessionIDs{}, fmt.Errorf("commit tx: %w", err)
	}

	return ids, nil
}

// DeleteSession removes the session; its sets go with it (ON DELETE CASCADE).
func (r *Repo) DeleteSession(ctx context.Context, sessionID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sessions.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_sessions WHERE id = $1;`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session %d: %w", sessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *Repo) AddSet(ctx context.Context, sessionID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sets.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO workout_sets (session_id, weight, reps, is_completed)
			VALUES ($1, 0, 0, false)
			RETURNING id;`,
		sessionID,
	).Scan(&id); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("insert set: %w", err)
	}

	return id, nil
}

func (r *Repo) DeleteSet(ctx context.Context, setID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sets.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_sets WHERE id = $1;`, setID)
	if err != nil {
		return fmt.Errorf("delete set %d: %w", setID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}

	return nil
}

func (r *Repo) UpdateSet(ctx context.Context, setID int, update SetUpdate) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sets.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	update, err = update.Normalize()
	if err != nil {
		return err
	}
	columns := update.Columns()
	if len(columns) == 0 {
		return ErrEmptySetUpdate
	}

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	assignments := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+1)
	for i, name := range names {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", name, i+1))
		args = append(args, columns[name])
	}
	args = append(args, setID)

	tag, err := r.db.Exec(
		ctx,
		fmt.Sprintf(
			`UPDATE workout_sets SET %s WHERE id = $%d;`,
			strings.Join(assignments, ", "), len(args),
		),
		args...,
	)
	if err != nil {
		return fmt.Errorf("update set %d: %w", setID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}

	return nil
}

// ListDates returns the distinct dates with at least one session, ascending.
func (r *Repo) ListDates(ctx context.Context, userID int) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.dates.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT to_char(workout_date, 'YYYY-MM-DD') AS d
			FROM workout_sessions
			WHERE user_id = $1
			ORDER BY d ASC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query workout dates: %w", err)
	}
	defer rows.Close()

	dates := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan workout date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workout dates: %w", err)
	}

	return dates, nil
}

func rows2sessions(rows pgx.Rows) ([]SessionView, error) {
	defer rows.Close()

	sessions := make([]SessionView, 0)
	indexByID := map[int]int{}
	for rows.Next() {
		var (
			s   SessionView
			set SetView
		)
		if err := rows.Scan(
			&s.ID,
			&s.ExerciseID,
			&s.WorkoutDate,
			&s.ExerciseName,
			&s.ExerciseCategory,
			&set.ID,
			&set.Weight,
			&set.Reps,
			&set.Completed,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}

		idx, ok := indexByID[s.ID]
		if !ok {
			s.Sets = []SetView{}
			sessions = append(sessions, s)
			idx = len(sessions) - 1
			indexByID[s.ID] = idx
		}
		// set id 0 means the session has no sets (left join miss)
		if set.ID != 0 {
			sessions[idx].Sets = append(sessions[idx].Sets, set)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	sortSessions(sessions)
	return sessions, nil
}
