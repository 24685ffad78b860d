package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/verte-zerg/tejas/internal/model"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var resultColumns = []string{
	"public_id", "user_id", "wpm", "raw_wpm", "accuracy", "errors", "consistency",
	"chars_correct", "chars_incorrect", "chars_extra", "chars_missed",
	"total_typed", "duration_seconds", "elapsed_seconds", "timeline",
	"completed_at", "saved_at",
}

// SaveResult stores a completed result for the user and refreshes the user's
// best WPM and average accuracy in the same transaction. The stored result
// is returned with its public id and save time set.
func (s *Store) SaveResult(ctx context.Context, userID int64, result model.Result, savedAt time.Time) (_ model.Result, err error) {
	timeline, err := json.Marshal(timelineOrEmpty(result.Timeline))
	if err != nil {
		return model.Result{}, fmt.Errorf("encode timeline: %w", err)
	}
	result.ID = uuid.NewString()
	result.UserID = userID
	result.SavedAt = savedAt.UTC()
	result.CompletedAt = result.CompletedAt.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Result{}, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Result{}, model.ErrNotFound
		}
		return model.Result{}, fmt.Errorf("query user: %w", err)
	}

	query, args, err := sqlBuilder.Insert("results").Columns(resultColumns...).Values(
		result.ID, userID, result.WPM, result.RawWPM, result.Accuracy, result.Errors, result.Consistency,
		result.Chars.Correct, result.Chars.Incorrect, result.Chars.Extra, result.Chars.Missed,
		result.TotalTyped, result.DurationSeconds, result.ElapsedSeconds, string(timeline),
		result.CompletedAt.Format(timeFormat), result.SavedAt.Format(timeFormat),
	).ToSql()
	if err != nil {
		return model.Result{}, fmt.Errorf("build insert: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return model.Result{}, fmt.Errorf("insert result: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET
			best_wpm = MAX(best_wpm, ?),
			average_accuracy = (SELECT CAST(ROUND(AVG(accuracy)) AS INTEGER) FROM results WHERE user_id = ?)
		 WHERE id = ?`,
		result.WPM, userID, userID,
	)
	if err != nil {
		return model.Result{}, fmt.Errorf("update user aggregates: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return model.Result{}, err
	}
	return result, nil
}

// ListResults returns the user's results in chronological order, narrowed by
// the filter. Last keeps only the most recent N.
func (s *Store) ListResults(ctx context.Context, userID int64, filter model.HistoryFilter) ([]model.Result, error) {
	query := sqlBuilder.Select(resultColumns...).From("results").
		Where(squirrel.Eq{"user_id": userID})
	if filter.DurationSeconds > 0 {
		query = query.Where(squirrel.Eq{"duration_seconds": filter.DurationSeconds})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"saved_at": filter.Since.UTC().Format(timeFormat)})
	}
	query = query.OrderBy("saved_at DESC", "id DESC")
	if filter.Last > 0 {
		query = query.Limit(uint64(filter.Last))
	}

	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer closeRows(rows)

	var results []model.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(results)
	return results, nil
}

// GetResult looks up a result by its public id.
func (s *Store) GetResult(ctx context.Context, publicID string) (model.Result, error) {
	if _, err := uuid.Parse(publicID); err != nil {
		return model.Result{}, model.ErrNotFound
	}
	sqlText, args, err := sqlBuilder.Select(resultColumns...).From("results").
		Where(squirrel.Eq{"public_id": publicID}).ToSql()
	if err != nil {
		return model.Result{}, fmt.Errorf("build query: %w", err)
	}
	result, err := scanResult(s.db.QueryRowContext(ctx, sqlText, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Result{}, model.ErrNotFound
		}
		return model.Result{}, fmt.Errorf("query result: %w", err)
	}
	return result, nil
}

func scanResult(row rowScanner) (model.Result, error) {
	var r model.Result
	var timeline, completedAt, savedAt string
	err := row.Scan(&r.ID, &r.UserID, &r.WPM, &r.RawWPM, &r.Accuracy, &r.Errors, &r.Consistency,
		&r.Chars.Correct, &r.Chars.Incorrect, &r.Chars.Extra, &r.Chars.Missed,
		&r.TotalTyped, &r.DurationSeconds, &r.ElapsedSeconds, &timeline,
		&completedAt, &savedAt)
	if err != nil {
		return model.Result{}, err
	}
	if err := json.Unmarshal([]byte(timeline), &r.Timeline); err != nil {
		return model.Result{}, fmt.Errorf("decode timeline: %w", err)
	}
	if r.CompletedAt, err = time.Parse(timeFormat, completedAt); err != nil {
		return model.Result{}, err
	}
	if r.SavedAt, err = time.Parse(timeFormat, savedAt); err != nil {
		return model.Result{}, err
	}
	return r, nil
}

func timelineOrEmpty(points []model.TimelinePoint) []model.TimelinePoint {
	if points == nil {
		return []model.TimelinePoint{}
	}
	return points
}
