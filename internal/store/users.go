package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/tejas/internal/model"
)

// CreateUser inserts an account. Emails are stored lowercased.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string, joinedAt time.Time) (model.User, error) {
	email = normalizeEmail(email)
	joinedAt = joinedAt.UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, joined_at) VALUES (?, ?, ?)`,
		email, passwordHash, joinedAt.Format(timeFormat),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return model.User{}, model.ErrDuplicateEmail
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("get last insert id: %w", err)
	}
	return model.User{ID: id, Email: email, PasswordHash: passwordHash, JoinedAt: joinedAt}, nil
}

// GetUserByEmail looks up an account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, joined_at FROM users WHERE email = ?`, normalizeEmail(email))
	user, err := scanUser(row)
	if err != nil {
		return model.User{}, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

// GetUserByID looks up an account by id.
func (s *Store) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, joined_at FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return model.User{}, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

// GetProfile returns the account with its aggregate figures and latest result.
func (s *Store) GetProfile(ctx context.Context, userID int64) (model.Profile, error) {
	var profile model.Profile
	var joinedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT u.id, u.email, u.password_hash, u.joined_at, u.best_wpm, u.average_accuracy,
			(SELECT COUNT(*) FROM results r WHERE r.user_id = u.id)
		 FROM users u WHERE u.id = ?`, userID,
	).Scan(&profile.User.ID, &profile.User.Email, &profile.User.PasswordHash, &joinedAt,
		&profile.BestWPM, &profile.AverageAccuracy, &profile.Tests)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("query profile: %w", err)
	}
	if profile.User.JoinedAt, err = time.Parse(timeFormat, joinedAt); err != nil {
		return model.Profile{}, err
	}

	latest, err := s.ListResults(ctx, userID, model.HistoryFilter{Last: 1})
	if err != nil {
		return model.Profile{}, err
	}
	if len(latest) == 1 {
		profile.LastResult = &latest[0]
	}
	return profile, nil
}

func scanUser(row rowScanner) (model.User, error) {
	var user model.User
	var joinedAt string
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &joinedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, err
	}
	parsed, err := time.Parse(timeFormat, joinedAt)
	if err != nil {
		return model.User{}, err
	}
	user.JoinedAt = parsed
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
