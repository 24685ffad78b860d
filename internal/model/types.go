// Package model defines shared data structures.
package model

import "time"

// Config defines typing test settings.
type Config struct {
	DurationSeconds int
	WordListPath    string
}

// HistoryFilter defines filters for listing saved results.
type HistoryFilter struct {
	DurationSeconds int
	Since           *time.Time
	Last            int
}

// TimelinePoint is one per-second sample taken while a test is running.
type TimelinePoint struct {
	Second int `json:"second" yaml:"second"`
	WPM    int `json:"wpm" yaml:"wpm"`
	RawWPM int `json:"rawWpm" yaml:"rawWpm"`
	Errors int `json:"errors" yaml:"errors"`
}

// Chars breaks typed characters down by outcome.
type Chars struct {
	Correct   int `json:"correct" yaml:"correct"`
	Incorrect int `json:"incorrect" yaml:"incorrect"`
	Extra     int `json:"extra" yaml:"extra"`
	Missed    int `json:"missed" yaml:"missed"`
}

// Result is the final snapshot of a completed test.
type Result struct {
	ID              string          `json:"id,omitempty" yaml:"id,omitempty"`
	UserID          int64           `json:"-" yaml:"-"`
	WPM             int             `json:"wpm" yaml:"wpm"`
	RawWPM          int             `json:"rawWpm" yaml:"rawWpm"`
	Accuracy        int             `json:"accuracy" yaml:"accuracy"`
	Errors          int             `json:"errors" yaml:"errors"`
	Consistency     int             `json:"consistency" yaml:"consistency"`
	Chars           Chars           `json:"chars" yaml:"chars"`
	TotalTyped      int             `json:"totalTyped" yaml:"totalTyped"`
	DurationSeconds int             `json:"mode" yaml:"mode"`
	ElapsedSeconds  int             `json:"elapsedSeconds" yaml:"elapsedSeconds"`
	Timeline        []TimelinePoint `json:"timeline" yaml:"timeline"`
	CompletedAt     time.Time       `json:"completedAt" yaml:"completedAt"`
	SavedAt         time.Time       `json:"savedAt,omitempty" yaml:"savedAt,omitempty"`
}

// User is a registered account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	JoinedAt     time.Time
}

// Profile aggregates a user's saved results.
type Profile struct {
	User            User
	BestWPM         int
	AverageAccuracy int
	Tests           int
	LastResult      *Result
}
