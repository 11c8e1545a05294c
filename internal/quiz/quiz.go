// Package quiz defines the core domain types and game rules for the
// treasure-hunt quiz. It has zero external dependencies; everything here is
// pure Go.
package quiz

import (
	"strings"
	"time"
)

// RoundType selects how a question is presented: a plain text clue, a photo
// round, or a music round.
type RoundType string

const (
	RoundText  RoundType = "text"
	RoundPhoto RoundType = "photo"
	RoundMusic RoundType = "music"
)

// ParseRoundType maps a raw string onto a known round type, falling back to
// RoundText for anything unrecognized. Lenient on purpose: imports never fail
// on an unknown round type.
func ParseRoundType(s string) RoundType {
	switch RoundType(s) {
	case RoundText, RoundPhoto, RoundMusic:
		return RoundType(s)
	}
	return RoundText
}

// AnswerMode selects how a submission is evaluated.
type AnswerMode string

const (
	ModeFreeText  AnswerMode = "freetext"
	ModeMCQ       AnswerMode = "mcq"
	ModeTypeahead AnswerMode = "typeahead"
)

// ParseAnswerMode maps a raw string onto a known answer mode, falling back to
// ModeFreeText for anything unrecognized.
func ParseAnswerMode(s string) AnswerMode {
	switch AnswerMode(s) {
	case ModeFreeText, ModeMCQ, ModeTypeahead:
		return AnswerMode(s)
	}
	return ModeFreeText
}

// Question is a single clue in the ordered hunt. Hints and Penalties are
// positional: Penalties[i] is the cost of revealing Hints[i], whether or not
// earlier hint slots are empty.
type Question struct {
	ID         string
	Order      int
	RoundType  RoundType
	AnswerMode AnswerMode
	Clue       string
	Answer     string
	Hints      [3]string
	Penalties  [3]int
	MaxPoints  int
	ImageURL   string
	AudioURL   string
	Options    []Option
	CreatedAt  time.Time
}

// Option is one selectable answer for an mcq or typeahead question.
type Option struct {
	ID              string
	Label           string
	NormalizedLabel string
	IsCorrect       bool
	SortOrder       int
}

// AvailableHints returns how many non-empty hints the question carries.
func (q *Question) AvailableHints() int {
	n := 0
	for _, h := range q.Hints {
		if strings.TrimSpace(h) != "" {
			n++
		}
	}
	return n
}

// HintTexts returns the non-empty hints in slot order (hint 1 before hint 2
// before hint 3).
func (q *Question) HintTexts() []string {
	var texts []string
	for _, h := range q.Hints {
		if strings.TrimSpace(h) != "" {
			texts = append(texts, h)
		}
	}
	return texts
}

// NormalizeLabel produces the lowercased, trimmed form of an option label
// used for typeahead search and for matching during import.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Team is a play session. CurrentQuestionIndex points into the ordered
// question list and only ever moves forward, except via an explicit admin
// reset.
type Team struct {
	ID                   string
	Name                 string
	PIN                  string
	CurrentQuestionIndex int
	TotalScore           int
	CompletedAt          *time.Time
	CreatedAt            time.Time
}

// Player is an identity independent of any team; TeamID is empty while the
// player is unassigned.
type Player struct {
	ID        string
	Name      string
	TeamID    string
	CreatedAt time.Time
}

// ProgressRecord is one append-only log entry for a team's attempt at one
// question.
type ProgressRecord struct {
	ID               string
	TeamID           string
	QuestionID       string
	HintsUsed        int
	PointsEarned     int
	TimeTakenSeconds int
	AnsweredAt       time.Time
}
