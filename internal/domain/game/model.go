package game

import (
	"fmt"
	"time"
)

// Round identifies a tournament round. Payouts scale with the round.
type Round string

const (
	RoundRound1       Round = "ROUND1"
	RoundRound2       Round = "ROUND2"
	RoundSweet16      Round = "SWEET16"
	RoundElite8       Round = "ELITE8"
	RoundFinal4       Round = "FINAL4"
	RoundChampionship Round = "CHAMPIONSHIP"
)

var AllRounds = map[Round]struct{}{
	RoundRound1:       {},
	RoundRound2:       {},
	RoundSweet16:      {},
	RoundElite8:       {},
	RoundFinal4:       {},
	RoundChampionship: {},
}

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

const (
	MinGameNumber = 1
	MaxGameNumber = 63
)

// Game is one tournament game scored against its owning board.
// Scores stay nil until a final score is reported; WinnerSquareID is set at
// most once, when the game completes and a square matches the score digits.
type Game struct {
	ID             string
	BoardID        string
	GameNumber     int
	Round          Round
	Team1          string
	Team2          string
	Team1Score     *int
	Team2Score     *int
	Status         Status
	WinnerSquareID string
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (g Game) ValidateBasic() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.BoardID == "" {
		return fmt.Errorf("board id is required")
	}
	if g.GameNumber < MinGameNumber || g.GameNumber > MaxGameNumber {
		return fmt.Errorf("game number must be between %d and %d", MinGameNumber, MaxGameNumber)
	}
	if _, ok := AllRounds[g.Round]; !ok {
		return fmt.Errorf("unknown round %q", g.Round)
	}
	return nil
}

func ParseRound(raw string) (Round, error) {
	round := Round(raw)
	if _, ok := AllRounds[round]; !ok {
		return "", fmt.Errorf("unknown round %q", raw)
	}
	return round, nil
}
