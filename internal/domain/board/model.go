package board

import (
	"fmt"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/game"
)

type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusFilled    Status = "FILLED"
	StatusAssigned  Status = "ASSIGNED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

var AllStatuses = map[Status]struct{}{
	StatusOpen:      {},
	StatusFilled:    {},
	StatusAssigned:  {},
	StatusActive:    {},
	StatusCompleted: {},
}

// TotalSquares is fixed: every board is a 10x10 grid.
const TotalSquares = 100

// Board is one squares pool. WinningTeamNumbers (column labels) and
// LosingTeamNumbers (row labels) stay empty until assignment runs; once set
// they are each a permutation of 0..9 and are never mutated again.
type Board struct {
	ID                  string
	Name                string
	PricePerSquareCents int64
	Status              Status
	PaidSquares         int
	WinningTeamNumbers  []int
	LosingTeamNumbers   []int
	// PayoutOverridesCents replaces the default round multiplier table for
	// the rounds it names. Amounts are literal payouts in cents.
	PayoutOverridesCents map[game.Round]int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (b Board) ValidateBasic() error {
	if b.ID == "" {
		return fmt.Errorf("board id is required")
	}
	if b.Name == "" {
		return fmt.Errorf("board name is required")
	}
	if b.PricePerSquareCents <= 0 {
		return fmt.Errorf("price per square must be greater than zero")
	}
	if _, ok := AllStatuses[b.Status]; !ok {
		return fmt.Errorf("unknown board status %q", b.Status)
	}
	for round, amount := range b.PayoutOverridesCents {
		if _, ok := game.AllRounds[round]; !ok {
			return fmt.Errorf("unknown round %q in payout overrides", round)
		}
		if amount <= 0 {
			return fmt.Errorf("payout override for %s must be greater than zero", round)
		}
	}
	return nil
}

// Assignable reports whether the one-shot assignment may still run.
func (b Board) Assignable() bool {
	return b.Status == StatusOpen || b.Status == StatusFilled
}

// Assigned reports whether assignment has already run (terminal for the
// assignment step).
func (b Board) Assigned() bool {
	switch b.Status {
	case StatusAssigned, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}
