package pool

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/squares-pool/internal/domain/game"
)

var ErrUnknownRound = errors.New("unknown round")

// Round multipliers in tenths, so ROUND1's x2.5 stays exact in integer math.
// A $10 square pays $25 / $50 / $100 / $200 / $350 / $500 by round.
var roundMultiplierTenths = map[game.Round]int64{
	game.RoundRound1:       25,
	game.RoundRound2:       50,
	game.RoundSweet16:      100,
	game.RoundElite8:       200,
	game.RoundFinal4:       350,
	game.RoundChampionship: 500,
}

// PayoutCents computes the winning square's payout. A board-level override
// for the round takes precedence over the default multiplier table.
func PayoutCents(round game.Round, pricePerSquareCents int64, overridesCents map[game.Round]int64) (int64, error) {
	if amount, ok := overridesCents[round]; ok {
		return amount, nil
	}

	tenths, ok := roundMultiplierTenths[round]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRound, round)
	}
	if pricePerSquareCents <= 0 {
		return 0, fmt.Errorf("price per square must be greater than zero")
	}
	return pricePerSquareCents * tenths / 10, nil
}
