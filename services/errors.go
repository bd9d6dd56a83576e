package services

import "errors"

// Errors shared across services and mapped to HTTP statuses in handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules.
	ErrInvalidScoreline   = errors.New("scoreline values must be non-negative")
	ErrInvalidStake       = errors.New("stake amount must be positive")
	ErrPredictionTooLate  = errors.New("match is already finished, predictions are closed")
	ErrPredictionConflict = errors.New("ticket already predicted this match")
	ErrRoundNotQuiz       = errors.New("round is not a threshold quiz round")
	ErrInvalidMatchTeams  = errors.New("home and away teams must differ")

	// Resolution preconditions surfaced to callers.
	ErrResultAlreadyEntered  = errors.New("result already entered for this match")
	ErrRoundAlreadyFinalized = errors.New("round is already finalized")
	ErrRoundNotComplete      = errors.New("round still has unpublished answers")

	// Entity-specific not-found variants for clearer responses.
	ErrMatchNotFound       = errors.New("match not found")
	ErrRoundNotFound       = errors.New("round not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrJackpotNotFound     = errors.New("no open jackpot for this competition")
)
