package holdem

import "errors"

var (
	ErrNotEnoughPlayers = errors.New("not enough funded players")
	ErrUnknownSeat      = errors.New("unknown seat")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrHandFinished     = errors.New("hand already finished")
	ErrHandNotFinished  = errors.New("hand not finished")
	ErrCannotCheck      = errors.New("cannot check facing a bet")
	ErrRaiseTooSmall    = errors.New("raise below minimum")
	ErrRaiseCapReached  = errors.New("raise cap reached for this street")
	ErrNotEnoughChips   = errors.New("not enough chips")
	ErrInvalidAction    = errors.New("invalid action")
)
