package engine

import "errors"

// Soft rule violations. The machine reports these alongside the unchanged
// input state; it never panics for anything a player can trigger.
var (
	ErrPhaseMismatch      = errors.New("phase mismatch")
	ErrRoomFull           = errors.New("game is full")
	ErrPlayerExists       = errors.New("player already in game")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrAlreadyBid         = errors.New("player already bid")
	ErrNilNotAllowed      = errors.New("nil bids not allowed")
	ErrBlindNilNotAllowed = errors.New("blind nil bids not allowed")
	ErrInvalidBidValue    = errors.New("invalid bid value")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrSpadesNotBroken    = errors.New("cannot lead spades until broken")
	ErrMustFollowSuit     = errors.New("must follow suit")
	ErrNoActiveRound      = errors.New("no active round")
)
