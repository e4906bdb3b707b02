package model

import "errors"

// Common errors used across the application. The messages double as the
// human-readable reasons surfaced in failure responses.
var (
	// Player errors
	ErrNicknameTooShort = errors.New("nickname must be at least 2 characters")
	ErrNicknameTooLong  = errors.New("nickname must contain no more than 32 characters")
	ErrNicknameCharset  = errors.New("nickname must be letters, digits, _ or -")
	ErrNicknameTaken    = errors.New("nickname is already taken")
	ErrNotLoggedIn      = errors.New("you are not logged in")

	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrAlreadyInRoom   = errors.New("you are already in another room")
	ErrAlreadyInThis   = errors.New("you are already in this room")
	ErrNotInRoom       = errors.New("you did not join any room")
	ErrChallengeSelf   = errors.New("you cannot challenge yourself")
	ErrChallengeActive = errors.New("you cannot challenge the owner of this room because they are already playing")

	// Game errors
	ErrNotPlaying      = errors.New("you are not playing in this room")
	ErrNotPreparation  = errors.New("allowed only while the room is in preparation state")
	ErrNotActive       = errors.New("allowed only while the room is in active state")
	ErrNotYourTurn     = errors.New("it is your opponent's turn")
	ErrShotOutOfBounds = errors.New("coordinates were outside the border")
	ErrShotRepeated    = errors.New("you already shot at these coordinates")
	ErrWrongShipSizes  = errors.New("the size of the ships does not match the required fleet (5, 4, 3, 3, 2)")
	ErrShipPlacement   = errors.New("failed to place ships")
	ErrInternalMistake = errors.New("internal error")
)
