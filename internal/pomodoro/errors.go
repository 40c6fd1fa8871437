package pomodoro

import "errors"

var (
	// ErrInvalidTimeInput rejects a break edit that is unparsable or out of range.
	ErrInvalidTimeInput = errors.New("invalid time input")
	// ErrTimerRunning rejects a break edit while the countdown is live.
	ErrTimerRunning = errors.New("pause the timer before editing")
	// ErrNotBreakPhase rejects a break edit during work.
	ErrNotBreakPhase = errors.New("only break time can be edited")
	// ErrClosed is returned once the engine has been closed.
	ErrClosed = errors.New("timer closed")
)
