package service

import "errors"

// Sentinel errors for interview operations. Controllers translate these
// into transport status codes with errors.Is.
var (
	// ErrSessionNotFound marks operations addressed to a session id the
	// store does not hold.
	ErrSessionNotFound = errors.New("session not found")

	// ErrMessageNotFound marks an edit whose message id does not resolve
	// to a user answer in the conversation.
	ErrMessageNotFound = errors.New("message not found")

	// ErrInvalidTransition rejects answer, skip and edit calls against a
	// completed interview.
	ErrInvalidTransition = errors.New("interview already complete")

	// ErrEmptyAnswer rejects blank answers before any state changes.
	ErrEmptyAnswer = errors.New("answer must not be empty")
)
