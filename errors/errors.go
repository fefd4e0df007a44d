package errors

import "fmt"

// Ack-facing errors: their text is sent back verbatim to the requesting
// connection, so the wording is part of the wire contract.
var (
	ErrMissingFields = fmt.Errorf("Username and room are required.")
	ErrNameTaken     = fmt.Errorf("Username in use, please choose another username.")
	ErrProfanity     = fmt.Errorf("Error: Profanity is not allowed.")
	ErrNotJoined     = fmt.Errorf("Error: You must join a room first.")
	ErrAlreadyJoined = fmt.Errorf("Error: You already joined a room.")
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")
)
