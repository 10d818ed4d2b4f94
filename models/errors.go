package models

import "errors"

// Domain errors surfaced by vehicle operations. Handlers map these to
// 4xx responses; workflows use them to decide retry vs reject.
var (
	ErrDuplicateIdentifier      = errors.New("a vehicle with this identification number already exists")
	ErrIncompleteClassification = errors.New("vendor and commission terms are required for dealer network and consigned vehicles")
	ErrInvalidTransition        = errors.New("vehicle state does not allow this transition")
	ErrUnknownSerial            = errors.New("no vehicle matches this serial number")
)
