package paint

import "errors"

var (
	// ErrDeviceUnavailable is returned by Play when no audio output could be
	// acquired. The session is left unchanged.
	ErrDeviceUnavailable = errors.New("audio output unavailable")

	// ErrUnknownInstrument is returned when selecting an instrument that is
	// not in the catalog.
	ErrUnknownInstrument = errors.New("unknown instrument")

	errSessionClosed = errors.New("session closed")
)
