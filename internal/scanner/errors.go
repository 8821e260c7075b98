package scanner

import "errors"

var (
	// ErrConnectFailed signals a failed connection attempt. The controller
	// stays disconnected and a retry is allowed.
	ErrConnectFailed = errors.New("scanner connection failed")

	// ErrNotConnected rejects a user-triggered scan while the scanner is
	// not in the connected state.
	ErrNotConnected = errors.New("scanner not connected")

	// ErrNoActiveFolder rejects a scan with no valid target cart.
	ErrNoActiveFolder = errors.New("no active cart selected")

	// ErrScanInFlight rejects a second trigger while a scan is running.
	// Triggers are rejected rather than queued to prevent duplicate
	// appends from rapid repeated presses.
	ErrScanInFlight = errors.New("scan already in progress")

	// ErrPersistFailed marks a scan whose resolved item could not be saved
	// to the item store. No item is considered created.
	ErrPersistFailed = errors.New("failed to save scanned item")
)
