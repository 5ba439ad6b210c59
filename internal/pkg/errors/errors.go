package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange is returned for page navigation outside [1, maxPage].
	ErrOutOfRange = errors.New("page out of range")
	// ErrFetchFailed wraps a failed page-level reload.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrMutationFailed wraps a remote mutation that was not acknowledged.
	ErrMutationFailed = errors.New("mutation failed")
	// ErrRejected marks an operation refused locally, before any remote call.
	ErrRejected = errors.New("rejected")
)
