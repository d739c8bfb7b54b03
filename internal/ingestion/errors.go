package ingestion

import "errors"

var (
	// ErrEmptyPayload is returned when an upload carries no bytes.
	ErrEmptyPayload = errors.New("upload payload is empty")
	// ErrTooLarge is returned when the decoded payload exceeds the size limit.
	ErrTooLarge = errors.New("upload payload is too large")
	// ErrDecode is returned when the payload is not valid base64.
	ErrDecode = errors.New("upload payload is not valid base64")
	// ErrSizeMismatch is returned when the stored object differs in size from the decoded payload.
	ErrSizeMismatch = errors.New("stored file size does not match payload size")
	// ErrExists is returned by a Store when the name is already taken.
	ErrExists = errors.New("file already exists")
	// ErrNoFreeName is returned when every suffixed name is taken.
	ErrNoFreeName = errors.New("no free file name left")
)
