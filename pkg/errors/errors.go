package errors

import "errors"

// ErrStorageUnavailable both the primary store and the file fallback failed
var ErrStorageUnavailable = errors.New("storage unavailable, please try again later")

// ErrLockTimeout the collection lock could not be acquired in time
var ErrLockTimeout = errors.New("collection is busy, please retry")
