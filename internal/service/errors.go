package service

import "errors"

// ErrPersistenceFailure wraps every snapshot store failure other than
// store.ErrNotFound. The underlying error stays reachable through errors.Is.
var ErrPersistenceFailure = errors.New("persistence failure")
