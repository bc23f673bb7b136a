package utils

import "github.com/pkg/errors"

// API error codes returned in 5xx bodies so that clients and dashboards
// can tell the failure classes apart without parsing messages.
const (
	ErrorCacheLookupFail = 10001
	ErrorUserLookupFail  = 10002
	ErrorCacheStoreDrift = 10003
	ErrorPersistFail     = 10004
)

// Sentinel errors for the failure classes the pipeline cares about.
// Collaborators wrap these so callers can classify with errors.Is
// without knowing which backend produced the failure.
var (
	// ErrCacheUnavailable means the token cache could not be reached or
	// the membership command failed.
	ErrCacheUnavailable = errors.New("token cache unavailable")

	// ErrStoreUnavailable covers connectivity and query errors against
	// the relational store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound is an empty read result. It is not a store failure.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation is a rejected write, e.g. a duplicate
	// title. The database constraint is the only duplicate guard.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrBrokerUnavailable means a queue publish could not be completed.
	ErrBrokerUnavailable = errors.New("broker unavailable")

	// ErrCacheStoreDrift means the cache accepted a token the user store
	// does not know. It indicates the two systems are out of sync and is
	// fatal for the request that observed it.
	ErrCacheStoreDrift = errors.New("token cache and user store disagree")
)
