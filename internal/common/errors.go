// Package common defines shared constants and sentinel errors used across
// the fieldsync client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Validation errors.
	ErrorIncorrectPayload = errors.New("incorrect payload")
	ErrorUnknownEntity    = errors.New("unknown entity type")
)
