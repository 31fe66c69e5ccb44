package source

import (
	"context"
	"errors"
	"io"
)

// DefaultPath is the users file read when no location is configured
const DefaultPath = "serverSideFlatFiles/users.csv"

// ErrSourceUnavailable is returned when a record source cannot be located or opened.
// Constructors wrap it so callers can fall back to another location.
var ErrSourceUnavailable = errors.New("record source unavailable")

// Source supplies the raw employee records, one record per line, header first
type Source interface {
	// Name identifies the underlying resource in logs and errors
	Name() string
	// Open returns a fresh reader positioned at the first line
	Open(ctx context.Context) (io.ReadCloser, error)
}
