//go:build !gcs
// +build !gcs

package source

import (
	"context"
	"fmt"
)

// NewGCSSource returns an error when GCS support is not enabled
func NewGCSSource(ctx context.Context, config GCSConfig) (Source, error) {
	return nil, fmt.Errorf("%w: GCS support not enabled. Build with '-tags gcs' to read gs://%s/%s", ErrSourceUnavailable, config.Bucket, config.ObjectPath)
}
