package source

import (
	"context"
	"strings"

	"github.com/spf13/afero"
)

const gcsScheme = "gs://"

// New returns the source for location: gs://bucket/object locations are read from
// Google Cloud Storage, anything else is a path on fs.
func New(ctx context.Context, fs afero.Fs, location string) (Source, error) {
	if strings.HasPrefix(location, gcsScheme) {
		bucket, object, err := ParseGCSLocation(location)
		if err != nil {
			return nil, err
		}
		return NewGCSSource(ctx, GCSConfig{Bucket: bucket, ObjectPath: object})
	}
	return NewFileSource(fs, location)
}
