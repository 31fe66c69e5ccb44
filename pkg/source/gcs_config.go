package source

import (
	"fmt"
	"strings"
)

// GCSConfig locates a users file in a Google Cloud Storage bucket
type GCSConfig struct {
	Bucket     string
	ObjectPath string
	// CredentialsJSON is a service account key; empty uses application default credentials
	CredentialsJSON string
}

// ParseGCSLocation splits gs://bucket/path/to/object into its bucket and object path
func ParseGCSLocation(location string) (string, string, error) {
	trimmed := strings.TrimPrefix(location, gcsScheme)
	bucket, object, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || object == "" {
		return "", "", fmt.Errorf("invalid GCS location %q, expected gs://<bucket>/<object>", location)
	}
	return bucket, object, nil
}
