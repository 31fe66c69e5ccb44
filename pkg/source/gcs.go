//go:build gcs
// +build gcs

package source

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
	"k8s.io/klog"
)

// GCSSource reads records from a Google Cloud Storage object
type GCSSource struct {
	client *storage.Client
	object *storage.ObjectHandle
	name   string
}

// NewGCSSource connects to GCS and checks that the configured object exists
func NewGCSSource(ctx context.Context, config GCSConfig) (Source, error) {
	var opts []option.ClientOption
	if config.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(config.CredentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create GCS client: %w", ErrSourceUnavailable, err)
	}

	name := fmt.Sprintf("gs://%s/%s", config.Bucket, config.ObjectPath)
	object := client.Bucket(config.Bucket).Object(config.ObjectPath)
	attrs, err := object.Attrs(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, name, err)
	}
	klog.Infof("Using users file %s (generation %d, %d bytes)", name, attrs.Generation, attrs.Size)

	return &GCSSource{client: client, object: object, name: name}, nil
}

// Name returns the gs:// location of the object
func (g *GCSSource) Name() string {
	return g.name
}

// Open starts reading the object
func (g *GCSSource) Open(ctx context.Context) (io.ReadCloser, error) {
	reader, err := g.object.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", g.name, err)
	}
	return reader, nil
}

// Close releases the underlying storage client
func (g *GCSSource) Close() error {
	return g.client.Close()
}
