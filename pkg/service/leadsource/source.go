package leadsource

import (
	"context"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/utils/safe"
)

const (
	schemeGCS  = "gs://"
	schemeFile = "file://"
)

type config struct {
	storage *storage.Client
}

// Option configures Open
type Option func(*config)

// WithStorageClient reuses an existing Cloud Storage client for gs:// URIs
func WithStorageClient(c *storage.Client) Option {
	return func(cfg *config) {
		cfg.storage = c
	}
}

// Open returns a reader for uri, which is a local path, a file:// URI or gs://bucket/object.
// The caller closes the reader.
func Open(ctx context.Context, uri string, opts ...Option) (io.ReadCloser, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch {
	case strings.HasPrefix(uri, schemeGCS):
		return openGCS(ctx, uri, cfg.storage)

	case strings.HasPrefix(uri, schemeFile):
		uri = strings.TrimPrefix(uri, schemeFile)
		fallthrough

	default:
		if uri == "" {
			return nil, goerr.New("lead source path is empty")
		}
		f, err := os.Open(uri)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open lead source", goerr.V("path", uri))
		}
		return f, nil
	}
}

// ParseGCSURI splits gs://bucket/object
func ParseGCSURI(uri string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(uri, schemeGCS)
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", goerr.New("invalid gs:// URI, expected gs://bucket/object", goerr.V("uri", uri))
	}
	return bucket, object, nil
}

// gcsReader closes the object reader and, when Open created it, the client
type gcsReader struct {
	ctx    context.Context
	reader *storage.Reader
	owned  *storage.Client
}

func (r *gcsReader) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r *gcsReader) Close() error {
	err := r.reader.Close()
	if r.owned != nil {
		safe.Close(r.ctx, r.owned)
	}
	return err
}

func openGCS(ctx context.Context, uri string, client *storage.Client) (io.ReadCloser, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}

	var owned *storage.Client
	if client == nil {
		client, err = storage.NewClient(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create storage client")
		}
		owned = client
	}

	reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if owned != nil {
			safe.Close(ctx, owned)
		}
		return nil, goerr.Wrap(err, "failed to open lead source object",
			goerr.V("bucket", bucket),
			goerr.V("object", object))
	}

	return &gcsReader{ctx: ctx, reader: reader, owned: owned}, nil
}
