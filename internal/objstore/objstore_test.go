package objstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs3org/papers/internal/config"
	"github.com/cs3org/papers/internal/perr"
)

func TestNewBuildsClientWithoutNetworkAccess(t *testing.T) {
	c, err := New(config.ObjectStore{
		Endpoint:  "127.0.0.1:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "papers",
		UseSSL:    false,
	})
	require.NoError(t, err)
	assert.Equal(t, "papers", c.bucket)
}

func TestPutWrapsFailureAsUploadFailed(t *testing.T) {
	c, err := New(config.ObjectStore{Endpoint: "127.0.0.1:1", Bucket: "papers"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = c.Put(ctx, "job/out.pdf", "/nonexistent/out.pdf")
	require.Error(t, err)
	assert.IsType(t, perr.UploadFailed{}, err)
}

func TestPresignRejectsAnonymousCredentials(t *testing.T) {
	c, err := New(config.ObjectStore{Endpoint: "127.0.0.1:1", Bucket: "papers"})
	require.NoError(t, err)

	// Presigning is computed locally from the client's credentials, not via
	// a network round-trip, so a client built with no access/secret key
	// fails here rather than against a reachable endpoint.
	_, err = c.Presign(context.Background(), "job/out.pdf", time.Hour)
	assert.Error(t, err)
}
