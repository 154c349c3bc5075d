package client_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/foomo/sitegen/client"
	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/generator"
	"github.com/foomo/sitegen/pkg/handler"
	"github.com/foomo/sitegen/pkg/repo"
	"github.com/foomo/sitegen/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func TestInvalidHTTPClientInit(t *testing.T) {
	c, err := client.NewHTTPClient("")
	assert.Nil(t, c)
	assert.Error(t, err)

	c, err = client.NewHTTPClient("bogus")
	assert.Nil(t, c)
	assert.Error(t, err)

	c, err = client.NewHTTPClient("htt:/notaurl")
	assert.Nil(t, c)
	assert.Error(t, err)

	c, err = client.NewHTTPClient("htts://notaurl")
	assert.Nil(t, c)
	assert.Error(t, err)

	c, err = client.NewHTTPClient("/path/segment/only")
	assert.Nil(t, c)
	assert.Error(t, err)
}

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, inputs content.GeneratorInputs, progress generator.ProgressFunc) (*content.GeneratedSiteData, error) {
	if progress != nil {
		progress("Writing copy...")
	}
	return fixtures.SiteData(), nil
}

func newHTTPClient(tb testing.TB, server *httptest.Server) *client.Client {
	tb.Helper()
	c, err := client.NewHTTPClient(server.URL)
	require.NoError(tb, err)
	tb.Cleanup(c.Shutdown)
	return c
}

func initHTTPServer(tb testing.TB, l *zap.Logger) *httptest.Server {
	tb.Helper()
	bucket, err := blob.OpenBucket(context.Background(), "mem://")
	require.NoError(tb, err)
	h, err := repo.NewHistory(l, repo.HistoryWithStorage(repo.NewBlobStorageFromBucket(bucket, "")))
	require.NoError(tb, err)
	r := repo.New(l, h)
	require.NoError(tb, r.Load(context.Background()))
	srv := httptest.NewServer(handler.NewHTTP(l, r, handler.WithGenerator(stubGenerator{})))
	tb.Cleanup(srv.Close)
	return srv
}

func testWithClient(t *testing.T, fn func(c *client.Client)) {
	t.Helper()
	l := zaptest.NewLogger(t)
	fn(newHTTPClient(t, initHTTPServer(t, l)))
}
