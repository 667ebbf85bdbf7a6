package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-advisory-workers/internal/common/config"
)

func TestRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	rc := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rc.Close()

	require.NoError(t, rc.Ping(context.Background()))

	mr.Close()
	assert.Error(t, rc.Ping(context.Background()))
}

func TestElasticsearch_Ping(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, es.Ping(context.Background()))

	status.Store(http.StatusServiceUnavailable)
	assert.Error(t, es.Ping(context.Background()))
}

func TestNewPostgres_Lazy(t *testing.T) {
	pg, err := NewPostgres(config.PostgresConfig{
		Host: "127.0.0.1", Port: 1, Database: "advisory", User: "advisory",
		SSLMode: "disable", MaxConnections: 2, MaxIdle: 1,
	})
	require.NoError(t, err)
	defer pg.Close()

	assert.Error(t, pg.Ping(context.Background()))
}
