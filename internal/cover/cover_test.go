package cover

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryPlace(t *testing.T) {
	assert.Equal(t, "Kyoto", PrimaryPlace("Kyoto, Japan"))
	assert.Equal(t, "Rome", PrimaryPlace("  Rome "))
	assert.Equal(t, "", PrimaryPlace(", Italy"))
}

func TestResolver_Lookup(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/New_York_City":
			w.Write([]byte(`<html><head>
				<meta property="og:title" content="New York City">
				<meta property="og:image" content="https://img.example/nyc.jpg">
			</head><body></body></html>`))
		case "/Nowhere":
			w.Write([]byte(`<html><head><title>Nowhere</title></head></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	r := NewResolver(ts.URL)
	ctx := context.Background()

	img, err := r.Lookup(ctx, "New York City, USA")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/nyc.jpg", img)

	// Served from cache.
	img, err = r.Lookup(ctx, "new york city")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/nyc.jpg", img)
	assert.Equal(t, int32(1), hits.Load())

	_, err = r.Lookup(ctx, "Nowhere")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Lookup(ctx, "Atlantis")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Lookup(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}
