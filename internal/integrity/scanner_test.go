package integrity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"storefront/catalog/internal/domain"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const placeholder = "/thumbs/placeholder.webp"

// testTree:
//
//	BAGS (/thumbs/bags.webp)
//	  Tote (/thumbs/tote.webp)
//	    Mini (/thumbs/missing-mini.webp)
//	  Clutch (placeholder)
//	SHOES (/thumbs/missing-shoes.webp)
//	  Red (/thumbs/missing-shoes.webp)
func testTree() *domain.Folder {
	root := domain.NewFolder()

	bags := &domain.Folder{Thumbnail: "/thumbs/bags.webp", Children: domain.NewChildren()}
	tote := &domain.Folder{Thumbnail: "/thumbs/tote.webp", Children: domain.NewChildren()}
	tote.Children.Set("Mini", &domain.Product{Thumbnail: "/thumbs/missing-mini.webp"})
	bags.Children.Set("Tote", tote)
	bags.Children.Set("Clutch", &domain.Product{Thumbnail: placeholder})

	shoes := &domain.Folder{Thumbnail: "/thumbs/missing-shoes.webp", Children: domain.NewChildren()}
	shoes.Children.Set("Red", &domain.Product{Thumbnail: "/thumbs/missing-shoes.webp"})

	root.Children.Set("BAGS", bags)
	root.Children.Set("SHOES", shoes)
	return root
}

var wantMissing = []domain.MissingThumbnail{
	{Path: "BAGS/Tote/Mini", Thumbnail: "/thumbs/missing-mini.webp"},
	{Path: "SHOES", Thumbnail: "/thumbs/missing-shoes.webp"},
	{Path: "SHOES/Red", Thumbnail: "/thumbs/missing-shoes.webp"},
}

func TestScan_FSChecker(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "public/thumbs/bags.webp", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "public/thumbs/tote.webp", []byte("x"), 0o644))

	scanner := NewScanner(NewFSChecker(fs, "public"), placeholder, 4)
	missing, err := scanner.Scan(context.Background(), testTree())

	require.NoError(t, err)
	assert.Equal(t, wantMissing, missing)
}

// slowChecker answers the first references last so completion order is the
// reverse of traversal order.
type slowChecker struct {
	mu      sync.Mutex
	delays  map[string]time.Duration
	present map[string]bool
	calls   map[string]int
}

func (c *slowChecker) Close() error { return nil }

func (c *slowChecker) Exists(ctx context.Context, ref string) (bool, error) {
	c.mu.Lock()
	c.calls[ref]++
	delay := c.delays[ref]
	c.mu.Unlock()

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return false, ctx.Err()
	}
	return c.present[ref], nil
}

func TestScan_StableOrderUnderConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)

	checker := &slowChecker{
		delays: map[string]time.Duration{
			"/thumbs/bags.webp":          40 * time.Millisecond,
			"/thumbs/tote.webp":          30 * time.Millisecond,
			"/thumbs/missing-mini.webp":  20 * time.Millisecond,
			"/thumbs/missing-shoes.webp": 0,
		},
		present: map[string]bool{"/thumbs/bags.webp": true, "/thumbs/tote.webp": true},
		calls:   make(map[string]int),
	}

	missing, err := NewScanner(checker, placeholder, 8).Scan(context.Background(), testTree())

	require.NoError(t, err)
	assert.Equal(t, wantMissing, missing)
	assert.Equal(t, 1, checker.calls["/thumbs/missing-shoes.webp"], "each reference is checked once")
	assert.NotContains(t, checker.calls, placeholder)
}

type failingChecker struct{}

func (failingChecker) Close() error { return nil }

func (failingChecker) Exists(context.Context, string) (bool, error) {
	return false, errors.New("disk on fire")
}

func TestScan_CheckerErrorIsFinding(t *testing.T) {
	missing, err := NewScanner(failingChecker{}, placeholder, 2).Scan(context.Background(), testTree())

	require.NoError(t, err)
	assert.Len(t, missing, 5)
}

func TestScan_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(failingChecker{}, placeholder, 2).Scan(ctx, testTree())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan_EmptyTree(t *testing.T) {
	missing, err := NewScanner(failingChecker{}, placeholder, 2).Scan(context.Background(), domain.NewFolder())

	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestFSChecker_RemoteReferencesPass(t *testing.T) {
	checker := NewFSChecker(afero.NewMemMapFs(), "public")
	defer checker.Close()

	for _, ref := range []string{"https://cdn.example.com/a.png", "//cdn.example.com/a.png"} {
		ok, err := checker.Exists(context.Background(), ref)
		require.NoError(t, err)
		assert.True(t, ok, ref)
	}
}

func TestHTTPChecker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/thumbs/a.webp":
			w.WriteHeader(http.StatusOK)
		case "/thumbs/broken.webp":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL+"/", 0, 5*time.Second)
	defer func() { assert.NoError(t, checker.Close()) }()
	ctx := context.Background()

	ok, err := checker.Exists(ctx, "/thumbs/a.webp")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.Exists(ctx, "/thumbs/gone.webp")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = checker.Exists(ctx, "/thumbs/broken.webp")
	assert.Error(t, err)
}
