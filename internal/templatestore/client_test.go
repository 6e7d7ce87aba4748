package templatestore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/billingmail/internal/templatestore"
)

// --- in-memory object store counting downloads ---

type fakeStore struct {
	objects   map[string]string // "<container>/<path>" -> content
	failWith  error
	downloads int
}

func (f *fakeStore) Download(_ context.Context, container, path string) ([]byte, error) {
	f.downloads++
	if f.failWith != nil {
		return nil, f.failWith
	}
	content, ok := f.objects[container+"/"+path]
	if !ok {
		return nil, templatestore.ErrNotFound
	}
	return []byte(content), nil
}

func TestNormalizeContainer(t *testing.T) {
	assert.Equal(t, "templates", templatestore.NormalizeContainer("templates"))
	assert.Equal(t, "templates", templatestore.NormalizeContainer("blob://templates"))
	assert.Equal(t, "templates", templatestore.NormalizeContainer("https://templates/"))
}

func TestFetchText_SchemePrefixedContainer(t *testing.T) {
	store := &fakeStore{objects: map[string]string{"templates/acme/hello.html": "<p>hi</p>"}}
	client := templatestore.NewClient(store, "blob://templates", 0)

	text, err := client.FetchText(context.Background(), "acme/hello.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", text)
}

func TestFetchText_CachesContent(t *testing.T) {
	store := &fakeStore{objects: map[string]string{"templates/a.txt": "one"}}
	client := templatestore.NewClient(store, "templates", 0)

	for i := 0; i < 3; i++ {
		text, err := client.FetchText(context.Background(), "a.txt")
		require.NoError(t, err)
		assert.Equal(t, "one", text)
	}
	assert.Equal(t, 1, store.downloads, "content must be served from cache after the first fetch")
}

func TestFetchText_ZeroTTLNeverExpires(t *testing.T) {
	store := &fakeStore{objects: map[string]string{"templates/a.txt": "one"}}
	client := templatestore.NewClient(store, "templates", 0)

	_, err := client.FetchText(context.Background(), "a.txt")
	require.NoError(t, err)

	store.objects["templates/a.txt"] = "two"
	text, err := client.FetchText(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "one", text, "permanently warm cache must not refetch")
}

func TestFetchText_TTLExpiryRefetches(t *testing.T) {
	store := &fakeStore{objects: map[string]string{"templates/a.txt": "one"}}
	client := templatestore.NewClient(store, "templates", 10*time.Millisecond)

	_, err := client.FetchText(context.Background(), "a.txt")
	require.NoError(t, err)

	store.objects["templates/a.txt"] = "two"
	time.Sleep(20 * time.Millisecond)

	text, err := client.FetchText(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", text)
	assert.Equal(t, 2, store.downloads)
}

func TestFetchText_NotFoundIsDistinguishable(t *testing.T) {
	store := &fakeStore{objects: map[string]string{}}
	client := templatestore.NewClient(store, "templates", 0)

	_, err := client.FetchText(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, templatestore.ErrNotFound)
}

func TestFetchText_TransportErrorIsNotNotFound(t *testing.T) {
	store := &fakeStore{failWith: errors.New("connection refused")}
	client := templatestore.NewClient(store, "templates", 0)

	_, err := client.FetchText(context.Background(), "a.txt")
	require.Error(t, err)
	assert.False(t, errors.Is(err, templatestore.ErrNotFound))
}

func TestFetchOptionalText(t *testing.T) {
	store := &fakeStore{objects: map[string]string{"templates/a.txt": "one"}}
	client := templatestore.NewClient(store, "templates", 0)

	text, ok, err := client.FetchOptionalText(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one", text)

	_, ok, err = client.FetchOptionalText(context.Background(), "missing.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFetchOptionalText_TransportErrorSurfaces(t *testing.T) {
	store := &fakeStore{failWith: errors.New("auth failure")}
	client := templatestore.NewClient(store, "templates", 0)

	_, ok, err := client.FetchOptionalText(context.Background(), "a.txt")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNullStore_AlwaysMisses(t *testing.T) {
	client := templatestore.NewClient(templatestore.NullStore{}, "templates", 0)
	_, ok, err := client.FetchOptionalText(context.Background(), "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}
