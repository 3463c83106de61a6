package content

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	list   func(ctx context.Context) ([]PostMetadata, error)
	render func(ctx context.Context, id string) (HTML, error)
}

func (f fakeSource) ListPosts(ctx context.Context) ([]PostMetadata, error) { return f.list(ctx) }

func (f fakeSource) RenderPost(ctx context.Context, id string) (HTML, error) {
	return f.render(ctx, id)
}

func TestBoundaryGetPostsMeta(t *testing.T) {
	fsys := fstest.MapFS{}
	post(fsys, "a.md", "A")
	b := NewBoundary(newStore(t, fsys))

	res := b.GetPostsMeta(context.Background())
	require.True(t, res.OK())
	assert.Equal(t, StateLoaded, res.State())
	require.Len(t, res.Value, 1)
	assert.Equal(t, "A", res.Value[0].Title)
}

func TestBoundaryTagsFailures(t *testing.T) {
	s, err := NewDir(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	b := NewBoundary(s)

	list := b.GetPostsMeta(context.Background())
	require.False(t, list.OK())
	assert.Equal(t, StateFailed, list.State())
	assert.Equal(t, KindDirectoryUnreadable, list.Err.Kind)

	got := b.GetPost(context.Background(), "missing.md")
	require.False(t, got.OK())
	assert.Equal(t, KindPostNotFound, got.Err.Kind)

	bad := b.GetPost(context.Background(), "../../etc/passwd")
	require.False(t, bad.OK())
	assert.Equal(t, KindInvalidIdentifier, bad.Err.Kind)
}

func TestBoundaryMapsForeignErrorsToIOFailure(t *testing.T) {
	b := NewBoundary(fakeSource{
		list: func(context.Context) ([]PostMetadata, error) { return nil, errors.New("disk on fire") },
	})
	res := b.GetPostsMeta(context.Background())
	require.NotNil(t, res.Err)
	assert.Equal(t, KindIOFailure, res.Err.Kind)
	assert.Contains(t, res.Err.Error(), "disk on fire")
}

func TestBoundaryRecoversPanics(t *testing.T) {
	b := NewBoundary(fakeSource{
		render: func(context.Context, string) (HTML, error) { panic("unexpected") },
	})

	var res Result[HTML]
	require.NotPanics(t, func() { res = b.GetPost(context.Background(), "a.md") })
	require.NotNil(t, res.Err)
	assert.Equal(t, KindIOFailure, res.Err.Kind)
	assert.Contains(t, res.Err.Error(), "panic: unexpected")
}

func TestBoundaryObserver(t *testing.T) {
	type call struct {
		op   string
		kind Kind
		ok   bool
	}
	var (
		mu    sync.Mutex
		calls []call
	)
	fsys := fstest.MapFS{}
	post(fsys, "a.md", "A")
	b := NewBoundary(newStore(t, fsys), WithObserver(func(op string, err *Error, _ time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		c := call{op: op, ok: err == nil}
		if err != nil {
			c.kind = err.Kind
		}
		calls = append(calls, c)
	}))

	b.GetPostsMeta(context.Background())
	b.GetPost(context.Background(), "a.md")
	b.GetPost(context.Background(), "nope.md")

	assert.Equal(t, []call{
		{op: OpGetPostsMeta, ok: true},
		{op: OpGetPost, ok: true},
		{op: OpGetPost, kind: KindPostNotFound},
	}, calls)
}

func TestFetchReportsLoadingUntilDone(t *testing.T) {
	release := make(chan struct{})
	b := NewBoundary(fakeSource{
		render: func(ctx context.Context, id string) (HTML, error) {
			<-release
			return HTML("<p>" + id + "</p>"), nil
		},
	})

	r := b.FetchPost(context.Background(), "a.md")
	assert.Equal(t, StateLoading, r.State())
	_, ok := r.Result()
	assert.False(t, ok)

	close(release)
	<-r.Done()
	assert.Equal(t, StateLoaded, r.State())
	res, ok := r.Result()
	require.True(t, ok)
	assert.Equal(t, HTML("<p>a.md</p>"), res.Value)
}

func TestFetchFailedState(t *testing.T) {
	b := NewBoundary(newStore(t, fstest.MapFS{}))
	r := b.FetchPost(context.Background(), "missing.md")

	res := r.Wait(context.Background())
	assert.Equal(t, StateFailed, r.State())
	assert.Equal(t, KindPostNotFound, res.Err.Kind)
}

func TestFetchCompletesAfterCallerGivesUp(t *testing.T) {
	release := make(chan struct{})
	var sawCancel bool
	b := NewBoundary(fakeSource{
		list: func(ctx context.Context) ([]PostMetadata, error) {
			<-release
			sawCancel = ctx.Err() != nil
			return []PostMetadata{{Slug: "a.md"}}, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	r := b.FetchPostsMeta(ctx)
	cancel()

	waited := r.Wait(ctx)
	require.NotNil(t, waited.Err)
	assert.ErrorIs(t, waited.Err, context.Canceled)

	close(release)
	<-r.Done()
	res, ok := r.Result()
	require.True(t, ok)
	assert.True(t, res.OK())
	assert.False(t, sawCancel)
}

func TestFetchRunsConcurrently(t *testing.T) {
	slow := make(chan struct{})
	b := NewBoundary(fakeSource{
		list: func(context.Context) ([]PostMetadata, error) {
			return []PostMetadata{{Slug: "a.md"}}, nil
		},
		render: func(context.Context, string) (HTML, error) {
			<-slow
			return "", nil
		},
	})

	postRes := b.FetchPost(context.Background(), "a.md")
	listRes := b.FetchPostsMeta(context.Background())

	select {
	case <-listRes.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("listing blocked behind a slow post fetch")
	}
	assert.Equal(t, StateLoading, postRes.State())
	close(slow)
	<-postRes.Done()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "failed", StateFailed.String())
}
