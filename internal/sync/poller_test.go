package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nhle/inbox/internal/api"
	"github.com/nhle/inbox/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeFetcher struct {
	mu    gosync.Mutex
	calls map[model.Folder]int
	err   error
	block bool
}

func (f *fakeFetcher) Messages(ctx context.Context, folder model.Folder) ([]model.Message, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[model.Folder]int)
	}
	f.calls[folder]++
	err, block := f.err, f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return []model.Message{{ID: string(folder) + "-1"}}, nil
}

func (f *fakeFetcher) count(folder model.Folder) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[folder]
}

func nextResult(t *testing.T, p *Poller) RefreshResultMsg {
	t.Helper()
	select {
	case res := <-p.resultCh:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh result")
		return RefreshResultMsg{}
	}
}

func TestPoller_RefreshesBoundFolder(t *testing.T) {
	f := &fakeFetcher{}
	p := New(f, 10*time.Millisecond, time.Second)
	defer p.Stop()

	gen := p.Bind(model.FolderInbox)

	res := nextResult(t, p)
	assert.Equal(t, model.FolderInbox, res.Folder)
	assert.Equal(t, gen, res.Generation)
	assert.NoError(t, res.Err)
	assert.Equal(t, "INBOX-1", res.Messages[0].ID)
}

func TestPoller_Status(t *testing.T) {
	f := &fakeFetcher{}
	p := New(f, time.Hour, time.Second)
	defer p.Stop()

	gen := p.Bind(model.FolderInbox)
	assert.Equal(t, SyncStatus{Folder: model.FolderInbox, State: SyncIdle}, p.Status())

	p.refresh(context.Background(), model.FolderInbox, gen)
	assert.Equal(t, SyncIdle, p.Status().State)
	assert.False(t, p.Status().LastSync.IsZero())
	nextResult(t, p)

	f.mu.Lock()
	f.err = errors.New("502")
	f.mu.Unlock()
	p.refresh(context.Background(), model.FolderInbox, gen)
	assert.Equal(t, SyncError, p.Status().State)
	assert.EqualError(t, p.Status().Error, "502")
	nextResult(t, p)

	// A result from an older binding does not touch the status.
	p.refresh(context.Background(), model.FolderInbox, gen-1)
	assert.Equal(t, SyncError, p.Status().State)
}

func TestPoller_RebindStopsPreviousFolder(t *testing.T) {
	f := &fakeFetcher{}
	p := New(f, 10*time.Millisecond, time.Second)
	defer p.Stop()

	first := p.Bind(model.FolderInbox)
	second := p.Bind(model.FolderSent)
	require.Greater(t, second, first)
	assert.Equal(t, second, p.Generation())

	inboxCalls := f.count(model.FolderInbox)

	deadline := time.After(2 * time.Second)
	for {
		var res RefreshResultMsg
		select {
		case res = <-p.resultCh:
		case <-deadline:
			t.Fatal("no result for the new folder")
		}
		if res.Generation == second {
			assert.Equal(t, model.FolderSent, res.Folder)
			break
		}
	}

	assert.Equal(t, inboxCalls, f.count(model.FolderInbox), "old loop no longer ticks")
	assert.Equal(t, model.FolderSent, p.Status().Folder)
}

func TestPoller_ErrorsAreDeliveredAndLoopContinues(t *testing.T) {
	f := &fakeFetcher{err: errors.New("503")}
	p := New(f, 10*time.Millisecond, time.Second)
	defer p.Stop()

	p.Bind(model.FolderInbox)

	res := nextResult(t, p)
	assert.EqualError(t, res.Err, "503")
	assert.False(t, res.AuthFailed)

	res = nextResult(t, p)
	assert.Error(t, res.Err, "ticking continues after a failure")
}

func TestPoller_AuthFailure(t *testing.T) {
	f := &fakeFetcher{err: &api.AuthError{StatusCode: 401, Path: "/emails"}}
	p := New(f, 10*time.Millisecond, time.Second)
	defer p.Stop()

	p.Bind(model.FolderInbox)

	assert.True(t, nextResult(t, p).AuthFailed)
}

func TestPoller_StopCancelsInFlightFetch(t *testing.T) {
	f := &fakeFetcher{block: true}
	p := New(f, 5*time.Millisecond, time.Minute)

	p.Bind(model.FolderInbox)
	assert.Eventually(t, func() bool {
		return f.count(model.FolderInbox) > 0
	}, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop()

	select {
	case res := <-p.resultCh:
		t.Fatalf("cancelled fetch delivered a result: %+v", res)
	default:
	}
}

func TestPoller_WaitForNextResult(t *testing.T) {
	p := New(&fakeFetcher{}, time.Hour, time.Second)
	p.sendResult(RefreshResultMsg{Folder: model.FolderTrash, Generation: 7})

	msg := p.WaitForNextResult()()

	res, ok := msg.(RefreshResultMsg)
	require.True(t, ok)
	assert.Equal(t, model.FolderTrash, res.Folder)
	assert.Equal(t, uint64(7), res.Generation)
}

func TestNew_Defaults(t *testing.T) {
	p := New(&fakeFetcher{}, 0, -1)
	assert.Equal(t, defaultInterval, p.interval)
	assert.Equal(t, defaultTimeout, p.timeout)
}
