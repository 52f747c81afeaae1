package mailbox

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/model"
)

type fakeBackend struct {
	mu sync.Mutex

	folders  map[model.Folder][]model.Message
	labels   []model.Label
	analyses map[string]*model.AnalysisResult

	analyzeErr  error
	mutationErr error
	replyErr    error
	meetingErr  error
	meetingLink string

	calls    []string
	meetings []model.MeetingRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		folders:  make(map[model.Folder][]model.Message),
		analyses: make(map[string]*model.AnalysisResult),
	}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeBackend) Labels(ctx context.Context) ([]model.Label, error) {
	f.record("labels")
	return f.labels, nil
}

func (f *fakeBackend) Messages(ctx context.Context, folder model.Folder) ([]model.Message, error) {
	f.record("messages:" + string(folder))
	f.mu.Lock()
	defer f.mu.Unlock()
	src := f.folders[folder]
	out := make([]model.Message, len(src))
	copy(out, src)
	return out, nil
}

func (f *fakeBackend) Analyze(ctx context.Context, id string) (*model.AnalysisResult, error) {
	f.record("analyze:" + id)
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	if res, ok := f.analyses[id]; ok {
		cp := *res
		return &cp, nil
	}
	return &model.AnalysisResult{Summary: "summary of " + id}, nil
}

func (f *fakeBackend) MarkRead(ctx context.Context, id string) error {
	f.record("mark-read:" + id)
	return f.mutationErr
}

func (f *fakeBackend) Trash(ctx context.Context, id string) error {
	f.record("trash:" + id)
	return f.mutationErr
}

func (f *fakeBackend) Archive(ctx context.Context, id, label string) error {
	f.record(fmt.Sprintf("archive:%s:%s", id, label))
	return f.mutationErr
}

func (f *fakeBackend) AddLabel(ctx context.Context, id, label string) error {
	f.record(fmt.Sprintf("add-label:%s:%s", id, label))
	return f.mutationErr
}

func (f *fakeBackend) Reply(ctx context.Context, id, text string) error {
	f.record(fmt.Sprintf("reply:%s:%s", id, text))
	return f.replyErr
}

func (f *fakeBackend) CreateMeeting(ctx context.Context, req model.MeetingRequest) (string, error) {
	f.record("meeting:" + req.Title)
	f.mu.Lock()
	f.meetings = append(f.meetings, req)
	f.mu.Unlock()
	return f.meetingLink, f.meetingErr
}

type fakeJournal struct {
	mu            sync.Mutex
	mutations     []model.MutationRecord
	notifications []model.Notification
}

func (j *fakeJournal) RecordMutation(ctx context.Context, rec model.MutationRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.mutations = append(j.mutations, rec)
	return nil
}

func (j *fakeJournal) RecordNotification(ctx context.Context, n model.Notification) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.notifications = append(j.notifications, n)
	return nil
}

func (j *fakeJournal) Mutations() []model.MutationRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]model.MutationRecord, len(j.mutations))
	copy(out, j.mutations)
	return out
}

func newTestSession(t *testing.T, b *fakeBackend, opts Options) *Session {
	t.Helper()
	if opts.NotifyTTL == 0 {
		opts.NotifyTTL = time.Millisecond
	}
	return New(b, opts)
}

// run executes cmd and returns the messages it produced, expanding
// batches. Notification timers are short in tests so they return fast.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle runs cmd and feeds every result back into s until nothing is
// left. Notification expiries are held back so notices stay observable.
func settle(s *Session, cmd tea.Cmd) {
	for _, msg := range run(cmd) {
		if _, ok := msg.(NotificationExpiredMsg); ok {
			continue
		}
		settle(s, s.Update(msg))
	}
}

// only returns the messages of type T from msgs.
func only[T tea.Msg](msgs []tea.Msg) []T {
	var out []T
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func ids(msgs []model.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func inbox(msgs ...model.Message) *fakeBackend {
	b := newFakeBackend()
	b.folders[model.FolderInbox] = msgs
	return b
}

func loaded(t *testing.T, b *fakeBackend, opts Options) *Session {
	t.Helper()
	s := newTestSession(t, b, opts)
	settle(s, s.LoadFolder(model.FolderInbox))
	return s
}
