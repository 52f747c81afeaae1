package mailbox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/inbox/internal/api"
	"github.com/nhle/inbox/internal/model"
)

func TestSelect_UnreadMessage(t *testing.T) {
	b := inbox(model.Message{ID: "1", Unread: true})
	s := loaded(t, b, Options{})

	cmd := s.Select("1")

	// Local effects happen before any remote call runs.
	assert.False(t, s.Messages()[0].Unread)
	assert.Equal(t, ViewerOpen, s.Viewer())
	assert.True(t, s.Analyzing())
	open, ok := s.OpenMessage()
	require.True(t, ok)
	assert.False(t, open.Unread)
	assert.Equal(t, []string{"messages:INBOX"}, b.Calls())

	msgs := run(cmd)
	assert.ElementsMatch(t, []string{"messages:INBOX", "mark-read:1", "analyze:1"}, b.Calls())
	assert.Len(t, only[AnalysisDoneMsg](msgs), 1)
	assert.Len(t, only[MutationDoneMsg](msgs), 1)
}

func TestSelect_ReadMessageSkipsMarkRead(t *testing.T) {
	b := inbox(model.Message{ID: "1"})
	s := loaded(t, b, Options{})

	settle(s, s.Select("1"))

	assert.Equal(t, []string{"messages:INBOX", "analyze:1"}, b.Calls())
}

func TestSelect_UnknownID(t *testing.T) {
	s := loaded(t, inbox(model.Message{ID: "1"}), Options{})

	assert.Nil(t, s.Select("missing"))
	assert.Equal(t, ViewerClosed, s.Viewer())
}

func TestSelect_ClearsDraft(t *testing.T) {
	s := loaded(t, inbox(model.Message{ID: "1"}, model.Message{ID: "2"}), Options{})
	settle(s, s.Select("1"))
	s.SetDraft("half written")

	s.Select("2")

	assert.Empty(t, s.Draft())
}

func TestAnalysis_StaleResultDiscarded(t *testing.T) {
	b := inbox(model.Message{ID: "M"}, model.Message{ID: "N"})
	b.analyses["M"] = &model.AnalysisResult{Summary: "about M", SuggestedReply: "reply to M"}
	b.analyses["N"] = &model.AnalysisResult{Summary: "about N", SuggestedReply: "reply to N"}
	s := loaded(t, b, Options{})

	resM := run(s.Select("M"))
	resN := run(s.Select("N"))

	for _, m := range resM {
		s.Update(m)
	}
	assert.Nil(t, s.Analysis())
	assert.Empty(t, s.Draft())
	assert.True(t, s.Analyzing())

	for _, m := range resN {
		s.Update(m)
	}
	require.NotNil(t, s.Analysis())
	assert.Equal(t, "about N", s.Analysis().Summary)
	assert.Equal(t, "reply to N", s.Draft())
	assert.False(t, s.Analyzing())
}

func TestAnalysis_ReselectSameMessage(t *testing.T) {
	b := inbox(model.Message{ID: "M"})
	s := loaded(t, b, Options{})

	first := run(s.Select("M"))
	second := run(s.Select("M"))

	for _, m := range first {
		s.Update(m)
	}
	assert.Nil(t, s.Analysis(), "result of the earlier open is stale")

	for _, m := range second {
		s.Update(m)
	}
	assert.NotNil(t, s.Analysis())
}

func TestAnalysis_DiscardedAfterClose(t *testing.T) {
	s := loaded(t, inbox(model.Message{ID: "M"}), Options{})

	res := run(s.Select("M"))
	s.Close()
	for _, m := range res {
		s.Update(m)
	}

	assert.Equal(t, ViewerClosed, s.Viewer())
	assert.Nil(t, s.Analysis())
	assert.Nil(t, s.Notification())
}

func TestAnalysis_DoesNotOverwriteEditedDraft(t *testing.T) {
	b := inbox(model.Message{ID: "1"})
	b.analyses["1"] = &model.AnalysisResult{SuggestedReply: "suggested"}
	s := loaded(t, b, Options{})

	res := run(s.Select("1"))
	s.SetDraft("typed by hand")
	for _, m := range res {
		s.Update(m)
	}
	assert.Equal(t, "typed by hand", s.Draft())

	// Clearing the draft by hand still counts as touched.
	res = run(s.Select("1"))
	s.SetDraft("x")
	s.SetDraft("")
	for _, m := range res {
		s.Update(m)
	}
	assert.Empty(t, s.Draft())
}

func TestAnalysis_Failure(t *testing.T) {
	b := inbox(model.Message{ID: "1"})
	b.analyzeErr = &api.AnalysisError{Code: "EMPTY_EMAIL_BODY", Message: "No body to analyze"}
	s := loaded(t, b, Options{})

	settle(s, s.Select("1"))

	assert.Nil(t, s.Analysis())
	assert.False(t, s.Analyzing())
	assert.Equal(t, ViewerOpen, s.Viewer())
	require.NotNil(t, s.Notification())
	assert.Equal(t, model.NotificationError, s.Notification().Kind)
	assert.Equal(t, "No body to analyze", s.Notification().Message)
}

func TestAnalysis_GenericFailureText(t *testing.T) {
	b := inbox(model.Message{ID: "1"})
	b.analyzeErr = errors.New("connection refused")
	s := loaded(t, b, Options{})

	settle(s, s.Select("1"))

	require.NotNil(t, s.Notification())
	assert.Equal(t, "Could not analyze the message", s.Notification().Message)
}

func TestSetDraft_IgnoredWhenClosed(t *testing.T) {
	s := loaded(t, inbox(model.Message{ID: "1"}), Options{})

	s.SetDraft("nobody reads this")

	assert.Empty(t, s.Draft())
}
