package mailbox

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/api"
	"github.com/nhle/inbox/internal/model"
)

// Analyzing reports whether the open message's analysis is in flight.
func (s *Session) Analyzing() bool {
	return s.analyzing
}

// Analysis returns the open message's analysis, or nil.
func (s *Session) Analysis() *model.AnalysisResult {
	return s.analysis
}

func (s *Session) startAnalysis(id string) tea.Cmd {
	s.analysisSeq++
	s.analyzing = true
	s.analysis = nil

	seq := s.analysisSeq
	sid := s.id
	backend := s.backend
	timeout := s.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		res, err := backend.Analyze(ctx, id)
		return AnalysisDoneMsg{Session: sid, MessageID: id, Seq: seq, Result: res, Err: err}
	}
}

func (s *Session) applyAnalysis(msg AnalysisDoneMsg) tea.Cmd {
	if s.viewer != ViewerOpen || s.openID != msg.MessageID || s.analysisSeq != msg.Seq {
		log.Printf("discarding stale analysis of %s", msg.MessageID)
		return nil
	}

	s.analyzing = false
	if msg.Err != nil || msg.Result == nil {
		if msg.Err != nil {
			log.Printf("analyzing %s: %v", msg.MessageID, msg.Err)
		}
		return s.Notify(api.ErrorDetail(msg.Err, "Could not analyze the message"), model.NotificationError)
	}

	s.analysis = msg.Result
	if msg.Result.SuggestedReply != "" && s.draft == "" && !s.draftTouched {
		s.draft = msg.Result.SuggestedReply
	}
	return nil
}
