package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/nhle/inbox/internal/model"
)

// Labels fetches every label known to the backend, system and user.
func (c *Client) Labels(ctx context.Context) ([]model.Label, error) {
	var labels []model.Label
	if err := c.get(ctx, "/gmail/labels", &labels); err != nil {
		return nil, fmt.Errorf("fetching labels: %w", err)
	}
	return labels, nil
}

// Messages fetches the messages carrying the given folder selector.
func (c *Client) Messages(ctx context.Context, folder model.Folder) ([]model.Message, error) {
	path := "/emails?label=" + url.QueryEscape(string(folder))

	var msgs []model.Message
	if err := c.get(ctx, path, &msgs); err != nil {
		return nil, fmt.Errorf("fetching messages for %s: %w", folder, err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return msgs, nil
}

// Analyze runs the AI analysis for one message. A 200 response that
// carries an "error" field is returned as *AnalysisError.
func (c *Client) Analyze(ctx context.Context, messageID string) (*model.AnalysisResult, error) {
	var raw json.RawMessage
	if err := c.post(ctx, messagePath(messageID, "analyze"), nil, &raw); err != nil {
		return nil, fmt.Errorf("analyzing message %s: %w", messageID, err)
	}

	var failure struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &failure) == nil && failure.Error != "" {
		return nil, &AnalysisError{Code: failure.Error, Message: failure.Message}
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding analysis for %s: %w", messageID, err)
	}
	return &result, nil
}

// MarkRead removes the unread flag on the backend.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	if err := c.post(ctx, messagePath(messageID, "mark-read"), nil, nil); err != nil {
		return fmt.Errorf("marking %s read: %w", messageID, err)
	}
	return nil
}

// Trash moves the message to the trash.
func (c *Client) Trash(ctx context.Context, messageID string) error {
	if err := c.post(ctx, messagePath(messageID, "trash"), nil, nil); err != nil {
		return fmt.Errorf("trashing %s: %w", messageID, err)
	}
	return nil
}

// AddLabel attaches the label with the given name, creating it on the
// backend if needed.
func (c *Client) AddLabel(ctx context.Context, messageID, labelName string) error {
	path := messagePath(messageID, "add-label") + "?label=" + url.QueryEscape(labelName)
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("labeling %s as %q: %w", messageID, labelName, err)
	}
	return nil
}

type archiveRequest struct {
	MessageID string `json:"message_id"`
	LabelName string `json:"label_name"`
}

// Archive removes the message from the inbox and tags it with labelName.
func (c *Client) Archive(ctx context.Context, messageID, labelName string) error {
	body := archiveRequest{MessageID: messageID, LabelName: labelName}
	if err := c.post(ctx, "/archive", body, nil); err != nil {
		return fmt.Errorf("archiving %s: %w", messageID, err)
	}
	return nil
}

type replyRequest struct {
	MessageID string `json:"message_id"`
	ReplyText string `json:"reply_text"`
}

// Reply sends text as a reply in the message's thread.
func (c *Client) Reply(ctx context.Context, messageID, text string) error {
	body := replyRequest{MessageID: messageID, ReplyText: text}
	if err := c.post(ctx, "/reply", body, nil); err != nil {
		return fmt.Errorf("replying to %s: %w", messageID, err)
	}
	return nil
}

// CreateMeeting creates a calendar event and returns its link, which
// may be empty.
func (c *Client) CreateMeeting(ctx context.Context, req model.MeetingRequest) (string, error) {
	if req.Attendees == nil {
		req.Attendees = []string{}
	}

	var resp struct {
		CalendarLink string `json:"calendar_link"`
	}
	if err := c.post(ctx, "/calendar/meeting", req, &resp); err != nil {
		return "", fmt.Errorf("creating meeting %q: %w", req.Title, err)
	}
	return resp.CalendarLink, nil
}

// AuthStatus reports whether the backend holds a valid login.
func (c *Client) AuthStatus(ctx context.Context) (bool, error) {
	var resp struct {
		LoggedIn bool `json:"logged_in"`
	}
	if err := c.get(ctx, "/auth/status", &resp); err != nil {
		return false, fmt.Errorf("checking auth status: %w", err)
	}
	return resp.LoggedIn, nil
}

// CurrentUser returns the signed-in account's address, or "".
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	var resp struct {
		Email string `json:"email"`
	}
	if err := c.get(ctx, "/auth/user", &resp); err != nil {
		return "", fmt.Errorf("fetching current user: %w", err)
	}
	return resp.Email, nil
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.get(ctx, "/logout", nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

func messagePath(id, action string) string {
	return "/emails/" + url.PathEscape(id) + "/" + action
}
