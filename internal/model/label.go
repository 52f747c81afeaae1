package model

// LabelType distinguishes backend system labels from user-defined ones.
type LabelType string

const (
	LabelTypeSystem LabelType = "system"
	LabelTypeUser   LabelType = "user"
)

// Label is a named partition of messages as reported by the backend.
type Label struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Type LabelType `json:"type"`
}

// UserLabels returns only the user-defined labels, preserving order.
func UserLabels(labels []Label) []Label {
	out := make([]Label, 0, len(labels))
	for _, l := range labels {
		if l.Type == LabelTypeUser {
			out = append(out, l)
		}
	}
	return out
}
