package model

// Folder is the label identifier that selects which messages are shown.
// System folders use the backend's well-known ids; user labels use
// their opaque label id.
type Folder string

const (
	FolderInbox Folder = "INBOX"
	FolderSent  Folder = "SENT"
	FolderDraft Folder = "DRAFT"
	FolderTrash Folder = "TRASH"
)

// SystemFolders lists the fixed folders in sidebar order.
var SystemFolders = []Folder{FolderInbox, FolderSent, FolderDraft, FolderTrash}

// IsSystem reports whether f is one of the fixed system folders.
func (f Folder) IsSystem() bool {
	for _, sf := range SystemFolders {
		if f == sf {
			return true
		}
	}
	return false
}

// DisplayName returns the sidebar caption for a system folder, or the
// raw id for anything else.
func (f Folder) DisplayName() string {
	switch f {
	case FolderInbox:
		return "Inbox"
	case FolderSent:
		return "Sent"
	case FolderDraft:
		return "Drafts"
	case FolderTrash:
		return "Trash"
	default:
		return string(f)
	}
}
