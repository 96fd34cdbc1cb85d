package entity

// NoteEventKind discriminates note change events.
type NoteEventKind string

const (
	NoteEventPushed  NoteEventKind = "pushed"
	NoteEventPatched NoteEventKind = "patched"
	NoteEventRemoved NoteEventKind = "removed"
)

// NoteEvent is emitted after a note mutation commits, for subscribers
// following a user's changes in real time.
type NoteEvent struct {
	Kind NoteEventKind
	Note Note
}
