package sync

import (
	"context"

	"github.com/kirvasilev/notesync/internal/entity"
)

func (u *Usecase) publish(kind entity.NoteEventKind, note entity.Note) {
	u.observer.Update(entity.NoteEvent{Kind: kind, Note: note})
}

// SubscribeToEvents streams the user's note changes until ctx is cancelled.
// Each subscriber observes the shared change property; events of other
// users are filtered out.
func (u *Usecase) SubscribeToEvents(ctx context.Context, userEmail string) (<-chan entity.NoteEvent, error) {
	if userEmail == "" {
		return nil, entity.NewInvalidRequest("userEmail", "is required")
	}

	stream := u.observer.Observe()

	result := make(chan entity.NoteEvent)
	go func() {
		defer close(result)
		for {
			select {
			case <-ctx.Done():
				return

			case <-stream.Changes():
				event := stream.Next().(entity.NoteEvent)
				if event.Note.UserEmail != userEmail {
					continue
				}

				select {
				case <-ctx.Done():
					return
				case result <- event:
				}
			}
		}
	}()

	return result, nil
}
