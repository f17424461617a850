package dedup

import "context"

// Guard answers whether an event id is being seen for the first time.
// Redelivered messages carry the same producer-stamped id, so a second
// sighting means the increment was already applied.
type Guard interface {
	// FirstSighting returns true when eventID has not been seen within the
	// retention window. An empty eventID is always a first sighting.
	FirstSighting(ctx context.Context, eventID string) (bool, error)

	// Release drops the claim on eventID so a redelivery is treated as a
	// first sighting again. Callers release when the increment behind a
	// claimed id failed and the message will be redelivered.
	Release(ctx context.Context, eventID string) error
}

// Disabled is a Guard that treats every event as new, restoring the
// original non-deduplicated behavior.
type Disabled struct{}

func (Disabled) FirstSighting(ctx context.Context, eventID string) (bool, error) {
	return true, nil
}

func (Disabled) Release(ctx context.Context, eventID string) error {
	return nil
}
