package randomize

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/logicrando/internal/placement"
	"github.com/lawnchairsociety/logicrando/internal/world"
)

var (
	// ErrGenerationFailed is wrapped by GenerationError once the attempt budget is spent
	ErrGenerationFailed = errors.New("generation failed")
	// ErrUnbeatable is returned when a finished placement does not reach the goal
	ErrUnbeatable = errors.New("seed is not beatable")
)

// NoLocationError reports an item no remaining location would accept.
type NoLocationError struct {
	Item      placement.WorldItem
	ItemName  string
	Remaining []placement.WorldLocation
}

func (e *NoLocationError) Error() string {
	return fmt.Sprintf("no location left for %s (world %d), %d candidates remaining", e.ItemName, e.Item.World, len(e.Remaining))
}

// NoCombinationError reports an entry whose item/location cross-product is empty.
type NoCombinationError struct {
	Entry    string
	Placed   int
	MinCount int
}

func (e *NoCombinationError) Error() string {
	return fmt.Sprintf("entry %q: no feasible combination after placing %d of at least %d", e.Entry, e.Placed, e.MinCount)
}

// SettingsConflictError reports an entry that ran dry because an earlier
// user-authored entry claimed the item or location it needed.
type SettingsConflictError struct {
	Entry     string
	ClaimedBy string
	Item      string // set when an item was claimed
	Location  string // set when a location was claimed
}

func (e *SettingsConflictError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("entry %q: location %s already claimed by %q", e.Entry, e.Location, e.ClaimedBy)
	}
	return fmt.Sprintf("entry %q: item %s already claimed by %q", e.Entry, e.Item, e.ClaimedBy)
}

// PlandoConflictError reports a user-authored entry that cannot be honoured.
type PlandoConflictError struct {
	Entry  string
	Placed int
	Count  int
}

func (e *PlandoConflictError) Error() string {
	return fmt.Sprintf("plando entry %q cannot be honoured: placed %d of %d", e.Entry, e.Placed, e.Count)
}

// NoExitError reports an entrance that no candidate exit could be coupled to
// without cutting off part of the world.
type NoExitError struct {
	World    int
	Entrance world.EntranceID
	Name     string
	Tried    int
}

func (e *NoExitError) Error() string {
	return fmt.Sprintf("no exit for entrance %s (world %d) after trying %d candidates", e.Name, e.World, e.Tried)
}

// GenerationError is returned after every attempt failed.
type GenerationError struct {
	Attempts int
	Last     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap exposes both ErrGenerationFailed and the last attempt's error.
func (e *GenerationError) Unwrap() []error {
	return []error{ErrGenerationFailed, e.Last}
}
