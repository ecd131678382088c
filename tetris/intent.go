package tetris

import "fmt"

// Intent is a player request the board acts on during Update.
type Intent int

const (
	IntentUp    Intent = iota // Rotates the piece clockwise.
	IntentDown                // Moves the piece one row down.
	IntentLeft                // Moves the piece one column to the left.
	IntentRight               // Moves the piece one column to the right.
	IntentSpace               // Drops the piece and locks it.

	numIntents
)

var intentNames = [numIntents]string{"up", "down", "left", "right", "space"}

func (i Intent) String() string {
	if i < 0 || i >= numIntents {
		return fmt.Sprintf("Intent(%d)", int(i))
	}
	return intentNames[i]
}

// Intents holds which intents are currently requested.
// It is a value type, copies don't share state.
type Intents [numIntents]bool

// Has reports whether i is requested.
func (in Intents) Has(i Intent) bool {
	if i < 0 || i >= numIntents {
		return false
	}
	return in[i]
}

// Event is a key press or release translated to an intent.
type Event struct {
	Intent  Intent
	Pressed bool
}

// Reduce returns the intents resulting from applying ev to cur.
// Unknown intents leave cur unchanged.
func Reduce(cur Intents, ev Event) Intents {
	if ev.Intent < 0 || ev.Intent >= numIntents {
		return cur
	}
	cur[ev.Intent] = ev.Pressed
	return cur
}
