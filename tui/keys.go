package tui

// Action is what a key press asks the picker to do.
type Action int

const (
	ActionNone Action = iota
	ActionStep
	ActionMarkStart
	ActionMarkEnd
	ActionExport
	ActionQuit
	ActionToggleClock
	ActionSnapshot
	ActionHelp
	ActionCancel
)

// stepKeys maps navigation keys to a signed step in seconds; 0 means a
// single frame.
var stepKeys = map[string]struct {
	sign    int
	seconds int
}{
	"k": {+1, 0},
	"K": {+1, 1},
	"l": {+1, 10},
	"L": {+1, 30},
	"j": {-1, 0},
	"J": {-1, 1},
	"h": {-1, 10},
	"H": {-1, 30},
}

var actionKeys = map[string]Action{
	"a":      ActionMarkStart,
	"s":      ActionMarkEnd,
	"q":      ActionExport,
	"Q":      ActionQuit,
	"ctrl+c": ActionQuit,
	"m":      ActionToggleClock,
	"x":      ActionSnapshot,
	"?":      ActionHelp,
	"esc":    ActionCancel,
}

// KeyAction resolves a key to an action. For ActionStep delta is the signed
// number of frames to move, with a second counted as fps frames.
func KeyAction(key string, fps int) (action Action, delta int) {
	if s, ok := stepKeys[key]; ok {
		n := 1
		if s.seconds > 0 {
			n = s.seconds * fps
		}
		return ActionStep, s.sign * n
	}
	if a, ok := actionKeys[key]; ok {
		return a, 0
	}
	return ActionNone, 0
}
