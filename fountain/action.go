package fountain

import "strings"

// Kind identifies a control action.
type Kind int

const (
	ActionNone Kind = iota
	MoveLeft
	MoveRight
	MoveForward
	MoveBack
	PowerUp
	PowerDown
	SpreadUp
	SpreadDown
	ToggleMirror
	Reset
	MoveTo
	SetParams
	ZoomIn
	ZoomOut
	RaiseEye
	LowerEye
	OrbitLeft
	OrbitRight
	Quit
)

var kindNames = map[Kind]string{
	ActionNone:   "none",
	MoveLeft:     "move_left",
	MoveRight:    "move_right",
	MoveForward:  "move_forward",
	MoveBack:     "move_back",
	PowerUp:      "power_up",
	PowerDown:    "power_down",
	SpreadUp:     "spread_up",
	SpreadDown:   "spread_down",
	ToggleMirror: "toggle_mirror",
	Reset:        "reset",
	MoveTo:       "move_to",
	SetParams:    "set_params",
	ZoomIn:       "zoom_in",
	ZoomOut:      "zoom_out",
	RaiseEye:     "raise_eye",
	LowerEye:     "lower_eye",
	OrbitLeft:    "orbit_left",
	OrbitRight:   "orbit_right",
	Quit:         "quit",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind resolves an action name such as "power_up".
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name && k != ActionNone {
			return k, true
		}
	}
	return ActionNone, false
}

// Camera reports whether the action only concerns the viewer.
func (k Kind) Camera() bool {
	switch k {
	case ZoomIn, ZoomOut, RaiseEye, LowerEye, OrbitLeft, OrbitRight:
		return true
	}
	return false
}

// Action is a control request sent to the simulation loop.
// X and Z are used by MoveTo, Params by SetParams.
type Action struct {
	Kind   Kind
	X, Z   float32
	Params Params
}

// keymap follows the browser KeyboardEvent.key names so terminal and web
// clients share it.
var keymap = map[string]Kind{
	"a":          MoveLeft,
	"d":          MoveRight,
	"w":          MoveForward,
	"s":          MoveBack,
	"u":          PowerUp,
	"j":          PowerDown,
	"i":          SpreadUp,
	"k":          SpreadDown,
	"m":          ToggleMirror,
	"r":          Reset,
	"+":          ZoomOut,
	"-":          ZoomIn,
	"ArrowUp":    RaiseEye,
	"ArrowDown":  LowerEye,
	"ArrowLeft":  OrbitLeft,
	"ArrowRight": OrbitRight,
	"Escape":     Quit,
	"q":          Quit,
}

// KeyAction maps a key name to its action.
func KeyAction(key string) (Kind, bool) {
	k, ok := keymap[key]
	if !ok && len(key) == 1 {
		k, ok = keymap[strings.ToLower(key)]
	}
	return k, ok
}
