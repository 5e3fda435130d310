package input

import "github.com/Carmen-Shannon/orrery/common"

// Action is what a bound key does. Movement actions accumulate presses into the frame's
// key deltas; command actions are queued as discrete commands.
type Action int

const (
	ActionNone Action = iota

	// Movement
	ActionTrackLeft
	ActionTrackRight
	ActionCraneUp
	ActionCraneDown
	ActionPitchUp
	ActionPitchDown
	ActionYawLeft
	ActionYawRight

	// Commands
	ActionFovIn
	ActionFovOut
	ActionStepUp
	ActionStepDown
	ActionToggleAnimation
	ActionToggleMoving
	ActionSingleStep
	ActionLockSun
	ActionLockEarth
	ActionFreeCamera
	ActionSelectNext
	ActionSelectPrev
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:            "none",
	ActionTrackLeft:       "track_left",
	ActionTrackRight:      "track_right",
	ActionCraneUp:         "crane_up",
	ActionCraneDown:       "crane_down",
	ActionPitchUp:         "pitch_up",
	ActionPitchDown:       "pitch_down",
	ActionYawLeft:         "yaw_left",
	ActionYawRight:        "yaw_right",
	ActionFovIn:           "fov_in",
	ActionFovOut:          "fov_out",
	ActionStepUp:          "step_up",
	ActionStepDown:        "step_down",
	ActionToggleAnimation: "toggle_animation",
	ActionToggleMoving:    "toggle_moving",
	ActionSingleStep:      "single_step",
	ActionLockSun:         "lock_sun",
	ActionLockEarth:       "lock_earth",
	ActionFreeCamera:      "free_camera",
	ActionSelectNext:      "select_next",
	ActionSelectPrev:      "select_prev",
	ActionQuit:            "quit",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "unknown"
}

// IsCommand reports whether the action is queued as a discrete command rather than
// accumulated as a movement delta.
func (a Action) IsCommand() bool {
	return a >= ActionFovIn
}

// ParseAction resolves an action name as produced by String.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name {
			return a, true
		}
	}
	return ActionNone, false
}

// Bindings maps GLFW key codes to actions.
type Bindings map[int]Action

// DefaultBindings returns the stock keyboard layout.
func DefaultBindings() Bindings {
	return Bindings{
		common.KeyLeft:  ActionTrackLeft,
		common.KeyRight: ActionTrackRight,
		common.KeyUp:    ActionCraneUp,
		common.KeyDown:  ActionCraneDown,

		common.KeyW: ActionPitchUp,
		common.KeyS: ActionPitchDown,
		common.KeyA: ActionYawLeft,
		common.KeyD: ActionYawRight,

		common.KeyKPAdd:      ActionFovIn,
		common.KeyEqual:      ActionFovIn,
		common.KeyKPSubtract: ActionFovOut,
		common.KeyMinus:      ActionFovOut,

		common.KeyP: ActionStepUp,
		common.KeyO: ActionStepDown,

		common.KeyQ: ActionToggleAnimation,
		common.KeyK: ActionToggleMoving,
		common.KeyL: ActionSingleStep,
		common.Key1: ActionLockSun,
		common.Key2: ActionLockEarth,
		common.KeyF: ActionFreeCamera,

		common.KeyRightBracket: ActionSelectNext,
		common.KeyLeftBracket:  ActionSelectPrev,
		common.KeyEsc:          ActionQuit,
	}
}
