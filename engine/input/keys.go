package input

import (
	"strings"

	"github.com/Carmen-Shannon/orrery/common"
)

var keyNames = map[string]int{
	"w":           common.KeyW,
	"a":           common.KeyA,
	"s":           common.KeyS,
	"d":           common.KeyD,
	"q":           common.KeyQ,
	"f":           common.KeyF,
	"k":           common.KeyK,
	"l":           common.KeyL,
	"o":           common.KeyO,
	"p":           common.KeyP,
	"minus":       common.KeyMinus,
	"equal":       common.KeyEqual,
	"space":       common.KeySpace,
	"escape":      common.KeyEsc,
	"[":           common.KeyLeftBracket,
	"]":           common.KeyRightBracket,
	"0":           common.Key0,
	"1":           common.Key1,
	"2":           common.Key2,
	"right":       common.KeyRight,
	"left":        common.KeyLeft,
	"down":        common.KeyDown,
	"up":          common.KeyUp,
	"kp_subtract": common.KeyKPSubtract,
	"kp_add":      common.KeyKPAdd,
}

// ParseKey resolves a key name such as "w", "up" or "kp_add" to its GLFW key code.
// Names are case-insensitive.
func ParseKey(name string) (int, bool) {
	code, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// KeyName returns the name ParseKey accepts for a key code, or "" for unnamed keys.
func KeyName(code int) string {
	for n, c := range keyNames {
		if c == code {
			return n
		}
	}
	return ""
}
