package common

// Key codes delivered by the window key callbacks.
// These values match GLFW key codes, which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyP     = 80 // P key (ASCII), pause/resume the simulation
	KeyR     = 82 // R key (ASCII), reset rig and particles
	KeyS     = 83 // S key (ASCII), save a poster snapshot
	KeySpace = 32 // Spacebar (ASCII), pause/resume the simulation

	KeyLeft  = 263 // Left arrow (GLFW), orbit left
	KeyRight = 262 // Right arrow (GLFW), orbit right
	KeyUp    = 265 // Up arrow (GLFW), orbit up
	KeyDown  = 264 // Down arrow (GLFW), orbit down
)
