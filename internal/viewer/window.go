package viewer

import rl "github.com/gen2brain/raylib-go/raylib"

// WindowConfig sizes the window. Zero width or height means fullscreen on the primary monitor.
type WindowConfig struct {
	Title  string
	Width  int32
	Height int32
}

// runWindow opens the window and runs the main loop. Each frame it calls update, then clears the
// screen and calls draw. ESC toggles the input bar, so the window closes only via its close button.
func runWindow(cfg WindowConfig, update, draw func()) {
	w, h := cfg.Width, cfg.Height
	if w == 0 || h == 0 {
		rl.SetConfigFlags(rl.FlagFullscreenMode)
		w, h = int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0))
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	}
	rl.InitWindow(w, h, cfg.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(background)
		draw()
		rl.EndDrawing()
	}
}
