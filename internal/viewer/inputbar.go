package viewer

import (
	"strings"
	"unicode/utf8"

	"animation-poser/internal/commands"
	"animation-poser/internal/logger"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	barHeight = 40
	// When windowed, move bar up by this many pixels so it stays visible.
	windowedBarOffset = 56
	prompt            = "> "
	fontSize          = 20
	padding           = 8
	maxLinesOnScreen  = 14
	lineHeight        = fontSize + 4
	maxLineLen        = 200
)

var (
	barColor    = rl.NewColor(40, 40, 40, 255)
	barLine     = rl.NewColor(80, 80, 80, 255)
	historyFill = rl.NewColor(24, 24, 24, 240)
)

// inputBar is the command line at the bottom of the window, shown and hidden with ESC.
// While it is open it owns the keyboard and clicks do not place characters.
type inputBar struct {
	log  *logger.Logger
	reg  *commands.Registry
	buf  string
	open bool
}

func newInputBar(log *logger.Logger, reg *commands.Registry) *inputBar {
	return &inputBar{log: log, reg: reg}
}

// update handles ESC, and when open: typing, paste, backspace and enter.
func (b *inputBar) update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		b.open = !b.open
	}
	if !b.open {
		return
	}
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		b.buf += rl.GetClipboardText()
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			b.buf += string(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(b.buf) > 0 {
		_, size := utf8.DecodeLastRuneInString(b.buf)
		b.buf = b.buf[:len(b.buf)-size]
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && b.buf != "" {
		b.submit(b.buf)
		b.buf = ""
	}
}

func (b *inputBar) submit(line string) {
	b.log.Log(line)
	args, ok := commands.Parse(line)
	if !ok {
		args = strings.Fields(line)
	}
	if err := b.reg.Execute(args); err != nil {
		b.log.Log(err.Error())
	}
}

// draw renders the bar and the most recent log lines above it.
func (b *inputBar) draw() {
	if !b.open {
		return
	}
	screenW := int(rl.GetScreenWidth())
	barY := int(rl.GetScreenHeight()) - barHeight
	if !rl.IsWindowFullscreen() {
		barY -= windowedBarOffset
	}

	historyH := maxLinesOnScreen * lineHeight
	historyY := barY - historyH
	if historyY < 0 {
		historyH, historyY = barY, 0
	}
	if historyH > 0 {
		rl.DrawRectangle(0, int32(historyY), int32(screenW), int32(historyH), historyFill)
	}
	lines := lastLines(b.log.Lines(), maxLinesOnScreen)
	for i, line := range lines {
		y := historyY + i*lineHeight + padding
		rl.DrawText(clip(line, maxLineLen), padding, int32(y), fontSize, rl.LightGray)
	}

	rl.DrawRectangle(0, int32(barY), int32(screenW), barHeight, barColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, barLine)
	rl.DrawText(prompt+b.buf+"|", padding, int32(barY+padding), fontSize, rl.White)
}

func lastLines(lines []string, n int) []string {
	if len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
