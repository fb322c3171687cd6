package viewer

import (
	"fmt"
	"runtime"

	"animation-poser/internal/session"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	statsFontSize   = 20
	statsPadding    = 12
	statsLineHeight = statsFontSize + 4
	// Refresh FPS/Mem text every N frames.
	statsInterval = 30
	progressWidth = 320
)

var (
	progressBack = rl.NewColor(60, 60, 60, 255)
	progressFill = rl.NewColor(80, 160, 240, 255)
)

// overlay draws the placement status (top-left) and the FPS and memory counters (top-right).
type overlay struct {
	ShowFPS      bool
	ShowMemAlloc bool
	frameCount   uint32
	fpsText      string
	memText      string
	memStats     runtime.MemStats
}

// statusLines is what the top-left panel shows for st.
func statusLines(st session.Status) []string {
	armed := "stopped (space to start)"
	switch {
	case st.Scanning:
		armed = "scanning"
	case st.Started:
		armed = "armed: click to place"
	}
	lines := []string{
		st.Text,
		fmt.Sprintf("Animations: %d  Characters: %d", st.Animations, st.Characters),
		armed,
	}
	if st.RescanNeeded && !st.Scanning {
		lines = append(lines, "rescan needed (F5)")
	}
	return lines
}

func (o *overlay) draw(st session.Status) {
	y := int32(statsPadding)
	for _, line := range statusLines(st) {
		rl.DrawText(line, statsPadding, y, statsFontSize, rl.RayWhite)
		y += statsLineHeight
	}
	if st.Scanning {
		rl.DrawRectangle(statsPadding, y, progressWidth, 8, progressBack)
		rl.DrawRectangle(statsPadding, y, int32(float32(progressWidth)*st.Fraction), 8, progressFill)
	}
	o.drawStats()
}

func (o *overlay) drawStats() {
	o.frameCount++
	refresh := o.frameCount%statsInterval == 0 ||
		(o.ShowFPS && o.fpsText == "") || (o.ShowMemAlloc && o.memText == "")

	screenW := int32(rl.GetScreenWidth())
	y := int32(statsPadding)
	if o.ShowFPS {
		if refresh {
			o.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		rl.DrawText(o.fpsText, screenW-rl.MeasureText(o.fpsText, statsFontSize)-statsPadding, y, statsFontSize, rl.Green)
		y += statsLineHeight
	}
	if o.ShowMemAlloc {
		if refresh {
			runtime.ReadMemStats(&o.memStats)
			o.memText = fmt.Sprintf("Mem: %.2f MiB", float64(o.memStats.Alloc)/(1024*1024))
		}
		rl.DrawText(o.memText, screenW-rl.MeasureText(o.memText, statsFontSize)-statsPadding, y, statsFontSize, rl.Green)
	}
}
