package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/muesli/termenv"
)

// debugPanel redraws the camera state in the terminal at most once per interval.
type debugPanel struct {
	out      *termenv.Output
	interval time.Duration
	now      func() time.Time

	last    time.Time
	frames  int
	elapsed float32
	drawn   bool
}

func newDebugPanel(out *termenv.Output, interval time.Duration) *debugPanel {
	out.HideCursor()
	return &debugPanel{out: out, interval: interval, now: time.Now}
}

func (p *debugPanel) update(s camera.State, dt float32) {
	p.frames++
	p.elapsed += dt

	now := p.now()
	if p.drawn && now.Sub(p.last) < p.interval {
		return
	}
	var fps float32
	if p.elapsed > 0 {
		fps = float32(p.frames) / p.elapsed
	}
	p.draw(s, fps)
	p.last, p.frames, p.elapsed, p.drawn = now, 0, 0, true
}

func (p *debugPanel) draw(s camera.State, fps float32) {
	p.out.ClearScreen()

	title := p.out.String("orrery camera").Bold()
	mode := p.out.String(s.Mode.String()).Foreground(p.modeColor(s.Mode))
	fmt.Fprintf(p.out, "%s  [%s]  %.1f fps\n\n", title, mode, fps)

	for _, l := range strings.Split(s.String(), "\n") {
		label, value, ok := strings.Cut(l, ": ")
		if !ok {
			fmt.Fprintln(p.out, l)
			continue
		}
		fmt.Fprintf(p.out, "%s %s\n", p.out.String(fmt.Sprintf("%-12s", label+":")).Faint(), value)
	}
}

func (p *debugPanel) modeColor(m camera.Mode) termenv.Color {
	switch m {
	case camera.ModeAnchoredOrbit:
		return p.out.Color("2")
	case camera.ModeAnchoredFixedTarget:
		return p.out.Color("3")
	default:
		return p.out.Color("4")
	}
}

func (p *debugPanel) close() {
	p.out.ShowCursor()
}
