package media

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rpggio/timestudy/internal/domain/timeline"
)

// VirtualPlayer is a headless timeline.Player. It knows each source's
// duration from a hint or a probe and advances its position from a clock
// while playing. It is confined to the session loop.
type VirtualPlayer struct {
	probe   Prober
	timeout time.Duration
	now     func() time.Time
	known   map[string]float64

	path     string
	duration float64
	base     float64
	anchor   time.Time
	playing  bool
	speed    float64
}

// NewVirtualPlayer creates a player. A nil now uses time.Now.
func NewVirtualPlayer(probe Prober, timeout time.Duration, now func() time.Time) *VirtualPlayer {
	if now == nil {
		now = time.Now
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &VirtualPlayer{probe: probe, timeout: timeout, now: now, known: make(map[string]float64), speed: 1}
}

var (
	_ timeline.Player         = (*VirtualPlayer)(nil)
	_ timeline.DurationHinter = (*VirtualPlayer)(nil)
)

// HintDuration records the duration of path so loading it does not probe.
func (p *VirtualPlayer) HintDuration(path string, seconds float64) {
	if seconds > 0 {
		p.known[path] = seconds
	}
}

// LoadSource switches to path at offset zero. The play state carries
// over so playback continues across segment boundaries. Only sources
// without a hinted duration are probed.
func (p *VirtualPlayer) LoadSource(path string) error {
	d, ok := p.known[path]
	if !ok {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		var err error
		d, err = p.probe.Probe(ctx, path)
		if err != nil {
			return fmt.Errorf("%w: %v", timeline.ErrMediaOpen, err)
		}
		p.known[path] = d
	}
	p.path = path
	p.duration = d
	p.base = 0
	p.anchor = p.now()
	return nil
}

// Source returns the loaded path.
func (p *VirtualPlayer) Source() string { return p.path }

func (p *VirtualPlayer) Play() {
	if p.playing {
		return
	}
	p.anchor = p.now()
	p.playing = true
}

func (p *VirtualPlayer) Pause() {
	if !p.playing {
		return
	}
	p.base = p.Position()
	p.playing = false
}

func (p *VirtualPlayer) Seek(local float64) {
	p.base = math.Max(0, math.Min(local, p.duration))
	p.anchor = p.now()
}

// Position is the local offset, frozen at the end of the source.
func (p *VirtualPlayer) Position() float64 {
	if !p.playing {
		return p.base
	}
	elapsed := p.now().Sub(p.anchor).Seconds() * p.speed
	return math.Min(p.base+elapsed, p.duration)
}

func (p *VirtualPlayer) NaturalDuration() float64 { return p.duration }

func (p *VirtualPlayer) SetSpeed(ratio float64) {
	if ratio <= 0 {
		return
	}
	p.base = p.Position()
	p.anchor = p.now()
	p.speed = ratio
}
