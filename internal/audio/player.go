// Package audio synthesizes the game's sound events and background drone
// with beep. A Player that cannot open the speaker stays silent.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/ecuations-d/internal/config"
)

const sampleRate = beep.SampleRate(44100)

// Player plays named events through a shared mixer.
type Player struct {
	mu          sync.Mutex
	cfg         config.AudioConfig
	logger      *log.Logger
	mixer       *beep.Mixer
	music       *beep.Ctrl
	initialized bool
	last        map[string]time.Time
	now         func() time.Time
	played      int
}

// NewPlayer creates a silent player. Call Init to open the speaker.
func NewPlayer(cfg config.AudioConfig, logger *log.Logger) *Player {
	return &Player{
		cfg:    cfg,
		logger: logger,
		mixer:  &beep.Mixer{},
		last:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Init opens the speaker when audio is enabled. On failure the player stays
// silent and the error is returned for logging.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.cfg.Enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	if p.logger != nil {
		p.logger.Debug("audio ready", "rate", int(sampleRate))
	}
	return nil
}

// Play starts the named event unless it played too recently.
func (p *Player) Play(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := events[name]
	if !ok || !p.allow(name, e.throttle) {
		return
	}
	p.played++
	if !p.initialized {
		return
	}
	p.add(volume(eventStreamer(e, sampleRate), p.cfg.Volume))
}

// allow records a play of name when more than minGap has passed since the last one.
func (p *Player) allow(name string, minGap time.Duration) bool {
	if minGap <= 0 {
		minGap = defaultThrottle
	}
	now := p.now()
	if last, ok := p.last[name]; ok && now.Sub(last) <= minGap {
		return false
	}
	p.last[name] = now
	return true
}

// SetMusic starts or stops the background drone.
func (p *Player) SetMusic(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	if !on {
		if p.music != nil {
			speaker.Lock()
			p.music.Paused = true
			speaker.Unlock()
			p.music = nil
		}
		return
	}
	if p.music != nil {
		return
	}
	drone := newOscillator(p.cfg.MusicFrequency, 0, WaveSine, sampleRate)
	p.music = &beep.Ctrl{Streamer: volume(drone, p.cfg.MusicVolume)}
	p.add(p.music)
}

// Close stops everything that is playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	if p.music != nil {
		p.music.Paused = true
	}
	p.mixer.Clear()
	speaker.Unlock()
	p.music = nil
	p.initialized = false
}

// Played reports how many events passed the throttle.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

func (p *Player) add(s beep.Streamer) {
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// volume scales s linearly; zero or less mutes it.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}
