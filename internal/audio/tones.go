package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Wave selects an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveTriangle
)

// tone is one oscillator burst, optionally delayed from the start of its event.
type tone struct {
	freq  float64
	dur   time.Duration
	wave  Wave
	delay time.Duration
}

// event is a named sound and the minimum gap between two plays of it.
type event struct {
	tones    []tone
	throttle time.Duration
}

var events = map[string]event{
	"jump":    {tones: []tone{{freq: 800, dur: 100 * time.Millisecond}}, throttle: 200 * time.Millisecond},
	"collect": {tones: []tone{{freq: 1200, dur: 200 * time.Millisecond, wave: WaveTriangle}}, throttle: 50 * time.Millisecond},
	"damage":  {tones: []tone{{freq: 200, dur: 500 * time.Millisecond, wave: WaveSaw}}, throttle: 500 * time.Millisecond},
	"enemy":   {tones: []tone{{freq: 300, dur: 400 * time.Millisecond, wave: WaveSquare}}, throttle: 120 * time.Millisecond},
	"shoot":   {tones: []tone{{freq: 1000, dur: 100 * time.Millisecond, wave: WaveSquare}}, throttle: 80 * time.Millisecond},
	"complete": {
		tones: []tone{
			{freq: 523, dur: 200 * time.Millisecond},
			{freq: 659, dur: 200 * time.Millisecond, delay: 100 * time.Millisecond},
			{freq: 784, dur: 300 * time.Millisecond, delay: 200 * time.Millisecond},
		},
		throttle: 200 * time.Millisecond,
	},
	"powerUp": {
		tones: []tone{
			{freq: 400, dur: 100 * time.Millisecond},
			{freq: 500, dur: 100 * time.Millisecond, delay: 50 * time.Millisecond},
			{freq: 600, dur: 100 * time.Millisecond, delay: 100 * time.Millisecond},
			{freq: 700, dur: 200 * time.Millisecond, delay: 150 * time.Millisecond},
		},
		throttle: time.Second,
	},
}

const defaultThrottle = 100 * time.Millisecond

// oscillator generates a raw wave. A non-positive length runs forever.
type oscillator struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     Wave
	rate     beep.SampleRate
}

func newOscillator(freq float64, dur time.Duration, wave Wave, rate beep.SampleRate) *oscillator {
	length := 0
	if dur > 0 {
		length = rate.N(dur)
	}
	return &oscillator{freq: freq, length: length, wave: wave, rate: rate}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.length > 0 && o.position >= o.length {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveTriangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay fades a stream exponentially from peak to peak*floor over its length.
type decay struct {
	streamer beep.Streamer
	length   int
	position int
	peak     float64
	floor    float64
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		progress := float64(d.position) / float64(d.length)
		if progress > 1 {
			progress = 1
		}
		gain := d.peak * math.Pow(d.floor, progress)
		samples[i][0] *= gain
		samples[i][1] *= gain
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// toneStreamer renders one tone: leading silence, then a decaying burst.
func toneStreamer(t tone, rate beep.SampleRate) beep.Streamer {
	burst := &decay{
		streamer: newOscillator(t.freq, t.dur, t.wave, rate),
		length:   rate.N(t.dur),
		peak:     0.2,
		floor:    0.05,
	}
	if t.delay <= 0 {
		return burst
	}
	return beep.Seq(beep.Silence(rate.N(t.delay)), burst)
}

// eventStreamer mixes every tone of an event.
func eventStreamer(e event, rate beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(e.tones))
	for _, t := range e.tones {
		parts = append(parts, toneStreamer(t, rate))
	}
	return beep.Mix(parts...)
}
