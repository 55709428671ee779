// Package sound turns round cues into audio, either synthesized with beep
// or loaded from asset files.
package sound

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/plus3/dragonbubbles/round"
)

// SampleRate is used for every generated and decoded stream.
const SampleRate = beep.SampleRate(44100)

// Wave is an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Triangle
	Noise
)

type tone struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     Wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

// Tone returns a finite oscillator.
func Tone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:   freq,
		length: rate.N(d),
		wave:   wave,
		rate:   rate,
		rng:    rand.New(rand.NewPCG(uint64(freq*1000), uint64(d))),
	}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if t.position >= t.length {
			return i, i > 0
		}

		var v float64
		switch t.wave {
		case Sine:
			v = math.Sin(2 * math.Pi * t.phase)
		case Square:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case Triangle:
			v = 4*math.Abs(t.phase-0.5) - 1
		case Noise:
			v = t.rng.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// decay shapes a stream with a linear attack and an exponential tail.
type decay struct {
	s        beep.Streamer
	attack   int
	falloff  float64
	position int
}

// Decay applies a short attack ramp and an exponential decay with the given
// time constant.
func Decay(s beep.Streamer, attack, tau time.Duration, rate beep.SampleRate) beep.Streamer {
	return &decay{
		s:       s,
		attack:  rate.N(attack),
		falloff: 1 / (tau.Seconds() * float64(rate)),
	}
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.s.Stream(samples)
	for i := 0; i < n; i++ {
		gain := math.Exp(-float64(d.position) * d.falloff)
		if d.position < d.attack {
			gain *= float64(d.position) / float64(d.attack)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.s.Err() }

// Gain scales a stream by a linear factor in [0,1]; zero silences it.
func Gain(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// Crunch is the penalty sound: a filtered noise burst over a low thud.
func Crunch(rate beep.SampleRate) beep.Streamer {
	d := 180 * time.Millisecond
	return beep.Take(rate.N(d), beep.Mix(
		Gain(Decay(Tone(0, d, Noise, rate), 2*time.Millisecond, 40*time.Millisecond, rate), 0.5),
		Gain(Decay(Tone(90, d, Sine, rate), 2*time.Millisecond, 60*time.Millisecond, rate), 0.6),
	))
}

// Chime is the reward sound: two rising bell notes.
func Chime(rate beep.SampleRate) beep.Streamer {
	note := func(freq float64) beep.Streamer {
		d := 140 * time.Millisecond
		return beep.Take(rate.N(d), beep.Mix(
			Gain(Decay(Tone(freq, d, Sine, rate), 3*time.Millisecond, 80*time.Millisecond, rate), 0.6),
			Gain(Decay(Tone(freq*2, d, Sine, rate), 3*time.Millisecond, 40*time.Millisecond, rate), 0.2),
		))
	}
	return beep.Seq(note(1046.5), note(1568.0))
}

// Fanfare is the end-of-round jingle.
func Fanfare(rate beep.SampleRate) beep.Streamer {
	notes := []float64{523.25, 659.25, 783.99, 1046.5}
	parts := make([]beep.Streamer, 0, len(notes))
	for i, freq := range notes {
		d := 160 * time.Millisecond
		if i == len(notes)-1 {
			d = 600 * time.Millisecond
		}
		parts = append(parts, Gain(Decay(Tone(freq, d, Triangle, rate), 5*time.Millisecond, d/2, rate), 0.7))
	}
	return beep.Seq(parts...)
}

// pentatonic is the melody the music generator walks through.
var pentatonic = []float64{392.0, 440.0, 523.25, 587.33, 659.25, 587.33, 523.25, 440.0}

type music struct {
	rate     beep.SampleRate
	beat     int
	position int
}

// Music returns an endless background loop: a plucked pentatonic line over
// a soft bass, one note per beat at 120 BPM.
func Music(rate beep.SampleRate) beep.Streamer {
	return &music{rate: rate, beat: rate.N(500 * time.Millisecond)}
}

func (m *music) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		step := m.position / m.beat
		inBeat := float64(m.position%m.beat) / float64(m.rate)
		t := float64(m.position) / float64(m.rate)

		lead := pentatonic[step%len(pentatonic)]
		bass := pentatonic[(step/4*4)%len(pentatonic)] / 4

		v := 0.25 * math.Exp(-inBeat*6) * math.Sin(2*math.Pi*lead*t)
		v += 0.12 * math.Sin(2*math.Pi*bass*t)
		samples[i][0], samples[i][1] = v, v
		m.position++
	}
	return len(samples), true
}

func (m *music) Err() error { return nil }

// Synth returns the generated streamer for a cue.
func Synth(cue round.Cue, rate beep.SampleRate) beep.Streamer {
	switch cue {
	case round.CueMusic:
		return Music(rate)
	case round.CuePenalty:
		return Crunch(rate)
	case round.CueReward:
		return Chime(rate)
	case round.CueRoundEnd:
		return Fanfare(rate)
	}
	return nil
}
