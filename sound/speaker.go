package sound

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/plus3/dragonbubbles/round"
)

// Volumes are the player's mix settings.
type Volumes struct {
	Music float64
	Sound float64
	Mute  bool
}

// Speaker plays synthesized cues on the default output device through one
// beep.Mixer. It implements round.Feedback.
type Speaker struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	music   *beep.Ctrl
	volumes Volumes
	rate    beep.SampleRate

	lock, unlock func()
}

// NewSpeaker opens the default device and starts the mixer.
func NewSpeaker(v Volumes) (*Speaker, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return nil, err
	}
	s := newSpeaker(v, speaker.Lock, speaker.Unlock)
	speaker.Play(s.mixer)
	log.Printf("[sound] speaker ready at %d Hz", SampleRate)
	return s, nil
}

func newSpeaker(v Volumes, lock, unlock func()) *Speaker {
	return &Speaker{
		mixer:   &beep.Mixer{},
		volumes: v,
		rate:    SampleRate,
		lock:    lock,
		unlock:  unlock,
	}
}

// Cue queues the sound for a cue. It never blocks on playback.
func (s *Speaker) Cue(c round.Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c {
	case round.CueMusic:
		if s.music != nil {
			return
		}
		s.music = &beep.Ctrl{Streamer: Gain(Music(s.rate), s.volumes.Music), Paused: s.volumes.Mute}
		s.add(s.music)
	case round.CueRoundEnd:
		s.stopMusic()
		s.playEffect(Fanfare(s.rate))
	default:
		if st := Synth(c, s.rate); st != nil {
			s.playEffect(st)
		}
	}
}

func (s *Speaker) playEffect(st beep.Streamer) {
	if s.volumes.Mute {
		return
	}
	s.add(Gain(st, s.volumes.Sound))
}

func (s *Speaker) add(st beep.Streamer) {
	s.lock()
	s.mixer.Add(st)
	s.unlock()
}

func (s *Speaker) stopMusic() {
	if s.music == nil {
		return
	}
	s.lock()
	s.music.Streamer = nil
	s.unlock()
	s.music = nil
}

// SetMute mutes or unmutes everything, including the running music.
func (s *Speaker) SetMute(mute bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes.Mute = mute
	if s.music != nil {
		s.lock()
		s.music.Paused = mute
		s.unlock()
	}
}

// Muted reports the mute flag.
func (s *Speaker) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volumes.Mute
}

// Reset stops every sound, ready for a new round.
func (s *Speaker) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lock()
	s.mixer.Clear()
	s.unlock()
	s.music = nil
}

// Playing returns the number of streams in the mixer.
func (s *Speaker) Playing() int {
	s.lock()
	defer s.unlock()
	return s.mixer.Len()
}
