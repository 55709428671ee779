package sound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"

	"github.com/plus3/dragonbubbles/round"
)

// Asset base names per cue. Each may be an .mp3 or .ogg file.
var assetNames = map[round.Cue]string{
	round.CuePenalty:  "Crunch",
	round.CueReward:   "Collect",
	round.CueMusic:    "bgm",
	round.CueRoundEnd: "end",
}

// musicLoopLength is how much synthesized music is rendered for the loop
// when no bgm asset exists.
const musicLoopLength = 8 * time.Second

// Ebiten plays cues through an ebiten audio context. Clips come from asset
// files when present and are synthesized otherwise.
type Ebiten struct {
	ctx     *audio.Context
	clips   map[round.Cue][]byte
	music   *audio.Player
	volumes Volumes
}

// NewEbiten prepares every clip up front so Cue only starts players. dir
// may be empty.
func NewEbiten(ctx *audio.Context, dir string, v Volumes) (*Ebiten, error) {
	e := &Ebiten{
		ctx:     ctx,
		clips:   make(map[round.Cue][]byte, len(assetNames)),
		volumes: v,
	}

	for cue, name := range assetNames {
		clip, err := loadAsset(dir, name, ctx.SampleRate())
		switch {
		case err == nil:
			e.clips[cue] = clip
			continue
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}

		limit := 0
		if cue == round.CueMusic {
			limit = SampleRate.N(musicLoopLength)
		}
		e.clips[cue] = RenderPCM(Synth(cue, SampleRate), limit)
	}
	return e, nil
}

// loadAsset decodes dir/name.mp3 or dir/name.ogg to PCM.
func loadAsset(dir, name string, rate int) ([]byte, error) {
	if dir == "" {
		return nil, os.ErrNotExist
	}
	for _, ext := range []string{".mp3", ".ogg"} {
		path := filepath.Join(dir, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var stream io.Reader
		if strings.HasSuffix(ext, "mp3") {
			stream, err = mp3.DecodeWithSampleRate(rate, bytes.NewReader(data))
		} else {
			stream, err = vorbis.DecodeWithSampleRate(rate, bytes.NewReader(data))
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		pcm, err := io.ReadAll(stream)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		log.Printf("[sound] loaded %s", path)
		return pcm, nil
	}
	return nil, os.ErrNotExist
}

func (e *Ebiten) Cue(c round.Cue) {
	switch c {
	case round.CueMusic:
		if e.music != nil {
			return
		}
		clip := e.clips[c]
		loop := audio.NewInfiniteLoop(bytes.NewReader(clip), int64(len(clip)))
		player, err := e.ctx.NewPlayer(loop)
		if err != nil {
			log.Printf("[sound] music: %v", err)
			return
		}
		e.music = player
		e.applyMusicVolume()
		player.Play()
	case round.CueRoundEnd:
		e.stopMusic()
		e.play(c)
	default:
		e.play(c)
	}
}

func (e *Ebiten) play(c round.Cue) {
	if e.volumes.Mute {
		return
	}
	player := e.ctx.NewPlayerFromBytes(e.clips[c])
	player.SetVolume(e.volumes.Sound)
	player.Play()
}

func (e *Ebiten) stopMusic() {
	if e.music == nil {
		return
	}
	e.music.Pause()
	_ = e.music.Close()
	e.music = nil
}

func (e *Ebiten) applyMusicVolume() {
	if e.music == nil {
		return
	}
	if e.volumes.Mute {
		e.music.SetVolume(0)
		return
	}
	e.music.SetVolume(e.volumes.Music)
}

// SetMute toggles every sound.
func (e *Ebiten) SetMute(mute bool) {
	e.volumes.Mute = mute
	e.applyMusicVolume()
}

// Muted reports the mute flag.
func (e *Ebiten) Muted() bool {
	return e.volumes.Mute
}

// Reset stops the music so a new round can start it again.
func (e *Ebiten) Reset() {
	e.stopMusic()
}
