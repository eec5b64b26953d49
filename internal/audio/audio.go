// Package audio plays a song's music, resampled for the playback rate.
package audio

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

var ErrFormat = errors.New("unsupported audio format")

type Track struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
}

func decoder(path string) (func(f *os.File) (beep.StreamSeekCloser, beep.Format, error), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }, nil
	case ".ogg":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) }, nil
	case ".wav":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }, nil
	}
	return nil, errors.Wrap(ErrFormat, path)
}

func Open(path string) (*Track, error) {
	decode, err := decoder(path)
	if nil != err {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	streamer, format, err := decode(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "unable to decode %v", path)
	}
	return &Track{streamer: streamer, format: format}, nil
}

// SampleRate is the rate the speaker runs at so the track plays rate times
// faster.
func SampleRate(format beep.Format, rate float64) beep.SampleRate {
	return beep.SampleRate(math.Round(float64(format.SampleRate) * rate))
}

// Play starts the speaker and the track after delay.
func (t *Track) Play(rate float64, delay time.Duration) error {
	if err := speaker.Init(SampleRate(t.format, rate), t.format.SampleRate.N(time.Second/60)); nil != err {
		return errors.Wrap(err, "unable to initialise speaker")
	}
	go func() {
		time.Sleep(delay)
		speaker.Play(t.streamer)
	}()
	return nil
}

func (t *Track) Length() time.Duration {
	return t.format.SampleRate.D(t.streamer.Len())
}

func (t *Track) Close() error {
	speaker.Lock()
	defer speaker.Unlock()
	return t.streamer.Close()
}
