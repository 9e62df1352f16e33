package pulse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"
)

// ErrUnsupported is returned by Open for unknown file extensions.
var ErrUnsupported = errors.New("unsupported audio file")

// Extensions lists the file patterns Open understands.
var Extensions = []string{"*.wav", "*.mp3", "*.flac"}

// Track is a decoded audio file.
type Track struct {
	Path     string
	Streamer beep.StreamSeekCloser
	Format   beep.Format
	file     *os.File
}

// Duration is the track length.
func (t *Track) Duration() time.Duration {
	return t.Format.SampleRate.D(t.Streamer.Len())
}

// Close releases the decoder and the file. Decoders may close the file
// themselves.
func (t *Track) Close() error {
	err := t.Streamer.Close()
	if ferr := t.file.Close(); ferr != nil && !errors.Is(ferr, os.ErrClosed) {
		err = errors.Join(err, ferr)
	}
	return err
}

// Open decodes a wav, mp3 or flac file, chosen by extension.
func Open(path string) (*Track, error) {
	var decode func(*os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".mp3":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	case ".flac":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &Track{Path: path, Streamer: streamer, Format: format, file: f}, nil
}

// Player plays one track at a time through the speaker and exposes its tap.
// Methods are called from the host loop; the end-of-track callback arrives
// on the speaker goroutine.
type Player struct {
	log *zap.Logger

	mu         sync.Mutex
	track      *Track
	tap        *Tap
	ctrl       *beep.Ctrl
	sampleRate beep.SampleRate
	ready      bool
}

func NewPlayer(log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{log: log}
}

// Play stops the current track and starts path.
func (p *Player) Play(path string) error {
	track, err := Open(path)
	if err != nil {
		return err
	}
	p.Stop()

	rate := track.Format.SampleRate
	if !p.ready || rate != p.sampleRate {
		if err := speaker.Init(rate, rate.N(time.Second/20)); err != nil {
			_ = track.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		p.ready = true
		p.sampleRate = rate
	}

	tap := NewTap(track.Streamer, RingSize)
	ctrl := &beep.Ctrl{Streamer: tap}

	p.mu.Lock()
	p.track, p.tap, p.ctrl = track, tap, ctrl
	p.mu.Unlock()

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() { p.finished(track) })))
	p.log.Info("audio playing",
		zap.String("path", path),
		zap.Int("sample_rate", int(rate)),
		zap.Duration("duration", track.Duration()))
	return nil
}

func (p *Player) finished(track *Track) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.track != track {
		return
	}
	_ = track.Close()
	p.track, p.ctrl = nil, nil
	p.log.Info("audio finished", zap.String("path", track.Path))
}

// TogglePause pauses or resumes; it reports the new paused state.
func (p *Player) TogglePause() bool {
	p.mu.Lock()
	ctrl := p.ctrl
	p.mu.Unlock()
	if ctrl == nil {
		return false
	}
	speaker.Lock()
	ctrl.Paused = !ctrl.Paused
	paused := ctrl.Paused
	speaker.Unlock()
	return paused
}

// Stop halts playback and closes the track.
func (p *Player) Stop() {
	if p.ready {
		speaker.Clear()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.track != nil {
		_ = p.track.Close()
	}
	p.track, p.ctrl, p.tap = nil, nil, nil
}

// Level is the loudness of the last n frames; 0 when nothing plays.
func (p *Player) Level(n int) float64 {
	p.mu.Lock()
	tap := p.tap
	p.mu.Unlock()
	if tap == nil {
		return 0
	}
	return tap.Level(n)
}

// Status describes the current track as "name mm:ss/mm:ss", or "" when idle.
func (p *Player) Status() string {
	p.mu.Lock()
	track, ctrl := p.track, p.ctrl
	p.mu.Unlock()
	if track == nil || ctrl == nil {
		return ""
	}
	// the speaker lock is never taken while holding p.mu
	speaker.Lock()
	pos := track.Format.SampleRate.D(track.Streamer.Position())
	paused := ctrl.Paused
	speaker.Unlock()

	s := fmt.Sprintf("%s %s/%s", filepath.Base(track.Path), FormatDuration(pos), FormatDuration(track.Duration()))
	if paused {
		s += " (paused)"
	}
	return s
}

// FormatDuration formats d as MM:SS.
func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
