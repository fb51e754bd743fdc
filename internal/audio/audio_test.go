package audio

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/eventloop"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

type fakeSink struct {
	mu      sync.Mutex
	inits   int
	rate    beep.SampleRate
	plays   int
	closed  bool
	initErr error
}

func (s *fakeSink) Init(sr beep.SampleRate, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initErr != nil {
		return s.initErr
	}
	s.inits++
	s.rate = sr
	return nil
}

func (s *fakeSink) Play(beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
}

func (s *fakeSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSink) playCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plays
}

// writeWAV writes a short silent WAV file.
func writeWAV(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	format := beep.Format{SampleRate: 22050, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(2205), format))
	require.NoError(t, f.Close())
	return path
}

func TestPlayer_PlayDecodesOnceAndCaches(t *testing.T) {
	sink := &fakeSink{}
	p := NewPlayerWithSink(sink, nil)
	path := writeWAV(t, t.TempDir(), "ding.wav")

	require.NoError(t, p.Play(path))
	require.NoError(t, p.Play(path))

	assert.True(t, p.Cached(path))
	assert.Equal(t, 1, sink.inits, "the sink is opened once")
	assert.Equal(t, beep.SampleRate(22050), sink.rate)
	assert.Equal(t, 2, sink.playCount())

	p.Invalidate(path)
	assert.False(t, p.Cached(path))

	p.Close()
	assert.True(t, sink.closed)
}

func TestPlayer_Errors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	garbage := filepath.Join(dir, "broken.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("not a wav"), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "unsupported", path: txt, wantErr: "unsupported audio format"},
		{name: "missing", path: filepath.Join(dir, "missing.ogg"), wantErr: "failed to open sound file"},
		{name: "corrupt", path: garbage, wantErr: "failed to decode sound"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{}
			p := NewPlayerWithSink(sink, nil)
			err := p.Play(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Zero(t, sink.playCount())
		})
	}

	var ufe *UnsupportedFormatError
	assert.True(t, errors.As(NewPlayerWithSink(&fakeSink{}, nil).Play(txt), &ufe))
	assert.Equal(t, ".txt", ufe.Ext)
}

func TestPlayer_EmptyPathIsNoop(t *testing.T) {
	sink := &fakeSink{}
	p := NewPlayerWithSink(sink, nil)
	assert.NoError(t, p.Play(""))
	assert.NoError(t, p.Preload(""))
	assert.Zero(t, sink.playCount())
}

func TestPlayer_SinkInitFailure(t *testing.T) {
	sink := &fakeSink{initErr: errors.New("no device")}
	p := NewPlayerWithSink(sink, nil)
	err := p.Play(writeWAV(t, t.TempDir(), "a.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize speaker")
}

func TestPlayer_Volume(t *testing.T) {
	p := NewPlayerWithSink(&fakeSink{}, nil)
	assert.Equal(t, 1.0, p.Volume())

	p.SetVolume(1.5)
	assert.Equal(t, 1.0, p.Volume())
	p.SetVolume(-1)
	assert.Equal(t, 0.0, p.Volume())
	p.SetVolume(0.5)
	assert.Equal(t, 0.5, p.Volume())

	assert.InDelta(t, -1.0, volumeToExponent(0.5), 1e-9)
	assert.InDelta(t, -2.0, volumeToExponent(0.25), 1e-9)
	assert.Equal(t, -10.0, volumeToExponent(0))
}

func newAudioConfig(t *testing.T, enabled bool) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Audio.Enabled = enabled
	cfg.Audio.Volume = 50
	cfg.Audio.Sounds["error"] = writeWAV(t, dir, "error.wav")
	cfg.Audio.Sounds["success"] = filepath.Join(dir, "missing.wav")
	return cfg, dir
}

func TestManager_PlayForKind(t *testing.T) {
	cfg, _ := newAudioConfig(t, true)
	sink := &fakeSink{}
	m := NewManagerWithPlayer(cfg, NewPlayerWithSink(sink, nil), nil)
	defer m.Stop()

	assert.NotEmpty(t, m.SoundFor(model.KindError))
	assert.Empty(t, m.SoundFor(model.KindSuccess), "missing files are skipped")
	assert.Equal(t, 0.5, m.player.Volume())

	require.NoError(t, m.PlayForKind(model.KindError))
	require.NoError(t, m.PlayForKind(model.KindSuccess))
	require.NoError(t, m.PlayForKind(model.KindInfo))
	assert.Equal(t, 1, sink.playCount())
}

func TestManager_Disabled(t *testing.T) {
	cfg, _ := newAudioConfig(t, false)
	sink := &fakeSink{}
	m := NewManagerWithPlayer(cfg, NewPlayerWithSink(sink, nil), nil)
	defer m.Stop()

	require.NoError(t, m.PlayForKind(model.KindError))
	assert.Zero(t, sink.playCount())
}

func TestManager_ObservesToasts(t *testing.T) {
	cfg, _ := newAudioConfig(t, true)
	sink := &fakeSink{}
	am := NewManagerWithPlayer(cfg, NewPlayerWithSink(sink, nil), nil)
	defer am.Stop()
	require.NoError(t, am.Start(t.Context()))
	assert.True(t, am.player.Cached(am.SoundFor(model.KindError)), "Start preloads sounds")

	sched := eventloop.NewManual(time.Unix(0, 0))
	tm := toast.NewManager(dom.NewDocument(), sched, toast.DefaultOptions(), nil)
	tm.AddObserver(am)

	tm.Notify("error", "boom")
	tm.Notify("info", "hello")
	assert.Equal(t, 1, sink.playCount(), "only kinds with a sound play")
}

func TestManager_UpdateConfig(t *testing.T) {
	cfg, dir := newAudioConfig(t, true)
	sink := &fakeSink{}
	m := NewManagerWithPlayer(cfg, NewPlayerWithSink(sink, nil), nil)
	defer m.Stop()

	next := config.DefaultConfig()
	next.Audio.Enabled = true
	next.Audio.Volume = 100
	next.Audio.Sounds["warning"] = writeWAV(t, dir, "warning.wav")
	m.UpdateConfig(next)

	assert.Empty(t, m.SoundFor(model.KindError))
	assert.NotEmpty(t, m.SoundFor(model.KindWarning))
	assert.True(t, m.watcher.Watching(m.SoundFor(model.KindWarning)))
	assert.Equal(t, 1.0, m.player.Volume())
}

func TestWatcher_InvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeWAV(t, dir, "ding.wav")
	p := NewPlayerWithSink(&fakeSink{}, nil)
	require.NoError(t, p.Preload(path))

	w := NewWatcher(p, nil)
	require.NoError(t, w.Watch(path))
	require.NoError(t, w.Start(t.Context()))
	defer w.Stop()
	assert.True(t, w.IsRunning())

	writeWAV(t, dir, "ding.wav")

	assert.Eventually(t, func() bool { return !p.Cached(path) }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(nil, nil)
	require.NoError(t, w.Start(t.Context()))
	w.Stop()
	w.Stop()
	assert.False(t, w.IsRunning())
	assert.NoError(t, w.Watch(filepath.Join(t.TempDir(), "x.wav")), "watching after stop is a no-op")
}
