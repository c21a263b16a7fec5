package session

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cla7997/edl-timestamps/internal/edl"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 14, 18, 30, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// flakyFs fails every OpenFile while fail is set.
type flakyFs struct {
	afero.Fs
	fail atomic.Bool
}

func (f *flakyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.fail.Load() {
		return nil, errors.New("disk full")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func newTestSession(t *testing.T, fs afero.Fs, clock *fakeClock) (*Session, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	s, err := New(Config{
		Fs:        fs,
		OutputDir: "out",
		Now:       clock.Now,
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, err)
	return s, &logs
}

func readOutput(t *testing.T, fs afero.Fs, s *Session) string {
	t.Helper()
	data, err := afero.ReadFile(fs, s.OutputPath())
	require.NoError(t, err)
	return string(data)
}

var eventLine = regexp.MustCompile(`^(\d{3,})  001      V     C        (\d{2,}:\d{2}:\d{2}:00) (\d{2,}:\d{2}:\d{2}:01) (\d{2,}:\d{2}:\d{2}:00) (\d{2,}:\d{2}:\d{2}:01)$`)

// parseOrdinals checks every marker block is well formed and returns the
// ordinals in file order.
func parseOrdinals(t *testing.T, content string) []uint {
	t.Helper()

	header := edl.FormatHeader("")
	require.True(t, len(content) >= len(header))
	require.Equal(t, header, content[:len(header)])

	lines := strings.Split(content[len(header):], "\n")
	// Trailing split element after the final newline.
	require.Equal(t, "", lines[len(lines)-1])
	lines = lines[:len(lines)-1]
	require.Equal(t, 0, len(lines)%3, "marker blocks must be three lines")

	var ordinals []uint
	for i := 0; i < len(lines); i += 3 {
		m := eventLine.FindStringSubmatch(lines[i])
		require.NotNil(t, m, "bad event line %q", lines[i])
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(" |C:ResolveColorBlue |M:Marker %d |D:1", n), lines[i+1])
		assert.Equal(t, "", lines[i+2])
		ordinals = append(ordinals, uint(n))
	}
	return ordinals
}

func TestNew_WritesHeaderAndIsActive(t *testing.T) {
	fs := afero.NewMemMapFs()
	clock := newFakeClock()
	s, _ := newTestSession(t, fs, clock)

	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, uint(0), s.MarkerCount())
	assert.Equal(t, clock.Now(), s.StartTime())
	assert.Equal(t, filepath.Join("out", "timestamps_2026-10-14_18-30-00.edl"), s.OutputPath())
	assert.Equal(t, edl.FormatHeader(""), readOutput(t, fs, s))
}

func TestNew_HeaderFailure(t *testing.T) {
	fs := &flakyFs{Fs: afero.NewMemMapFs()}
	fs.fail.Store(true)

	s, err := New(Config{Fs: fs, Now: newFakeClock().Now})
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, errors.Is(err, edl.ErrFileCreate))
}

func TestNew_OutputDirFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := New(Config{Fs: fs, OutputDir: "missing", Now: newFakeClock().Now})
	require.Error(t, err)
	assert.True(t, errors.Is(err, edl.ErrFileCreate))
}

func TestAddMarker_EndToEnd(t *testing.T) {
	fs := afero.NewMemMapFs()
	clock := newFakeClock()
	s, _ := newTestSession(t, fs, clock)

	clock.Advance(5 * time.Second)
	m1, err := s.AddMarker()
	require.NoError(t, err)

	clock.Advance(60 * time.Second)
	m2, err := s.AddMarker()
	require.NoError(t, err)

	assert.Equal(t, edl.Marker{Ordinal: 1, In: "00:00:05:00", Out: "00:00:05:01", Duration: 1}, m1)
	assert.Equal(t, edl.Marker{Ordinal: 2, In: "00:01:05:00", Out: "00:01:05:01", Duration: 1}, m2)

	want := edl.FormatHeader("") +
		"001  001      V     C        00:00:05:00 00:00:05:01 00:00:05:00 00:00:05:01\n" +
		" |C:ResolveColorBlue |M:Marker 1 |D:1\n\n" +
		"002  001      V     C        00:01:05:00 00:01:05:01 00:01:05:00 00:01:05:01\n" +
		" |C:ResolveColorBlue |M:Marker 2 |D:1\n\n"
	assert.Equal(t, want, readOutput(t, fs, s))
}

func TestAddMarker_SequentialOrdinals(t *testing.T) {
	fs := afero.NewMemMapFs()
	clock := newFakeClock()
	s, _ := newTestSession(t, fs, clock)

	const n = 25
	for i := 1; i <= n; i++ {
		clock.Advance(time.Duration(i) * 700 * time.Millisecond)
		m, err := s.AddMarker()
		require.NoError(t, err)
		assert.Equal(t, uint(i), m.Ordinal)
	}

	ordinals := parseOrdinals(t, readOutput(t, fs, s))
	require.Len(t, ordinals, n)
	for i, o := range ordinals {
		assert.Equal(t, uint(i+1), o)
	}
	assert.Equal(t, uint(n), s.MarkerCount())
}

func TestAddMarker_SameInstantIsNotDeduplicated(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newTestSession(t, fs, newFakeClock())

	a, err := s.AddMarker()
	require.NoError(t, err)
	b, err := s.AddMarker()
	require.NoError(t, err)

	assert.Equal(t, a.In, b.In)
	assert.Equal(t, []uint{1, 2}, parseOrdinals(t, readOutput(t, fs, s)))
}

func TestAddMarker_Concurrent(t *testing.T) {
	fs := afero.NewMemMapFs()
	clock := newFakeClock()
	s, _ := newTestSession(t, fs, clock)

	const workers = 8
	const perWorker = 40

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				clock.Advance(10 * time.Millisecond)
				_, err := s.AddMarker()
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	ordinals := parseOrdinals(t, readOutput(t, fs, s))
	require.Len(t, ordinals, workers*perWorker)
	for i, o := range ordinals {
		assert.Equal(t, uint(i+1), o, "ordinals must be gapless and in file order")
	}
}

func TestAddMarker_FailureConsumesOrdinal(t *testing.T) {
	fs := &flakyFs{Fs: afero.NewMemMapFs()}
	clock := newFakeClock()
	s, logs := newTestSession(t, fs, clock)

	_, err := s.AddMarker()
	require.NoError(t, err)

	fs.fail.Store(true)
	failed, err := s.AddMarker()
	require.Error(t, err)
	assert.True(t, errors.Is(err, edl.ErrIO))
	assert.Equal(t, uint(2), failed.Ordinal)
	assert.Equal(t, StateActive, s.State(), "a write failure does not end the session")
	assert.Contains(t, logs.String(), "Failed to write marker")

	fs.fail.Store(false)
	m, err := s.AddMarker()
	require.NoError(t, err)
	assert.Equal(t, uint(3), m.Ordinal)
	assert.Equal(t, uint(3), s.MarkerCount())

	assert.Equal(t, []uint{1, 3}, parseOrdinals(t, readOutput(t, fs, s)))

	sum := s.End()
	assert.Equal(t, uint(3), sum.Markers)
	assert.Equal(t, uint(1), sum.Failed)
}

func TestEnd_RejectsFurtherMarkers(t *testing.T) {
	fs := afero.NewMemMapFs()
	clock := newFakeClock()
	s, _ := newTestSession(t, fs, clock)

	_, err := s.AddMarker()
	require.NoError(t, err)

	clock.Advance(90 * time.Second)
	sum := s.End()
	assert.Equal(t, StateEnded, s.State())
	assert.Equal(t, Summary{Markers: 1, OutputPath: s.OutputPath(), Elapsed: 90 * time.Second}, sum)

	before := readOutput(t, fs, s)

	_, err = s.AddMarker()
	assert.ErrorIs(t, err, ErrEnded)
	assert.Equal(t, uint(1), s.MarkerCount())
	assert.Equal(t, before, readOutput(t, fs, s))
}

func TestEnd_Idempotent(t *testing.T) {
	clock := newFakeClock()
	s, _ := newTestSession(t, afero.NewMemMapFs(), clock)

	first := s.End()
	clock.Advance(time.Minute)
	second := s.End()

	assert.Equal(t, first, second)

	select {
	case <-s.Done():
	default:
		t.Fatal("Done should be closed after End")
	}
}

func TestEnd_ConcurrentWithAddMarker(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newTestSession(t, fs, newFakeClock())

	var wg sync.WaitGroup
	var accepted atomic.Int64
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddMarker(); err == nil {
				accepted.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrEnded)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.End()
	}()
	wg.Wait()

	sum := s.End()
	assert.Equal(t, uint(accepted.Load()), sum.Markers)
	assert.Len(t, parseOrdinals(t, readOutput(t, fs, s)), int(accepted.Load()))
}

func TestDone_OpenWhileActive(t *testing.T) {
	s, _ := newTestSession(t, afero.NewMemMapFs(), newFakeClock())

	select {
	case <-s.Done():
		t.Fatal("Done closed before End")
	default:
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "ended", StateEnded.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestColor_Applied(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := New(Config{Fs: fs, Now: newFakeClock().Now, Color: "ResolveColorGreen", Title: "Take 3"})
	require.NoError(t, err)

	_, err = s.AddMarker()
	require.NoError(t, err)

	content := readOutput(t, fs, s)
	assert.Contains(t, content, "TITLE: Take 3\n")
	assert.Contains(t, content, " |C:ResolveColorGreen |M:Marker 1 |D:1\n")
}
