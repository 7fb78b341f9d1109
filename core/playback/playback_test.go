package playback_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/playback"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
	inmemdb "github.com/Powerhouse0784/Coaching-sub000/storage/database/inmem"
	testutil "github.com/Powerhouse0784/Coaching-sub000/tests"
)

var t0 = time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t0.Add(d)
	return c.now
}

type recordingWriter struct {
	mu    sync.Mutex
	syncs []progress.Update
	views int
	err   error
	fails int // number of syncs failing before the writer recovers
}

func (w *recordingWriter) Sync(_ context.Context, _ string, upd progress.Update) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	if w.fails > 0 {
		w.fails--
		return errors.New("connection reset")
	}
	w.syncs = append(w.syncs, upd)
	return nil
}

func (w *recordingWriter) RecordView(context.Context, string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.views++
	return w.err
}

func newPlayer(w playback.Writer, onSynced func(playback.Sample)) (*playback.Player, *playback.Channel, *fakeClock) {
	logger, _ := testutil.NewLogger()
	clock := &fakeClock{now: t0}
	ch := playback.NewChannel(w, time.Second, logger, onSynced)
	return playback.NewPlayer("v1", ch, 30*time.Second, clock.Now), ch, clock
}

// play feeds one timeupdate and one tick per second of continuous playback, media position following wall time.
func play(p *playback.Player, clock *fakeClock, from, to int, duration float64) {
	for i := from; i <= to; i++ {
		now := clock.Set(time.Duration(i) * time.Second)
		p.OnTimeUpdate(float64(i), duration)
		p.Tick(now)
	}
}

func TestPlayer_PeriodicAndCloseSync(t *testing.T) {
	w := new(recordingWriter)
	p, ch, clock := newPlayer(w, nil)

	p.OnPlay()
	play(p, clock, 1, 55, 120)
	p.Close()
	ch.Wait()

	assert.ElementsMatch(t, []progress.Update{
		{WatchedPercentage: 25, WatchedSeconds: 30},
		{WatchedPercentage: 46, WatchedSeconds: 55},
	}, w.syncs)
	assert.Equal(t, 1, w.views)
	assert.Equal(t, playback.Ended, p.Session().State)
	assert.Equal(t, t0.Add(55*time.Second), p.Session().LastSyncedAt)

	// closed: events are ignored
	p.OnPlay()
	p.Tick(clock.Set(2 * time.Minute))
	p.Close()
	ch.Wait()
	assert.Len(t, w.syncs, 2)
}

func TestPlayer_CompletionThroughStore(t *testing.T) {
	db := inmemdb.Open()
	cat := inmemdb.NewCatalogRepository(db)
	folder := testutil.CreateFolder(cat, "f1", "Physics", 120)
	logger, _ := testutil.NewLogger()
	svc := progress.NewService(inmemdb.NewProgressRepository(db), cat, logger)
	usr := core.Identity{ID: "u1"}

	var synced int
	var mu sync.Mutex
	ch := playback.NewChannel(playback.ServiceWriter{Service: svc, User: usr}, time.Second, logger, func(playback.Sample) {
		mu.Lock()
		synced++
		mu.Unlock()
	})
	clock := &fakeClock{now: t0}
	p := playback.NewPlayer(folder.Videos[0].ID, ch, 30*time.Second, clock.Now)

	p.OnPlay()
	clock.Set(10 * time.Second)
	p.OnTimeUpdate(114, 120) // seeked to 95%
	assert.True(t, p.Session().Sample().Completed)

	now := clock.Set(30 * time.Second)
	p.OnTimeUpdate(114, 120)
	p.Tick(now)
	ch.Wait()

	rec, err := svc.Get(context.Background(), usr.ID, folder.Videos[0].ID)
	require.NoError(t, err)
	assert.True(t, rec.Completed)
	assert.Equal(t, float64(95), rec.WatchedPercentage)
	require.NotNil(t, rec.CompletedAt)
	completedAt := *rec.CompletedAt

	play(p, clock, 31, 60, 120)
	ch.Wait()
	p.OnEnded()
	ch.Wait()
	p.Close()
	ch.Wait()

	rec, err = svc.Get(context.Background(), usr.ID, folder.Videos[0].ID)
	require.NoError(t, err)
	assert.True(t, rec.Completed)
	assert.Equal(t, completedAt, *rec.CompletedAt)
	assert.Equal(t, 1, rec.ViewCount)
	assert.Equal(t, 2, synced) // ticks at 30 and 60; end and close repeat the last sample
}

func TestPlayer_PauseResumeResetsElapsed(t *testing.T) {
	w := new(recordingWriter)
	p, ch, clock := newPlayer(w, nil)

	p.OnPlay()
	clock.Set(20 * time.Second)
	p.OnTimeUpdate(20, 120)
	assert.Equal(t, 20, p.Session().ElapsedSeconds)

	clock.Set(25 * time.Second)
	p.OnPause()
	clock.Set(26 * time.Second)
	p.OnTimeUpdate(26, 120) // not playing: ignored
	assert.Equal(t, 20, p.Session().ElapsedSeconds)
	assert.Equal(t, playback.Paused, p.Session().State)

	// no periodic sync while paused
	p.Tick(clock.Set(35 * time.Second))
	ch.Wait()
	assert.Empty(t, w.syncs)

	clock.Set(40 * time.Second)
	p.OnPlay()
	clock.Set(45 * time.Second)
	p.OnTimeUpdate(25, 120)
	assert.Equal(t, 5, p.Session().ElapsedSeconds)

	// the periodic sync is anchored at the new segment start
	p.Tick(clock.Set(69 * time.Second))
	ch.Wait()
	assert.Empty(t, w.syncs)

	p.Close()
	ch.Wait()
	assert.Equal(t, []progress.Update{{WatchedPercentage: 21, WatchedSeconds: 5}}, w.syncs)
	assert.Zero(t, w.views)
}

func TestPlayer_UnknownDuration(t *testing.T) {
	w := new(recordingWriter)
	p, ch, clock := newPlayer(w, nil)

	p.OnPlay()
	play(p, clock, 1, 40, math.NaN())
	assert.False(t, p.Session().Sample().PercentageKnown)

	p.Close()
	ch.Wait()
	assert.Empty(t, w.syncs)
}

func TestChannel_FailedSync(t *testing.T) {
	logger, hook := testutil.NewLogger()
	w := &recordingWriter{err: errors.New("connection refused")}
	var synced bool
	ch := playback.NewChannel(w, time.Second, logger, func(playback.Sample) { synced = true })

	sent := ch.Send(playback.Sample{VideoID: "v1", WatchedPercentage: 10, WatchedSeconds: 12, PercentageKnown: true})
	ch.Wait()

	assert.True(t, sent)
	assert.False(t, synced)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "connection refused")
	assert.Len(t, hook.AllEntries(), 1) // not retried

	assert.False(t, ch.Send(playback.Sample{VideoID: "v1"}))
}

func TestPlayer_CloseRetriesFailedSync(t *testing.T) {
	w := &recordingWriter{fails: 1}
	p, ch, clock := newPlayer(w, nil)

	p.OnPlay()
	clock.Set(10 * time.Second)
	p.OnTimeUpdate(120, 120)
	p.OnEnded()
	ch.Wait()
	assert.Empty(t, w.syncs)

	p.Close()
	ch.Wait()
	assert.Equal(t, []progress.Update{{WatchedPercentage: 100, WatchedSeconds: 10, Completed: true}}, w.syncs)
}

func TestPlayer_Replay(t *testing.T) {
	w := new(recordingWriter)
	p, ch, clock := newPlayer(w, nil)

	p.OnPlay()
	clock.Set(10 * time.Second)
	p.OnTimeUpdate(120, 120)
	p.OnEnded()
	ch.Wait()
	assert.Equal(t, playback.Ended, p.Session().State)

	clock.Set(20 * time.Second)
	p.OnPlay()
	assert.Equal(t, playback.Playing, p.Session().State)
	assert.Equal(t, 0, p.Session().ElapsedSeconds)

	now := clock.Set(50 * time.Second)
	p.OnTimeUpdate(30, 120)
	p.Tick(now)
	ch.Wait()

	p.Close()
	ch.Wait()
	assert.Equal(t, []progress.Update{
		{WatchedPercentage: 100, WatchedSeconds: 10, Completed: true},
		{WatchedPercentage: 25, WatchedSeconds: 30},
	}, w.syncs)
}

func TestSession_IsAValue(t *testing.T) {
	s := playback.NewSession("v1")
	playing := s.Play(t0)
	updated := playing.TimeUpdate(t0.Add(12*time.Second), 60, 120)

	assert.Equal(t, playback.Idle, s.State)
	assert.Equal(t, 0, playing.ElapsedSeconds)
	assert.Equal(t, 12, updated.ElapsedSeconds)
	assert.Equal(t, playback.Sample{
		VideoID: "v1", WatchedPercentage: 50, WatchedSeconds: 12, PercentageKnown: true,
	}, updated.Sample())

	// playing again does not restart the segment
	assert.Equal(t, updated, updated.Play(t0.Add(time.Minute)))
}
