package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

// Writer is the progress store as seen by a player, keyed implicitly by the authenticated user.
type Writer interface {
	Sync(ctx context.Context, videoID string, upd progress.Update) error
	RecordView(ctx context.Context, videoID string) error
}

// Channel sends samples to a Writer without blocking the caller. Failed writes are logged and dropped: the next
// periodic sync or the final flush is the retry.
type Channel struct {
	w        Writer
	timeout  time.Duration
	logger   core.Logger
	onSynced func(Sample)
	wg       sync.WaitGroup
}

// NewChannel creates a Channel; onSynced (optional) runs after every successful sync, so that the caller can refresh
// the statistics it displays.
func NewChannel(w Writer, timeout time.Duration, logger core.Logger, onSynced func(Sample)) *Channel {
	return &Channel{w: w, timeout: timeout, logger: logger, onSynced: onSynced}
}

func (c *Channel) context() (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.timeout)
}

// Send writes the sample in the background. Samples with an unknown percentage are not sent.
func (c *Channel) Send(smp Sample) bool {
	return c.send(smp, nil)
}

// send is Send with done called with the write result, before Wait returns.
func (c *Channel) send(smp Sample, done func(err error)) bool {
	if !smp.PercentageKnown {
		return false
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := c.context()
		defer cancel()

		err := c.w.Sync(ctx, smp.VideoID, smp.Update())
		if done != nil {
			done(err)
		}
		if err != nil {
			c.logger.Warn(fmt.Sprintf("playback: syncing progress of video %s: %v", smp.VideoID, err), err)
			return
		}
		if c.onSynced != nil {
			c.onSynced(smp)
		}
	}()
	return true
}

// SendView reports a view in the background.
func (c *Channel) SendView(videoID string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := c.context()
		defer cancel()

		if err := c.w.RecordView(ctx, videoID); err != nil {
			c.logger.Warn(fmt.Sprintf("playback: recording view of video %s: %v", videoID, err), err)
		}
	}()
}

// Wait blocks until every write sent so far has finished.
func (c *Channel) Wait() {
	c.wg.Wait()
}

// ServiceWriter writes to an in-process progress.Service on behalf of usr.
type ServiceWriter struct {
	Service *progress.Service
	User    core.Identity
}

var _ Writer = ServiceWriter{}

func (w ServiceWriter) Sync(ctx context.Context, videoID string, upd progress.Update) error {
	_, err := w.Service.Sync(ctx, w.User, videoID, upd)
	return err
}

func (w ServiceWriter) RecordView(ctx context.Context, videoID string) error {
	_, err := w.Service.RecordView(ctx, w.User, videoID)
	return err
}
