package main

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/playback"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

// simulate plays videoID from the start for watch (or until it ends) on a virtual clock, one timeupdate per second,
// syncing through the same player the web client uses.
func (cli *commandLine) simulate(
	ctx context.Context,
	userID, videoID string,
	watch, interval time.Duration,
) (progress.Record, error) {
	video, err := cli.catalog.GetVideo(ctx, videoID)
	if err != nil {
		return progress.Record{}, errors.Wrap(err, "resolving video")
	}

	start := time.Now()
	var elapsed time.Duration
	clock := func() time.Time { return start.Add(elapsed) }

	writer := playback.ServiceWriter{Service: cli.progressSvc, User: core.Identity{ID: userID}}
	ch := playback.NewChannel(writer, cli.conf.Tracking.SyncTimeout, cli.logger, nil)
	player := playback.NewPlayer(videoID, ch, interval, clock)

	duration := float64(video.DurationSeconds)
	player.OnPlay()
	for s := 1; s <= int(watch/time.Second); s++ {
		elapsed = time.Duration(s) * time.Second
		pos := float64(s)
		if duration > 0 {
			pos = math.Min(pos, duration)
		}
		player.OnTimeUpdate(pos, duration)
		if duration > 0 && pos >= duration {
			player.OnEnded()
			ch.Wait()
			break
		}
		player.Tick(clock())
		ch.Wait() // keep writes in order
	}
	player.Close()
	ch.Wait()

	return cli.progressSvc.Get(ctx, userID, videoID)
}
