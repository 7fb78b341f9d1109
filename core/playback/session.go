// Package playback tracks what happens while a video is open in a player and pushes progress samples to the
// progress store.
package playback

import (
	"math"
	"time"

	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

type State int

const (
	Idle State = iota
	Playing
	Paused
	Ended
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	}
	return "idle"
}

// Session is the watch state of one open player. It is a value: transitions return a new Session and never
// touch shared state, so two players cannot interfere with each other.
type Session struct {
	VideoID          string
	State            State
	SegmentStartedAt time.Time // start of the current contiguous play segment
	LastSyncedAt     time.Time
	CurrentTime      float64 // media position, seconds
	Duration         float64 // media duration, seconds; NaN or <= 0 when unknown
	ElapsedSeconds   int     // wall-clock seconds since SegmentStartedAt
	ViewReported     bool
}

func NewSession(videoID string) Session {
	return Session{VideoID: videoID, Duration: math.NaN()}
}

// Play starts a new play segment. Elapsed time restarts from zero.
func (s Session) Play(now time.Time) Session {
	if s.State == Playing {
		return s
	}
	s.State = Playing
	s.SegmentStartedAt = now
	s.ElapsedSeconds = 0
	return s
}

// TimeUpdate records the media position. It is ignored unless the session is playing.
func (s Session) TimeUpdate(now time.Time, currentTime, duration float64) Session {
	if s.State != Playing {
		return s
	}
	s.CurrentTime = currentTime
	s.Duration = duration
	if elapsed := now.Sub(s.SegmentStartedAt); elapsed > 0 {
		s.ElapsedSeconds = int(elapsed / time.Second)
	} else {
		s.ElapsedSeconds = 0
	}
	return s
}

// Pause freezes the elapsed time until the next Play.
func (s Session) Pause() Session {
	if s.State == Playing {
		s.State = Paused
	}
	return s
}

// End moves the session to its final state.
func (s Session) End() Session {
	s.State = Ended
	return s
}

// Synced records a sent sample.
func (s Session) Synced(now time.Time) Session {
	s.LastSyncedAt = now
	return s
}

// Sample is the progress measured by a session at one instant.
type Sample struct {
	VideoID           string
	WatchedPercentage float64
	WatchedSeconds    int
	Completed         bool
	// PercentageKnown is false while the duration is unknown; WatchedPercentage is then meaningless.
	PercentageKnown bool
	CountsAsView    bool
}

func (s Session) Sample() Sample {
	pct, ok := progress.Percentage(s.CurrentTime, s.Duration)
	decision := progress.Evaluate(pct, float64(s.ElapsedSeconds))
	return Sample{
		VideoID:           s.VideoID,
		WatchedPercentage: pct,
		WatchedSeconds:    s.ElapsedSeconds,
		Completed:         ok && decision.IsAutoComplete,
		PercentageKnown:   ok,
		CountsAsView:      decision.CountsAsView,
	}
}

// Update is the payload sent to the progress store.
func (smp Sample) Update() progress.Update {
	return progress.Update{
		WatchedPercentage: smp.WatchedPercentage,
		WatchedSeconds:    smp.WatchedSeconds,
		Completed:         smp.Completed,
	}
}
