package playback

import (
	"context"
	"sync"
	"time"
)

const tickInterval = time.Second

// Player drives a Session from media events. The progress is synced every interval while playing, when the media
// ends and when the player closes. Event handlers never wait for I/O.
type Player struct {
	mu         sync.Mutex
	session    Session
	channel    *Channel
	clock      Clock
	interval   time.Duration
	nextSync   time.Time
	lastSynced *Sample // last sample the store acknowledged
	closed     bool
	stop       chan struct{}
}

func NewPlayer(videoID string, channel *Channel, interval time.Duration, clock Clock) *Player {
	if clock == nil {
		clock = SystemClock
	}
	return &Player{
		session:  NewSession(videoID),
		channel:  channel,
		clock:    clock,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Session returns a copy of the current session.
func (p *Player) Session() Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

func (p *Player) OnPlay() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.session.State == Playing {
		return
	}
	now := p.clock()
	p.session = p.session.Play(now)
	p.nextSync = now.Add(p.interval)
}

func (p *Player) OnTimeUpdate(currentTime, duration float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.session = p.session.TimeUpdate(p.clock(), currentTime, duration)

	if !p.session.ViewReported && p.session.Sample().CountsAsView {
		p.session.ViewReported = true
		p.channel.SendView(p.session.VideoID)
	}
}

func (p *Player) OnPause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.session = p.session.Pause()
}

// OnEnded flushes the progress immediately.
func (p *Player) OnEnded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.session.State == Ended {
		return
	}
	p.session = p.session.End()
	p.flush()
}

// Tick runs the periodic sync: a sample is sent once interval has passed since the play segment started or since
// the last periodic sync.
func (p *Player) Tick(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.session.State != Playing || now.Before(p.nextSync) {
		return
	}
	p.nextSync = now.Add(p.interval)
	p.flush()
}

// Close sends the last known sample and tears the session down. In-flight writes are not cancelled.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.session.State != Idle {
		p.flush()
	}
	p.session = p.session.End()
	p.closed = true
	close(p.stop)
}

// Start runs Tick until ctx is done or the player is closed.
func (p *Player) Start(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
				p.Tick(p.clock())
			}
		}
	}()
}

// flush sends the current sample unless the store already holds it. A sample whose write failed is sent again by
// the next flush. p.mu must be held.
func (p *Player) flush() {
	smp := p.session.Sample()
	if p.lastSynced != nil && *p.lastSynced == smp {
		return
	}
	sent := p.channel.send(smp, func(err error) {
		if err == nil {
			p.synced(smp)
		}
	})
	if sent {
		p.session = p.session.Synced(p.clock())
	}
}

func (p *Player) synced(smp Sample) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSynced = &smp
}
