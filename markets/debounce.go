package markets

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single trailing-edge
// invocation. A trigger during the wait window restarts the window, so
// the function runs once, after the burst settles.
type Debouncer struct {
	delay   time.Duration
	fn      func()
	mxState *sync.Mutex
	timer   *time.Timer
	token   uint64
}

func CreateDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{
		delay:   delay,
		fn:      fn,
		mxState: new(sync.Mutex),
	}
}

func (p *Debouncer) Trigger() {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	p.token++
	token := p.token
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, func() {
		p.mxState.Lock()
		live := token == p.token
		p.mxState.Unlock()
		if live {
			p.fn()
		}
	})
}

// Cancel drops any pending invocation.
func (p *Debouncer) Cancel() {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	p.token++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
