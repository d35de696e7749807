package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	feedUp       atomic.Bool  // биржа отвечает на запросы свечей
	lastEvalUnix atomic.Int64 // unix seconds последней оценки сигнала
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetFeedUp(v bool) { s.feedUp.Store(v) }
func (s *State) FeedUp() bool     { return s.feedUp.Load() }

func (s *State) TouchEval(t time.Time) { s.lastEvalUnix.Store(t.Unix()) }
func (s *State) LastEval() time.Time {
	u := s.lastEvalUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
