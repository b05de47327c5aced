package pipeline

import "sync"

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function; calls are serialized.
type FuncSink struct {
	mu sync.Mutex
	Fn func(Event)
}

func (s *FuncSink) OnEvent(evt Event) {
	if s == nil || s.Fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fn(evt)
}
