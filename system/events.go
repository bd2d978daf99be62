package system

// Signal is a typed broadcast point. Subscribers are called in the order they
// connected and own their own lifetime through the returned disconnect func.
type Signal[T any] struct {
	subs []subscriber[T]
	next int
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Connect registers fn and returns a func that removes it. Calling the
// returned func more than once is harmless.
func (s *Signal[T]) Connect(fn func(T)) (disconnect func()) {
	if s == nil || fn == nil {
		return func() {}
	}
	s.next++
	id := s.next
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	return func() { s.remove(id) }
}

// Emit delivers v to every subscriber connected at the time of the call.
// A subscriber disconnected by an earlier one during the same emission is skipped.
func (s *Signal[T]) Emit(v T) {
	if s == nil || len(s.subs) == 0 {
		return
	}
	snapshot := append([]subscriber[T](nil), s.subs...)
	for _, sub := range snapshot {
		if !s.connected(sub.id) {
			continue
		}
		sub.fn(v)
	}
}

// Len reports the number of connected subscribers.
func (s *Signal[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.subs)
}

func (s *Signal[T]) remove(id int) {
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *Signal[T]) connected(id int) bool {
	for _, sub := range s.subs {
		if sub.id == id {
			return true
		}
	}
	return false
}
