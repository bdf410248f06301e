package interp

import (
	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/value"
)

// valueStack is the single operand stack shared by every frame (spec
// §3), grown with amortized-doubling append.
type valueStack struct {
	items []value.Value
}

func (s *valueStack) push(v value.Value) { s.items = append(s.items, v) }

func (s *valueStack) pop(span astiface.Span) (value.Value, error) {
	if len(s.items) == 0 {
		return nil, internalf(span, "stack underflow")
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

func (s *valueStack) popN(span astiface.Span, n int) ([]value.Value, error) {
	if len(s.items) < n {
		return nil, internalf(span, "stack underflow: need %d, have %d", n, len(s.items))
	}
	out := make([]value.Value, n)
	copy(out, s.items[len(s.items)-n:])
	s.items = s.items[:len(s.items)-n]
	return out, nil
}

func (s *valueStack) peek(span astiface.Span) (value.Value, error) {
	if len(s.items) == 0 {
		return nil, internalf(span, "stack underflow")
	}
	return s.items[len(s.items)-1], nil
}

func (s *valueStack) len() int { return len(s.items) }
