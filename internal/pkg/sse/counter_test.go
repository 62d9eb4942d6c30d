package sse

import "testing"

func TestCounterStateApplyAdoptsNewerSeq(t *testing.T) {
	t.Parallel()

	s := NewCounterState()
	if !s.Apply(3, 1) {
		t.Error("expected first apply to be adopted")
	}
	if s.Value() != 3 || s.Seq() != 1 {
		t.Errorf("state = (%d, %d), want (3, 1)", s.Value(), s.Seq())
	}
}

func TestCounterStateApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewCounterState()
	s.Apply(3, 5)
	if s.Apply(3, 5) {
		t.Error("applying the same seq twice must be a no-op")
	}
	if s.Value() != 3 {
		t.Errorf("Value() = %d, want 3", s.Value())
	}
}

func TestCounterStateDiscardsStaleSeq(t *testing.T) {
	t.Parallel()

	// 全部标记已读(count=0, seq=7)在点赞(count=1, seq=8)之后到达：
	// 迟到的旧值不覆盖新值
	s := NewCounterState()
	s.Apply(1, 8)
	if s.Apply(0, 7) {
		t.Error("stale seq must be discarded")
	}
	if s.Value() != 1 {
		t.Errorf("Value() = %d, want 1", s.Value())
	}
}

func TestCounterStateOptimisticRollback(t *testing.T) {
	t.Parallel()

	s := NewCounterState()
	s.Apply(5, 1)

	prev := s.ApplyLocal(-2)
	if s.Value() != 3 {
		t.Errorf("Value() after local change = %d, want 3", s.Value())
	}

	s.Rollback(prev)
	if s.Value() != 5 {
		t.Errorf("Value() after rollback = %d, want 5", s.Value())
	}
}

func TestCounterStateLocalClampAtZero(t *testing.T) {
	t.Parallel()

	s := NewCounterState()
	s.Apply(1, 1)
	s.ApplyLocal(-3)
	if s.Value() != 0 {
		t.Errorf("Value() = %d, want 0; local count never goes negative", s.Value())
	}
}
