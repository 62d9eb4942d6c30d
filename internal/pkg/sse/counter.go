package sse

import "sync"

// CounterState 未读数消费端缓存的参考实现，约定了客户端的合并规则：
//   - 服务端推送/响应携带的 (count, seq) 只有在 seq 更新时才被采纳，
//     重复或乱序到达的旧值一律丢弃，应用两次等于应用一次；
//   - 用户主动操作（标记已读、删除）先乐观改本地值，请求失败后回滚。
//
// 两条更新路径因此都幂等，客户端无需关心 HTTP 响应和推送帧谁先到。
type CounterState struct {
	mu    sync.Mutex
	count int64
	seq   uint64
}

// NewCounterState 构造函数
func NewCounterState() *CounterState {
	return &CounterState{}
}

// Apply 采纳服务端的权威未读数。seq 不比当前新时为空操作，返回是否采纳。
func (s *CounterState) Apply(count int64, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.seq {
		return false
	}
	s.count = count
	s.seq = seq
	return true
}

// ApplyLocal 乐观地应用本地变更，返回变更前的值供失败回滚
func (s *CounterState) ApplyLocal(delta int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.count
	s.count += delta
	if s.count < 0 {
		s.count = 0
	}
	return prev
}

// Rollback 请求失败后恢复到乐观变更前的值
func (s *CounterState) Rollback(prev int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = prev
}

// Value 当前缓存的未读数
func (s *CounterState) Value() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Seq 最近一次采纳的服务端序号
func (s *CounterState) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}
