package sse

import "sync"

// Registry 进程内的在线连接表：用户 ID -> 当前连接的推送通道。
// 单用户仅保留最近一条连接，重复 Register 直接覆盖（last-writer-wins），
// 被覆盖的旧通道由其所属的订阅端实例在断开或写失败时自行退出。
// 实例通过构造函数注入，不使用包级全局状态。
type Registry struct {
	mu    sync.RWMutex
	conns map[uint64]chan Frame
}

// NewRegistry 构造函数
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[uint64]chan Frame),
	}
}

// Register 登记用户的推送通道，同一用户的旧通道被静默替换
func (r *Registry) Register(userID uint64, ch chan Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[userID] = ch
}

// UnregisterChannel 仅当用户当前登记的仍是该通道时才移除。
// 重连会覆盖登记项，旧连接退出时不得误删新连接的通道。
func (r *Registry) UnregisterChannel(userID uint64, ch chan Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[userID] == ch {
		delete(r.conns, userID)
	}
}

// Get 查找用户当前的推送通道
func (r *Registry) Get(userID uint64) (chan Frame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.conns[userID]
	return ch, ok
}

// ActiveUsers 返回当前所有在线用户 ID，未读数校准任务使用
func (r *Registry) ActiveUsers() []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]uint64, 0, len(r.conns))
	for userID := range r.conns {
		users = append(users, userID)
	}
	return users
}

// Len 返回在线连接数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
