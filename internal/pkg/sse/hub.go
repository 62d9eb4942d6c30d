package sse

import (
	"context"
	log "log/slog"
	"sync"
)

// Hub 负责构造推送帧并写入 Registry 中的连接通道。
// 所有推送都是 fire-and-forget：没有连接则静默跳过，
// 写入失败（通道已满）视为连接死亡，立即从 Registry 中摘除。
type Hub struct {
	registry *Registry

	// bridge 可选的跨实例推送桥，为 nil 时仅做进程内推送
	bridge *RedisBridge

	mu    sync.Mutex
	seqs  map[uint64]uint64
	locks map[uint64]*sync.Mutex
}

// NewHub 构造函数
func NewHub(registry *Registry) *Hub {
	return &Hub{
		registry: registry,
		seqs:     make(map[uint64]uint64),
		locks:    make(map[uint64]*sync.Mutex),
	}
}

// Registry 返回底层连接表
func (h *Hub) Registry() *Registry {
	return h.registry
}

// SnapshotUnread 读取权威未读数并分配序号。
// 读取与序号分配持有同一把用户锁，序号顺序与读取顺序一致：
// 较早读出的旧值一定携带较小的序号，之后无论各自的推送谁先到达，
// 客户端按序号合并都会丢弃旧值。HTTP 未读数接口与推送帧共用这一序号源。
func (h *Hub) SnapshotUnread(ctx context.Context, userID uint64, read func(context.Context) (int64, error)) (UnreadPayload, error) {
	mu := h.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	count, err := read(ctx)
	if err != nil {
		return UnreadPayload{}, err
	}

	h.mu.Lock()
	h.seqs[userID]++
	seq := h.seqs[userID]
	h.mu.Unlock()

	return UnreadPayload{Count: count, Seq: seq}, nil
}

func (h *Hub) userLock(userID uint64) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	mu, ok := h.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		h.locks[userID] = mu
	}
	return mu
}

// PushNotification 推送一条新通知，调用方不感知推送结果
func (h *Hub) PushNotification(userID uint64, payload any) {
	if h.bridge != nil {
		if err := h.bridge.publishNotification(userID, payload); err == nil {
			return
		}
		// 桥不可用时退化为进程内推送
	}
	h.deliverNotification(userID, payload)
}

// PushUnread 推送一份 SnapshotUnread 产出的未读数快照，调用方不感知推送结果
func (h *Hub) PushUnread(userID uint64, payload UnreadPayload) {
	if h.bridge != nil {
		if err := h.bridge.publishUnread(userID, payload); err == nil {
			return
		}
	}
	h.deliverUnread(userID, payload)
}

// deliverNotification 进程内投递通知帧
func (h *Hub) deliverNotification(userID uint64, payload any) {
	h.send(userID, Frame{Type: FrameTypeNotification, Data: payload})
}

// deliverUnread 进程内投递未读数帧，序号在快照时已分配
func (h *Hub) deliverUnread(userID uint64, payload UnreadPayload) {
	h.send(userID, Frame{Type: FrameTypeUnreadCount, Data: payload})
}

// send 向用户当前通道写入一帧。通道已满说明消费端已经死亡或严重积压，
// 这是心跳之外唯一的失效连接摘除路径。摘除按通道身份进行，
// 不会误删并发重连刚登记的新通道。
func (h *Hub) send(userID uint64, frame Frame) {
	ch, ok := h.registry.Get(userID)
	if !ok {
		// 用户没有在线连接，通知仍在库中，等下次拉取/重连
		return
	}

	select {
	case ch <- frame:
	default:
		h.registry.UnregisterChannel(userID, ch)
		log.Warn("通知推送通道写入失败，连接已摘除", "userID", userID, "frameType", frame.Type)
	}
}
