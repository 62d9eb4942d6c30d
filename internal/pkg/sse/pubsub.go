package sse

import (
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// envelope Redis Pub/Sub 中的消息结构，把用户维度的推送帧包一层，
// 让任意实例都能把事件回放进自己本地的 Registry。
type envelope struct {
	UserID uint64    `json:"user_id"`
	Type   string    `json:"type"`
	Count  int64     `json:"count,omitempty"`
	Seq    uint64    `json:"seq,omitempty"`
	Data   any       `json:"data,omitempty"`
	SentAt time.Time `json:"sent_at"`
}

// RedisBridge 把进程内 Hub 与 Redis Pub/Sub 频道打通，
// 用于多实例部署时的跨实例推送。未配置时 Hub 仅做单实例推送。
type RedisBridge struct {
	client  *redis.Client
	channel string
	hub     *Hub
}

// AttachRedisBridge 为 Hub 挂载跨实例推送桥并启动订阅循环。
// 应在 Redis 客户端初始化完成后、服务启动阶段调用一次。
func AttachRedisBridge(hub *Hub, client *redis.Client, channel string) *RedisBridge {
	if client == nil || channel == "" {
		return nil
	}

	bridge := &RedisBridge{
		client:  client,
		channel: channel,
		hub:     hub,
	}
	hub.bridge = bridge

	go bridge.runSubscriber()
	log.Info("通知跨实例推送桥已启动", "channel", channel)
	return bridge
}

// publishNotification 把通知帧发布到共享频道
func (b *RedisBridge) publishNotification(userID uint64, payload any) error {
	return b.publish(&envelope{
		UserID: userID,
		Type:   FrameTypeNotification,
		Data:   payload,
		SentAt: time.Now().UTC(),
	})
}

// publishUnread 把未读数快照发布到共享频道，序号在快照时已分配
func (b *RedisBridge) publishUnread(userID uint64, payload UnreadPayload) error {
	return b.publish(&envelope{
		UserID: userID,
		Type:   FrameTypeUnreadCount,
		Count:  payload.Count,
		Seq:    payload.Seq,
		SentAt: time.Now().UTC(),
	})
}

func (b *RedisBridge) publish(env *envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := b.client.Publish(ctx, b.channel, body).Err(); err != nil {
		log.Error("通知推送发布到 Redis 失败", "channel", b.channel, "err", err)
		return err
	}
	return nil
}

// runSubscriber 监听共享频道并把事件回放进本地 Registry
func (b *RedisBridge) runSubscriber() {
	ctx := context.Background()

	pubsub := b.client.Subscribe(ctx, b.channel)
	defer func() {
		_ = pubsub.Close()
	}()

	// 确认订阅建立后再读消息
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Error("订阅通知推送频道失败", "channel", b.channel, "err", err)
		return
	}

	ch := pubsub.Channel()
	for msg := range ch {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Error("解析通知推送消息失败", "channel", b.channel, "err", err)
			continue
		}
		if env.UserID == 0 || env.Type == "" {
			continue
		}

		switch env.Type {
		case FrameTypeNotification:
			b.hub.deliverNotification(env.UserID, env.Data)
		case FrameTypeUnreadCount:
			b.hub.deliverUnread(env.UserID, UnreadPayload{Count: env.Count, Seq: env.Seq})
		}
	}
}
