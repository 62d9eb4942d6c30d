package service

import (
	"context"

	"github.com/e-hat/PixelShelf-sub001/internal/api/dto"
)

// 领域事件类型，HTTP 内部接口与 Kafka 消费者共用
const (
	EventTypeFollow      = "FOLLOW"
	EventTypeAssetLike   = "ASSET_LIKE"
	EventTypeProjectLike = "PROJECT_LIKE"
	EventTypeComment     = "COMMENT"
	EventTypeMessage     = "MESSAGE"
	EventTypeSystem      = "SYSTEM"
	EventTypeSystemBatch = "SYSTEM_BATCH"
)

// DispatchDomainEvent 把一条领域事件分发到扇出引擎对应的入口。
// 事件类型不在枚举内时同步拒绝，不产生任何落库。
// 返回值仅批量事件有内容（每个接收者的成败汇总）。
func DispatchDomainEvent(ctx context.Context, f FanoutService, ev *dto.DomainEventReq) (*BatchResult, error) {
	switch ev.EventType {
	case EventTypeFollow:
		return nil, f.NotifyFollow(ctx, ev.ActorID, ev.ReceiverID)
	case EventTypeAssetLike:
		return nil, f.NotifyAssetLike(ctx, ev.ActorID, ev.AssetID)
	case EventTypeProjectLike:
		return nil, f.NotifyProjectLike(ctx, ev.ActorID, ev.ProjectID)
	case EventTypeComment:
		return nil, f.NotifyComment(ctx, ev.ActorID, ev.AssetID, ev.CommentID)
	case EventTypeMessage:
		return nil, f.NotifyMessage(ctx, ev.ActorID, ev.ReceiverID)
	case EventTypeSystem:
		return nil, f.NotifySystem(ctx, ev.ReceiverID, ev.Content, ev.LinkURL)
	case EventTypeSystemBatch:
		return f.NotifyBatch(ctx, ev.ReceiverIDs, ev.Content, ev.LinkURL)
	default:
		return nil, ErrEventTypeInvalid
	}
}
