package kafka

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"

	"github.com/e-hat/PixelShelf-sub001/internal/api/dto"
	"github.com/e-hat/PixelShelf-sub001/internal/service"
)

// DomainEventHandler 消费领域事件 topic，把事件分发给通知扇出引擎。
// 关注、点赞、评论、私信等服务作为生产者，对扇出结果完全无感知。
type DomainEventHandler struct {
	fanoutService service.FanoutService
}

func NewDomainEventHandler(fanout service.FanoutService) *DomainEventHandler {
	return &DomainEventHandler{
		fanoutService: fanout,
	}
}

func (s *DomainEventHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("domain event consumer setup")
	return nil
}

func (s *DomainEventHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("domain event consumer cleanup")
	return nil
}

func (s *DomainEventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-domain-event consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-domain-event process batch error", "err", err)
		return err
	}
	return nil
}

// logic 处理单条事件。格式错误或事件字段非法的消息直接丢弃，
// 只有库写入之类的可恢复错误才返回 error 进入重试。
func (s *DomainEventHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var ev dto.DomainEventReq
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		log.ErrorContext(ctx, "解析领域事件失败，消息丢弃", "err", err, "msg_key", string(msg.Key))
		return nil
	}

	result, err := service.DispatchDomainEvent(ctx, s.fanoutService, &ev)
	if err != nil {
		if isRejection(err) {
			log.WarnContext(ctx, "领域事件被拒绝，消息丢弃",
				"eventType", ev.EventType, "actorID", ev.ActorID, "err", err)
			return nil
		}
		return err
	}

	if result != nil && len(result.FailedReceiverIDs) > 0 {
		log.WarnContext(ctx, "批量系统通知部分接收者失败",
			"failed", result.FailedReceiverIDs, "delivered", result.Delivered)
	}

	log.InfoContext(ctx, "领域事件已扇出", "eventType", ev.EventType, "actorID", ev.ActorID)
	return nil
}

// isRejection 同步校验被拒绝的事件重试也不会成功
func isRejection(err error) bool {
	return errors.Is(err, service.ErrParamInvalid) ||
		errors.Is(err, service.ErrEventTypeInvalid) ||
		errors.Is(err, service.ErrAssetNotFound) ||
		errors.Is(err, service.ErrProjectNotFound) ||
		errors.Is(err, service.ErrCommentNotFound)
}
