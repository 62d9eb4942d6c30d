package service

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/e-hat/PixelShelf-sub001/internal/api/dto"
	"github.com/e-hat/PixelShelf-sub001/internal/model"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/sse"
	"github.com/e-hat/PixelShelf-sub001/internal/repository"
)

// FanoutService 通知扇出引擎：把领域事件转换成持久化的通知记录，
// 并对每个被寻址的接收者做一次尽力而为的在线推送。
// 通知主记录的落库失败向调用方暴露，推送失败永远不暴露——
// 主业务动作绝不能因为通知投递失败而失败。
type FanoutService interface {
	NotifyFollow(ctx context.Context, followerID, followingID uint64) error
	NotifyAssetLike(ctx context.Context, likerID, assetID uint64) error
	NotifyProjectLike(ctx context.Context, likerID, projectID uint64) error
	NotifyComment(ctx context.Context, commenterID, assetID, parentCommentID uint64) error
	NotifyMessage(ctx context.Context, senderID, receiverID uint64) error
	NotifySystem(ctx context.Context, receiverID uint64, content, linkURL string) error
	NotifyBatch(ctx context.Context, receiverIDs []uint64, content, linkURL string) (*BatchResult, error)
}

// BatchResult 批量系统通知的结果：单个接收者失败不影响其他接收者
type BatchResult struct {
	Delivered         int      `json:"delivered"`
	FailedReceiverIDs []uint64 `json:"failed_receiver_ids"`
}

type fanoutServiceImpl struct {
	notificationRepo repository.NotificationRepo
	userRepo         repository.UserRepo
	assetRepo        repository.AssetRepo
	projectRepo      repository.ProjectRepo
	commentRepo      repository.AssetCommentRepo
	hub              *sse.Hub
}

// NewFanoutService 构造函数
func NewFanoutService(
	notificationRepo repository.NotificationRepo,
	userRepo repository.UserRepo,
	assetRepo repository.AssetRepo,
	projectRepo repository.ProjectRepo,
	commentRepo repository.AssetCommentRepo,
	hub *sse.Hub,
) FanoutService {
	return &fanoutServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		assetRepo:        assetRepo,
		projectRepo:      projectRepo,
		commentRepo:      commentRepo,
		hub:              hub,
	}
}

// NotifyFollow 关注事件：通知被关注者
func (s *fanoutServiceImpl) NotifyFollow(ctx context.Context, followerID, followingID uint64) error {
	if followerID == 0 || followingID == 0 {
		return ErrParamInvalid
	}
	if followerID == followingID {
		// 用户关注自己不产生通知
		return nil
	}

	name := s.resolveUserName(ctx, followerID)
	return s.createAndPush(ctx, &model.Notification{
		Type:       model.NotificationTypeFollow,
		Content:    name + " 关注了你",
		LinkURL:    fmt.Sprintf("/user/%d", followerID),
		ReceiverID: followingID,
		SenderID:   followerID,
	}, name)
}

// NotifyAssetLike 作品点赞事件：通知作品所有者
func (s *fanoutServiceImpl) NotifyAssetLike(ctx context.Context, likerID, assetID uint64) error {
	if likerID == 0 || assetID == 0 {
		return ErrParamInvalid
	}

	asset, err := s.assetRepo.GetAssetByID(ctx, assetID)
	if err != nil || asset == nil {
		return ErrAssetNotFound
	}
	if asset.UserID == likerID {
		// 点赞自己的作品不产生通知
		return nil
	}

	name := s.resolveUserName(ctx, likerID)
	return s.createAndPush(ctx, &model.Notification{
		Type:       model.NotificationTypeLike,
		Content:    fmt.Sprintf("%s 点赞了你的作品《%s》", name, asset.Title),
		LinkURL:    fmt.Sprintf("/assets/%d", assetID),
		ReceiverID: asset.UserID,
		SenderID:   likerID,
	}, name)
}

// NotifyProjectLike 项目点赞事件：通知项目所有者
func (s *fanoutServiceImpl) NotifyProjectLike(ctx context.Context, likerID, projectID uint64) error {
	if likerID == 0 || projectID == 0 {
		return ErrParamInvalid
	}

	project, err := s.projectRepo.GetProjectByID(ctx, projectID)
	if err != nil || project == nil {
		return ErrProjectNotFound
	}
	if project.UserID == likerID {
		return nil
	}

	name := s.resolveUserName(ctx, likerID)
	return s.createAndPush(ctx, &model.Notification{
		Type:       model.NotificationTypeLike,
		Content:    fmt.Sprintf("%s 点赞了你的项目《%s》", name, project.Title),
		LinkURL:    fmt.Sprintf("/projects/%d", projectID),
		ReceiverID: project.UserID,
		SenderID:   likerID,
	}, name)
}

// NotifyComment 评论事件。一个事件最多寻址两个接收者：作品所有者，
// 以及（回复时）父评论作者。两条腿各自独立做自我通知抑制；
// 父评论作者等于作品所有者时只通知一次，避免同一事件重复打扰同一人。
func (s *fanoutServiceImpl) NotifyComment(ctx context.Context, commenterID, assetID, parentCommentID uint64) error {
	if commenterID == 0 || assetID == 0 {
		return ErrParamInvalid
	}

	asset, err := s.assetRepo.GetAssetByID(ctx, assetID)
	if err != nil || asset == nil {
		return ErrAssetNotFound
	}

	name := s.resolveUserName(ctx, commenterID)
	link := fmt.Sprintf("/assets/%d", assetID)

	// 第一条腿：作品所有者
	if asset.UserID != commenterID {
		err := s.createAndPush(ctx, &model.Notification{
			Type:       model.NotificationTypeComment,
			Content:    fmt.Sprintf("%s 评论了你的作品《%s》", name, asset.Title),
			LinkURL:    link,
			ReceiverID: asset.UserID,
			SenderID:   commenterID,
		}, name)
		if err != nil {
			return err
		}
	}

	// 第二条腿：父评论作者
	if parentCommentID == 0 {
		return nil
	}
	parent, err := s.commentRepo.GetCommentByID(ctx, parentCommentID)
	if err != nil || parent == nil {
		return ErrCommentNotFound
	}
	if parent.AssetID != assetID {
		return ErrCommentNotFound
	}
	if parent.UserID == commenterID || parent.UserID == asset.UserID {
		// 回复自己，或父评论作者就是已被第一条腿通知的作品所有者
		return nil
	}

	return s.createAndPush(ctx, &model.Notification{
		Type:       model.NotificationTypeComment,
		Content:    name + " 回复了你的评论",
		LinkURL:    link,
		ReceiverID: parent.UserID,
		SenderID:   commenterID,
	}, name)
}

// NotifyMessage 私信事件：通知接收者
func (s *fanoutServiceImpl) NotifyMessage(ctx context.Context, senderID, receiverID uint64) error {
	if senderID == 0 || receiverID == 0 {
		return ErrParamInvalid
	}
	if senderID == receiverID {
		return nil
	}

	name := s.resolveUserName(ctx, senderID)
	return s.createAndPush(ctx, &model.Notification{
		Type:       model.NotificationTypeMessage,
		Content:    name + " 给你发来了一条私信",
		LinkURL:    fmt.Sprintf("/chat/%d", senderID),
		ReceiverID: receiverID,
		SenderID:   senderID,
	}, name)
}

// NotifySystem 给单个用户发系统通知
func (s *fanoutServiceImpl) NotifySystem(ctx context.Context, receiverID uint64, content, linkURL string) error {
	if receiverID == 0 || content == "" {
		return ErrParamInvalid
	}

	return s.createAndPush(ctx, &model.Notification{
		Type:       model.NotificationTypeSystem,
		Content:    content,
		LinkURL:    linkURL,
		ReceiverID: receiverID,
		SenderID:   0,
	}, "")
}

// NotifyBatch 把同一条系统通知扇出给多个接收者。
// 每个接收者的落库+推送彼此独立，单个失败只被记录，不中断其他接收者。
func (s *fanoutServiceImpl) NotifyBatch(ctx context.Context, receiverIDs []uint64, content, linkURL string) (*BatchResult, error) {
	if len(receiverIDs) == 0 || content == "" {
		return nil, ErrParamInvalid
	}

	result := &BatchResult{}
	for _, receiverID := range receiverIDs {
		if receiverID == 0 {
			result.FailedReceiverIDs = append(result.FailedReceiverIDs, receiverID)
			continue
		}
		err := s.createAndPush(ctx, &model.Notification{
			Type:       model.NotificationTypeSystem,
			Content:    content,
			LinkURL:    linkURL,
			ReceiverID: receiverID,
			SenderID:   0,
		}, "")
		if err != nil {
			log.ErrorContext(ctx, "批量系统通知单个接收者落库失败", "receiverID", receiverID, "err", err)
			result.FailedReceiverIDs = append(result.FailedReceiverIDs, receiverID)
			continue
		}
		result.Delivered++
	}
	return result, nil
}

// createAndPush 先落库（失败向上暴露），再做尽力而为的在线推送：
// 一帧通知本体，随后一帧按库里重新计算的未读数。推送路径的任何失败都不外溢。
func (s *fanoutServiceImpl) createAndPush(ctx context.Context, notification *model.Notification, senderName string) error {
	if !notification.Type.Valid() {
		return ErrParamInvalid
	}
	notification.Read = false
	notification.CreatedAt = time.Now()

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}

	s.hub.PushNotification(notification.ReceiverID, &dto.NotificationDTO{
		ID:         notification.ID,
		Type:       string(notification.Type),
		Content:    notification.Content,
		LinkURL:    notification.LinkURL,
		Read:       notification.Read,
		SenderID:   notification.SenderID,
		SenderName: senderName,
		CreatedAt:  notification.CreatedAt.UTC().Format(time.RFC3339),
	})

	payload, err := s.hub.SnapshotUnread(ctx, notification.ReceiverID, func(ctx context.Context) (int64, error) {
		return s.notificationRepo.CountUnread(ctx, notification.ReceiverID)
	})
	if err != nil {
		log.WarnContext(ctx, "推送前重算未读数失败", "receiverID", notification.ReceiverID, "err", err)
		return nil
	}
	s.hub.PushUnread(notification.ReceiverID, payload)
	return nil
}

// resolveUserName 补全动作发起者的展示名。
// 这里的查询只影响文案，失败时退化为通用称呼，绝不阻断通知创建。
func (s *fanoutServiceImpl) resolveUserName(ctx context.Context, userID uint64) string {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		return "有人"
	}
	if user.Nickname != "" {
		return user.Nickname
	}
	if user.Username != nil && *user.Username != "" {
		return *user.Username
	}
	return "有人"
}
