package service

import (
	"context"
	"errors"
	"testing"

	"github.com/e-hat/PixelShelf-sub001/internal/model"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/sse"
)

type fanoutFixture struct {
	service          FanoutService
	notificationRepo *fakeNotificationRepo
	hub              *sse.Hub
}

func newFanoutFixture() *fanoutFixture {
	notificationRepo := newFakeNotificationRepo()
	nickname := "alice"
	userRepo := &fakeUserRepo{users: map[uint64]*model.User{
		1: {ID: 1, Nickname: "小明"},
		2: {ID: 2, Nickname: "小红"},
		3: {ID: 3, Username: &nickname},
	}}
	assetRepo := &fakeAssetRepo{assets: map[uint64]*model.Asset{
		100: {ID: 100, UserID: 2, Title: "像素城堡"},
	}}
	projectRepo := &fakeProjectRepo{projects: map[uint64]*model.Project{
		200: {ID: 200, UserID: 2, Title: "复古卷轴"},
	}}
	commentRepo := &fakeCommentRepo{comments: map[uint64]*model.AssetComment{
		// 作品 100（所有者 2）下，用户 3 的评论
		300: {ID: 300, AssetID: 100, UserID: 3},
		// 作品 100 下，所有者自己的评论
		301: {ID: 301, AssetID: 100, UserID: 2},
		// 挂在别的作品下的评论
		302: {ID: 302, AssetID: 999, UserID: 3},
	}}

	hub := sse.NewHub(sse.NewRegistry())
	return &fanoutFixture{
		service:          NewFanoutService(notificationRepo, userRepo, assetRepo, projectRepo, commentRepo, hub),
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// subscribe 为用户挂一条在线连接并返回接收通道
func (f *fanoutFixture) subscribe(userID uint64) chan sse.Frame {
	ch := make(chan sse.Frame, 8)
	f.hub.Registry().Register(userID, ch)
	return ch
}

func TestNotifyFollowCreatesAndPushes(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	ch := f.subscribe(2)

	if err := f.service.NotifyFollow(context.Background(), 1, 2); err != nil {
		t.Fatalf("NotifyFollow() error = %v", err)
	}

	rows := f.notificationRepo.rowsFor(2)
	if len(rows) != 1 {
		t.Fatalf("stored %d notifications, want 1", len(rows))
	}
	if rows[0].Type != model.NotificationTypeFollow {
		t.Errorf("Type = %q, want FOLLOW", rows[0].Type)
	}
	if rows[0].Content != "小明 关注了你" {
		t.Errorf("Content = %q", rows[0].Content)
	}
	if rows[0].SenderID != 1 {
		t.Errorf("SenderID = %d, want 1", rows[0].SenderID)
	}

	// 推送顺序：先通知帧，后未读数帧
	first := <-ch
	if first.Type != sse.FrameTypeNotification {
		t.Errorf("first frame = %q, want notification", first.Type)
	}
	second := <-ch
	if second.Type != sse.FrameTypeUnreadCount {
		t.Fatalf("second frame = %q, want unread_count", second.Type)
	}
	payload := second.Data.(sse.UnreadPayload)
	if payload.Count != 1 {
		t.Errorf("unread count = %d, want 1", payload.Count)
	}
}

func TestNotifyFollowSelfIsSuppressed(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	if err := f.service.NotifyFollow(context.Background(), 2, 2); err != nil {
		t.Fatalf("NotifyFollow() error = %v", err)
	}
	if rows := f.notificationRepo.rowsFor(2); len(rows) != 0 {
		t.Errorf("self-follow stored %d notifications, want 0", len(rows))
	}
}

func TestNotifyFollowRejectsZeroIDs(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	if err := f.service.NotifyFollow(context.Background(), 0, 2); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("error = %v, want ErrParamInvalid", err)
	}
}

func TestNotifyAssetLikeOwnAssetIsSuppressed(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	// 用户 2 点赞自己的作品 100
	if err := f.service.NotifyAssetLike(context.Background(), 2, 100); err != nil {
		t.Fatalf("NotifyAssetLike() error = %v", err)
	}
	if rows := f.notificationRepo.rowsFor(2); len(rows) != 0 {
		t.Errorf("self-like stored %d notifications, want 0", len(rows))
	}
}

func TestNotifyAssetLikeUnknownAsset(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	if err := f.service.NotifyAssetLike(context.Background(), 1, 999); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("error = %v, want ErrAssetNotFound", err)
	}
}

func TestNotifyProjectLike(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	if err := f.service.NotifyProjectLike(context.Background(), 1, 200); err != nil {
		t.Fatalf("NotifyProjectLike() error = %v", err)
	}
	rows := f.notificationRepo.rowsFor(2)
	if len(rows) != 1 {
		t.Fatalf("stored %d notifications, want 1", len(rows))
	}
	if rows[0].Content != "小明 点赞了你的项目《复古卷轴》" {
		t.Errorf("Content = %q", rows[0].Content)
	}
}

func TestNotifyCommentReplyNotifiesOwnerAndParentAuthor(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	// 用户 1 在作品 100（所有者 2）下回复用户 3 的评论 300
	if err := f.service.NotifyComment(context.Background(), 1, 100, 300); err != nil {
		t.Fatalf("NotifyComment() error = %v", err)
	}

	owner := f.notificationRepo.rowsFor(2)
	if len(owner) != 1 {
		t.Fatalf("owner got %d notifications, want 1", len(owner))
	}
	if owner[0].Content != "小明 评论了你的作品《像素城堡》" {
		t.Errorf("owner content = %q", owner[0].Content)
	}

	parentAuthor := f.notificationRepo.rowsFor(3)
	if len(parentAuthor) != 1 {
		t.Fatalf("parent author got %d notifications, want 1", len(parentAuthor))
	}
	if parentAuthor[0].Content != "小明 回复了你的评论" {
		t.Errorf("parent author content = %q", parentAuthor[0].Content)
	}
}

func TestNotifyCommentParentAuthorIsOwnerNotifiesOnce(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	// 回复的是作品所有者自己的评论 301：同一事件只通知所有者一次
	if err := f.service.NotifyComment(context.Background(), 1, 100, 301); err != nil {
		t.Fatalf("NotifyComment() error = %v", err)
	}
	if rows := f.notificationRepo.rowsFor(2); len(rows) != 1 {
		t.Errorf("owner got %d notifications, want exactly 1", len(rows))
	}
}

func TestNotifyCommentReplyToSelfOnlyNotifiesOwner(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	// 用户 3 回复自己的评论 300：回复腿被抑制，只剩所有者腿
	if err := f.service.NotifyComment(context.Background(), 3, 100, 300); err != nil {
		t.Fatalf("NotifyComment() error = %v", err)
	}
	if rows := f.notificationRepo.rowsFor(3); len(rows) != 0 {
		t.Errorf("commenter got %d self notifications, want 0", len(rows))
	}
	if rows := f.notificationRepo.rowsFor(2); len(rows) != 1 {
		t.Errorf("owner got %d notifications, want 1", len(rows))
	}
}

func TestNotifyCommentParentFromOtherAsset(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	// 评论 302 不属于作品 100
	if err := f.service.NotifyComment(context.Background(), 1, 100, 302); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("error = %v, want ErrCommentNotFound", err)
	}
}

func TestNotifyMessageUsesUsernameFallback(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	// 用户 3 没有昵称，退化为用户名
	if err := f.service.NotifyMessage(context.Background(), 3, 1); err != nil {
		t.Fatalf("NotifyMessage() error = %v", err)
	}
	rows := f.notificationRepo.rowsFor(1)
	if len(rows) != 1 {
		t.Fatalf("stored %d notifications, want 1", len(rows))
	}
	if rows[0].Content != "alice 给你发来了一条私信" {
		t.Errorf("Content = %q", rows[0].Content)
	}
}

func TestNotifySystemRequiresContent(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	if err := f.service.NotifySystem(context.Background(), 1, "", ""); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("error = %v, want ErrParamInvalid", err)
	}
}

func TestNotifyBatchPartialFailure(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	f.notificationRepo.createErrFor[2] = errors.New("db write failed")

	result, err := f.service.NotifyBatch(context.Background(), []uint64{1, 2, 3}, "系统维护公告", "/announcements/1")
	if err != nil {
		t.Fatalf("NotifyBatch() error = %v", err)
	}
	if result.Delivered != 2 {
		t.Errorf("Delivered = %d, want 2", result.Delivered)
	}
	if len(result.FailedReceiverIDs) != 1 || result.FailedReceiverIDs[0] != 2 {
		t.Errorf("FailedReceiverIDs = %v, want [2]", result.FailedReceiverIDs)
	}

	if rows := f.notificationRepo.rowsFor(1); len(rows) != 1 {
		t.Errorf("receiver 1 got %d notifications, want 1", len(rows))
	}
	if rows := f.notificationRepo.rowsFor(3); len(rows) != 1 {
		t.Errorf("receiver 3 got %d notifications, want 1", len(rows))
	}
}

func TestNotifyBatchEmptyReceivers(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	if _, err := f.service.NotifyBatch(context.Background(), nil, "内容", ""); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("error = %v, want ErrParamInvalid", err)
	}
}

func TestCreateRejectsUnknownNotificationType(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	svc := f.service.(*fanoutServiceImpl)

	notification := &model.Notification{
		SenderID:   1,
		ReceiverID: 2,
		Type:       model.NotificationType("SHOUT"),
		Content:    "未知类型",
	}
	if err := svc.createAndPush(context.Background(), notification, "小明"); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("error = %v, want ErrParamInvalid", err)
	}
	if rows := f.notificationRepo.rowsFor(2); len(rows) != 0 {
		t.Errorf("stored %d notifications, want 0", len(rows))
	}
}

func TestCreateSucceedsWhenReceiverOffline(t *testing.T) {
	t.Parallel()

	f := newFanoutFixture()
	// 接收者不在线：落库照常成功，推送静默跳过
	if err := f.service.NotifyFollow(context.Background(), 1, 2); err != nil {
		t.Fatalf("NotifyFollow() error = %v", err)
	}
	if rows := f.notificationRepo.rowsFor(2); len(rows) != 1 {
		t.Errorf("stored %d notifications, want 1", len(rows))
	}
}
