package service

import (
	"context"
	"errors"
	"testing"

	"github.com/e-hat/PixelShelf-sub001/internal/model"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/sse"
)

type inboxFixture struct {
	service          NotificationService
	fanout           FanoutService
	notificationRepo *fakeNotificationRepo
	hub              *sse.Hub
}

func newInboxFixture() *inboxFixture {
	f := newFanoutFixture()
	userRepo := &fakeUserRepo{users: map[uint64]*model.User{
		1: {ID: 1, Nickname: "小明", AvatarURL: "/avatars/1.png"},
	}}
	return &inboxFixture{
		service:          NewNotificationService(f.notificationRepo, userRepo, f.hub),
		fanout:           f.service,
		notificationRepo: f.notificationRepo,
		hub:              f.hub,
	}
}

func TestUnreadCountRoundTrip(t *testing.T) {
	t.Parallel()

	f := newInboxFixture()
	ctx := context.Background()

	got, err := f.service.GetUnreadCount(ctx, 2)
	if err != nil {
		t.Fatalf("GetUnreadCount() error = %v", err)
	}
	if got.UnreadCount != 0 {
		t.Errorf("initial unread = %d, want 0", got.UnreadCount)
	}

	if err := f.fanout.NotifyFollow(ctx, 1, 2); err != nil {
		t.Fatalf("NotifyFollow() error = %v", err)
	}

	got, err = f.service.GetUnreadCount(ctx, 2)
	if err != nil {
		t.Fatalf("GetUnreadCount() error = %v", err)
	}
	if got.UnreadCount != 1 {
		t.Errorf("unread after follow = %d, want 1", got.UnreadCount)
	}

	if err := f.service.MarkAllRead(ctx, 2); err != nil {
		t.Fatalf("MarkAllRead() error = %v", err)
	}

	got, err = f.service.GetUnreadCount(ctx, 2)
	if err != nil {
		t.Fatalf("GetUnreadCount() error = %v", err)
	}
	if got.UnreadCount != 0 {
		t.Errorf("unread after mark all read = %d, want 0", got.UnreadCount)
	}
}

func TestUnreadCountSeqIncreasesAcrossCalls(t *testing.T) {
	t.Parallel()

	f := newInboxFixture()
	ctx := context.Background()

	first, err := f.service.GetUnreadCount(ctx, 2)
	if err != nil {
		t.Fatalf("GetUnreadCount() error = %v", err)
	}
	second, err := f.service.GetUnreadCount(ctx, 2)
	if err != nil {
		t.Fatalf("GetUnreadCount() error = %v", err)
	}
	if second.Seq <= first.Seq {
		t.Errorf("seq not increasing: first=%d second=%d", first.Seq, second.Seq)
	}
}

// 标记全部已读与新点赞交错时，在线连接收到的未读数帧序号严格递增，
// 客户端按序号合并后最终值一定是较新的那条。
func TestMarkAllReadThenLikeFramesAreOrdered(t *testing.T) {
	t.Parallel()

	f := newInboxFixture()
	ctx := context.Background()

	ch := make(chan sse.Frame, 16)
	f.hub.Registry().Register(2, ch)

	if err := f.fanout.NotifyFollow(ctx, 1, 2); err != nil {
		t.Fatalf("NotifyFollow() error = %v", err)
	}
	if err := f.service.MarkAllRead(ctx, 2); err != nil {
		t.Fatalf("MarkAllRead() error = %v", err)
	}
	if err := f.fanout.NotifyAssetLike(ctx, 1, 100); err != nil {
		t.Fatalf("NotifyAssetLike() error = %v", err)
	}

	close(ch)
	var payloads []sse.UnreadPayload
	for frame := range ch {
		if frame.Type == sse.FrameTypeUnreadCount {
			payloads = append(payloads, frame.Data.(sse.UnreadPayload))
		}
	}
	if len(payloads) != 3 {
		t.Fatalf("received %d unread frames, want 3", len(payloads))
	}

	var lastSeq uint64
	for i, p := range payloads {
		if p.Seq <= lastSeq {
			t.Errorf("frame %d seq = %d, not greater than previous %d", i, p.Seq, lastSeq)
		}
		lastSeq = p.Seq
	}
	if last := payloads[len(payloads)-1]; last.Count != 1 {
		t.Errorf("final unread = %d, want 1 (the post-markAll like)", last.Count)
	}
}

func TestGetNotificationListResolvesSenders(t *testing.T) {
	t.Parallel()

	f := newInboxFixture()
	ctx := context.Background()

	if err := f.fanout.NotifyFollow(ctx, 1, 2); err != nil {
		t.Fatalf("NotifyFollow() error = %v", err)
	}

	list, err := f.service.GetNotificationList(ctx, 2, 1, 10, false)
	if err != nil {
		t.Fatalf("GetNotificationList() error = %v", err)
	}
	if list.Total != 1 || len(list.List) != 1 {
		t.Fatalf("list total = %d len = %d, want 1/1", list.Total, len(list.List))
	}

	d := list.List[0]
	if d.SenderName != "小明" {
		t.Errorf("SenderName = %q, want 小明", d.SenderName)
	}
	if d.AvatarURL != "/avatars/1.png" {
		t.Errorf("AvatarURL = %q", d.AvatarURL)
	}
	if d.CreatedAt == "" {
		t.Error("CreatedAt is empty")
	}
}

func TestGetNotificationListSystemSender(t *testing.T) {
	t.Parallel()

	f := newInboxFixture()
	ctx := context.Background()

	if err := f.fanout.NotifySystem(ctx, 2, "系统维护公告", ""); err != nil {
		t.Fatalf("NotifySystem() error = %v", err)
	}

	list, err := f.service.GetNotificationList(ctx, 2, 1, 10, false)
	if err != nil {
		t.Fatalf("GetNotificationList() error = %v", err)
	}
	if list.List[0].SenderName != "系统通知" {
		t.Errorf("SenderName = %q, want 系统通知", list.List[0].SenderName)
	}
}

func TestGetNotificationListUnreadOnly(t *testing.T) {
	t.Parallel()

	f := newInboxFixture()
	ctx := context.Background()

	if err := f.fanout.NotifyFollow(ctx, 1, 2); err != nil {
		t.Fatalf("NotifyFollow() error = %v", err)
	}
	if err := f.service.MarkAllRead(ctx, 2); err != nil {
		t.Fatalf("MarkAllRead() error = %v", err)
	}
	if err := f.fanout.NotifyAssetLike(ctx, 1, 100); err != nil {
		t.Fatalf("NotifyAssetLike() error = %v", err)
	}

	list, err := f.service.GetNotificationList(ctx, 2, 1, 10, true)
	if err != nil {
		t.Fatalf("GetNotificationList() error = %v", err)
	}
	if list.Total != 1 {
		t.Errorf("unread-only total = %d, want 1", list.Total)
	}
}

func TestMarkReadRequiresIDs(t *testing.T) {
	t.Parallel()

	f := newInboxFixture()
	if err := f.service.MarkRead(context.Background(), 2, nil); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("error = %v, want ErrParamInvalid", err)
	}
}

func TestDeleteNotificationsPushesNewCount(t *testing.T) {
	t.Parallel()

	f := newInboxFixture()
	ctx := context.Background()

	if err := f.fanout.NotifyFollow(ctx, 1, 2); err != nil {
		t.Fatalf("NotifyFollow() error = %v", err)
	}
	rows := f.notificationRepo.rowsFor(2)
	if len(rows) != 1 {
		t.Fatalf("stored %d notifications, want 1", len(rows))
	}

	ch := make(chan sse.Frame, 8)
	f.hub.Registry().Register(2, ch)

	if err := f.service.DeleteNotifications(ctx, 2, []uint64{rows[0].ID}); err != nil {
		t.Fatalf("DeleteNotifications() error = %v", err)
	}

	frame := <-ch
	if frame.Type != sse.FrameTypeUnreadCount {
		t.Fatalf("frame type = %q, want unread_count", frame.Type)
	}
	if payload := frame.Data.(sse.UnreadPayload); payload.Count != 0 {
		t.Errorf("pushed count = %d, want 0", payload.Count)
	}

	if rowsLeft := f.notificationRepo.rowsFor(2); len(rowsLeft) != 0 {
		t.Errorf("%d notifications left after delete, want 0", len(rowsLeft))
	}
}
