package service

import (
	"context"
	"sync"
	"time"

	"github.com/e-hat/PixelShelf-sub001/internal/model"
)

// fakeNotificationRepo 内存版通知仓储，测试用
type fakeNotificationRepo struct {
	mu           sync.Mutex
	nextID       uint64
	rows         []*model.Notification
	createErrFor map[uint64]error // 指定接收者落库失败，模拟部分失败
	countErr     error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{createErrFor: make(map[uint64]error)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.createErrFor[n.ReceiverID]; ok {
		return err
	}
	f.nextID++
	n.ID = f.nextID
	stored := *n
	f.rows = append(f.rows, &stored)
	return nil
}

func (f *fakeNotificationRepo) List(_ context.Context, userID uint64, limit, offset int, unreadOnly bool) ([]*model.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*model.Notification
	for _, r := range f.rows {
		if r.ReceiverID != userID {
			continue
		}
		if unreadOnly && r.Read {
			continue
		}
		matched = append(matched, r)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	var count int64
	for _, r := range f.rows {
		if r.ReceiverID == userID && !r.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, userID uint64, ids []uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idSet := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	for _, r := range f.rows {
		if _, ok := idSet[r.ID]; ok && r.ReceiverID == userID {
			r.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ReceiverID == userID {
			r.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, userID uint64, ids []uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idSet := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	kept := f.rows[:0]
	for _, r := range f.rows {
		if _, ok := idSet[r.ID]; ok && r.ReceiverID == userID {
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return nil
}

func (f *fakeNotificationRepo) DeleteReadBefore(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.Read && r.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return deleted, nil
}

// rowsFor 返回某个接收者的所有通知
func (f *fakeNotificationRepo) rowsFor(userID uint64) []*model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*model.Notification
	for _, r := range f.rows {
		if r.ReceiverID == userID {
			matched = append(matched, r)
		}
	}
	return matched
}

type fakeUserRepo struct {
	users map[uint64]*model.User
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, userID uint64) (*model.User, error) {
	return f.users[userID], nil
}

func (f *fakeUserRepo) GetUsersByIDs(_ context.Context, userIDs []uint64) ([]*model.User, error) {
	var res []*model.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

type fakeAssetRepo struct {
	assets map[uint64]*model.Asset
}

func (f *fakeAssetRepo) GetAssetByID(_ context.Context, assetID uint64) (*model.Asset, error) {
	return f.assets[assetID], nil
}

type fakeProjectRepo struct {
	projects map[uint64]*model.Project
}

func (f *fakeProjectRepo) GetProjectByID(_ context.Context, projectID uint64) (*model.Project, error) {
	return f.projects[projectID], nil
}

type fakeCommentRepo struct {
	comments map[uint64]*model.AssetComment
}

func (f *fakeCommentRepo) GetCommentByID(_ context.Context, commentID uint64) (*model.AssetComment, error) {
	return f.comments[commentID], nil
}
