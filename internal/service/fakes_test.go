package service

import (
	"context"
	"sync"
	"time"

	"shortlink-accounts/internal/dto"
	"shortlink-accounts/internal/model"
	"shortlink-accounts/internal/store"
	"shortlink-accounts/pkg/password"
)

// fakeLinkStore 内存实现，测试不依赖 MySQL
type fakeLinkStore struct {
	mu    sync.Mutex
	links map[string]*model.Link

	failWith error // 注入存储层错误
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{links: make(map[string]*model.Link)}
}

func (f *fakeLinkStore) GetByID(ctx context.Context, linkID string) (*model.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	link, ok := f.links[linkID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *link
	return &cp, nil
}

func (f *fakeLinkStore) Create(ctx context.Context, originalURL, linkID string, owner *model.User) (*model.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if _, ok := f.links[linkID]; ok {
		return nil, store.ErrDuplicate
	}
	link := &model.Link{
		LinkID:         linkID,
		OriginalURL:    originalURL,
		NumHits:        0,
		LastAccessedOn: time.Now(),
		UserID:         owner.UserID,
		User: &model.User{
			UserID:   owner.UserID,
			Username: owner.Username,
			IsAdmin:  owner.IsAdmin,
			IsPro:    owner.IsPro,
		},
	}
	f.links[linkID] = link
	cp := *link
	return &cp, nil
}

func (f *fakeLinkStore) RecordVisit(ctx context.Context, linkID string) (*model.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	link, ok := f.links[linkID]
	if !ok {
		return nil, store.ErrNotFound
	}
	// 相对存储值自增
	link.NumHits++
	link.LastAccessedOn = time.Now()
	cp := *link
	return &cp, nil
}

func (f *fakeLinkStore) ListByOwner(ctx context.Context, ownerID string, viewerIsOwner bool) ([]dto.LinkView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	views := make([]dto.LinkView, 0)
	for _, link := range f.links {
		if link.UserID == ownerID {
			views = append(views, dto.NewLinkView(link, viewerIsOwner))
		}
	}
	return views, nil
}

func (f *fakeLinkStore) DeleteByID(ctx context.Context, linkID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	delete(f.links, linkID)
	return nil
}

// fakeUserStore 内存实现
type fakeUserStore struct {
	mu     sync.Mutex
	byID   map[string]*model.User
	byName map[string]*model.User
	hashes map[string]string // username -> password hash
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:   make(map[string]*model.User),
		byName: make(map[string]*model.User),
		hashes: make(map[string]string),
	}
}

// addUser 测试用的直接插入
func (f *fakeUserStore) addUser(user *model.User, plaintext string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if plaintext != "" {
		hash, err := password.Hash(plaintext)
		if err != nil {
			panic(err)
		}
		f.hashes[user.Username] = hash
	}
	f.byID[user.UserID] = user
	f.byName[user.Username] = user
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byName[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, userID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserStore) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[username]; ok {
		return nil, store.ErrDuplicate
	}
	f.nextID++
	user := &model.User{
		UserID:   "user-" + username,
		Username: username,
	}
	f.hashes[username] = passwordHash
	f.byID[user.UserID] = user
	f.byName[username] = user
	cp := *user
	return &cp, nil
}

func (f *fakeUserStore) VerifyCredentials(ctx context.Context, username, plaintext string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byName[username]
	if !ok {
		return nil, store.ErrInvalidCredentials
	}
	if !password.Verify(plaintext, f.hashes[username]) {
		return nil, store.ErrInvalidCredentials
	}
	cp := *user
	return &cp, nil
}

// fakeStatStore 内存实现
type fakeStatStore struct {
	mu    sync.Mutex
	stats map[string][]model.DailyStat // linkID -> rows
}

func newFakeStatStore() *fakeStatStore {
	return &fakeStatStore{stats: make(map[string][]model.DailyStat)}
}

func (f *fakeStatStore) UpsertDaily(ctx context.Context, linkID, date string, visits int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.stats[linkID]
	for i := range rows {
		if rows[i].Date == date {
			rows[i].Visits = visits
			return nil
		}
	}
	f.stats[linkID] = append(rows, model.DailyStat{LinkID: linkID, Date: date, Visits: visits})
	return nil
}

func (f *fakeStatStore) ListByLink(ctx context.Context, linkID string) ([]model.DailyStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats[linkID], nil
}

// fakeVisitCounter 记录被计数的 linkID
type fakeVisitCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeVisitCounter() *fakeVisitCounter {
	return &fakeVisitCounter{counts: make(map[string]int)}
}

func (f *fakeVisitCounter) RecordDailyVisit(linkID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[linkID]++
}
