package service

import (
	"context"
	"errors"
	"testing"

	"shortlink-accounts/internal/apperrors"
	"shortlink-accounts/internal/model"
	"shortlink-accounts/internal/session"
	"shortlink-accounts/pkg/hashid"
)

func authedSession(userID string, isPro, isAdmin bool) *session.Session {
	return &session.Session{
		ID:            "test-session",
		Authenticated: true,
		Identity: session.Identity{
			UserID:   userID,
			Username: "user-" + userID,
			IsPro:    isPro,
			IsAdmin:  isAdmin,
		},
	}
}

func kindOf(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperrors.AppError, got %T: %v", err, err)
	}
	return appErr.Kind
}

// TestCreateLink 覆盖认证、配额与冲突各分支
func TestCreateLink(t *testing.T) {
	const url = "https://example.com"

	tests := []struct {
		name          string
		existingLinks int
		isPro         bool
		isAdmin       bool
		sess          func() *session.Session
		userExists    bool
		expectedKind  string
	}{
		{
			name: "unauthenticated",
			sess: func() *session.Session { return &session.Session{} },

			userExists:   true,
			expectedKind: apperrors.KindUnauthorized,
		},
		{
			name:         "acting user vanished",
			sess:         func() *session.Session { return authedSession("ghost", false, false) },
			userExists:   false,
			expectedKind: apperrors.KindNotFound,
		},
		{
			name:          "fifth link allowed",
			existingLinks: 4,
			sess:          func() *session.Session { return authedSession("u1", false, false) },
			userExists:    true,
		},
		{
			name:          "sixth link rejected",
			existingLinks: 5,
			sess:          func() *session.Session { return authedSession("u1", false, false) },
			userExists:    true,
			expectedKind:  apperrors.KindQuotaExceeded,
		},
		{
			name:          "admin and pro bypass quota",
			existingLinks: 12,
			isPro:         true,
			isAdmin:       true,
			sess:          func() *session.Session { return authedSession("u1", true, true) },
			userExists:    true,
		},
		{
			name:          "admin alone is not exempt",
			existingLinks: 5,
			isAdmin:       true,
			sess:          func() *session.Session { return authedSession("u1", false, true) },
			userExists:    true,
			expectedKind:  apperrors.KindQuotaExceeded,
		},
		{
			name:          "pro alone is not exempt",
			existingLinks: 5,
			isPro:         true,
			sess:          func() *session.Session { return authedSession("u1", true, false) },
			userExists:    true,
			expectedKind:  apperrors.KindQuotaExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			linkStore := newFakeLinkStore()
			userStore := newFakeUserStore()
			svc := NewLinkService(linkStore, userStore, newFakeStatStore(), newFakeVisitCounter())

			if tt.userExists {
				userStore.addUser(&model.User{
					UserID:   "u1",
					Username: "user-u1",
					IsPro:    tt.isPro,
					IsAdmin:  tt.isAdmin,
					Links:    make([]model.Link, tt.existingLinks),
				}, "")
			}

			link, err := svc.CreateLink(context.Background(), tt.sess(), url)

			if tt.expectedKind != "" {
				if got := kindOf(t, err); got != tt.expectedKind {
					t.Fatalf("expected kind %s, got %s", tt.expectedKind, got)
				}
				return
			}

			if err != nil {
				t.Fatalf("CreateLink failed: %v", err)
			}
			if len(link.LinkID) != hashid.LinkIDLength {
				t.Errorf("link id length = %d, want %d", len(link.LinkID), hashid.LinkIDLength)
			}
			if link.LinkID != hashid.Derive(url, "u1") {
				t.Errorf("link id not derived from (url, owner): %s", link.LinkID)
			}
			if link.NumHits != 0 {
				t.Errorf("new link numHits = %d, want 0", link.NumHits)
			}
		})
	}
}

// TestCreateLink_Duplicate 同一用户重复提交同一 URL 必然撞键
func TestCreateLink_Duplicate(t *testing.T) {
	linkStore := newFakeLinkStore()
	userStore := newFakeUserStore()
	svc := NewLinkService(linkStore, userStore, newFakeStatStore(), newFakeVisitCounter())

	userStore.addUser(&model.User{UserID: "u1", Username: "alice"}, "")

	sess := authedSession("u1", false, false)
	if _, err := svc.CreateLink(context.Background(), sess, "https://example.com"); err != nil {
		t.Fatalf("first CreateLink failed: %v", err)
	}

	_, err := svc.CreateLink(context.Background(), sess, "https://example.com")
	if got := kindOf(t, err); got != apperrors.KindConflict {
		t.Fatalf("expected kind %s, got %s", apperrors.KindConflict, got)
	}
}

func TestResolve(t *testing.T) {
	linkStore := newFakeLinkStore()
	userStore := newFakeUserStore()
	visits := newFakeVisitCounter()
	svc := NewLinkService(linkStore, userStore, newFakeStatStore(), visits)

	userStore.addUser(&model.User{UserID: "u1", Username: "alice"}, "")
	sess := authedSession("u1", false, false)
	created, err := svc.CreateLink(context.Background(), sess, "https://example.com")
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}

	// 连续解析 N 次，numHits 严格加 N
	const n = 5
	var last *model.Link
	for i := 1; i <= n; i++ {
		last, err = svc.Resolve(context.Background(), created.LinkID)
		if err != nil {
			t.Fatalf("Resolve #%d failed: %v", i, err)
		}
		if last.NumHits != int64(i) {
			t.Fatalf("after %d visits numHits = %d", i, last.NumHits)
		}
	}
	if last.OriginalURL != "https://example.com" {
		t.Errorf("resolved URL = %s", last.OriginalURL)
	}
	if visits.counts[created.LinkID] != n {
		t.Errorf("daily visit counter = %d, want %d", visits.counts[created.LinkID], n)
	}
}

func TestResolve_NotFound(t *testing.T) {
	svc := NewLinkService(newFakeLinkStore(), newFakeUserStore(), newFakeStatStore(), newFakeVisitCounter())

	_, err := svc.Resolve(context.Background(), "missing99")
	if got := kindOf(t, err); got != apperrors.KindNotFound {
		t.Fatalf("expected kind %s, got %s", apperrors.KindNotFound, got)
	}
}

// TestListLinks 校验两种投影和空结果策略
func TestListLinks(t *testing.T) {
	linkStore := newFakeLinkStore()
	userStore := newFakeUserStore()
	svc := NewLinkService(linkStore, userStore, newFakeStatStore(), newFakeVisitCounter())

	userStore.addUser(&model.User{UserID: "u1", Username: "alice", IsPro: true}, "")
	owner := authedSession("u1", true, false)
	created, err := svc.CreateLink(context.Background(), owner, "https://example.com")
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), created.LinkID); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// 本人视角：完整投影
	views, err := svc.ListLinks(context.Background(), owner, "u1")
	if err != nil {
		t.Fatalf("ListLinks (owner) failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("owner view count = %d, want 1", len(views))
	}
	full := views[0]
	if full.NumHits == nil || *full.NumHits != 1 {
		t.Errorf("owner view numHits = %v, want 1", full.NumHits)
	}
	if full.LastAccessedOn == nil {
		t.Error("owner view missing lastAccessedOn")
	}
	if full.User.IsPro == nil || !*full.User.IsPro {
		t.Errorf("owner view isPro = %v, want true", full.User.IsPro)
	}

	// 他人视角：隐藏访问统计
	other := authedSession("u2", false, false)
	views, err = svc.ListLinks(context.Background(), other, "u1")
	if err != nil {
		t.Fatalf("ListLinks (other) failed: %v", err)
	}
	redacted := views[0]
	if redacted.NumHits != nil {
		t.Errorf("redacted view leaked numHits = %d", *redacted.NumHits)
	}
	if redacted.LastAccessedOn != nil {
		t.Error("redacted view leaked lastAccessedOn")
	}
	if redacted.User.IsPro != nil {
		t.Error("redacted view leaked isPro")
	}
	if redacted.User.UserID != "u1" || redacted.User.Username != "alice" {
		t.Errorf("redacted view owner identity = %+v", redacted.User)
	}

	// 没有任何短链时返回 NotFound 而不是空列表
	_, err = svc.ListLinks(context.Background(), other, "u2")
	if got := kindOf(t, err); got != apperrors.KindNotFound {
		t.Fatalf("expected kind %s, got %s", apperrors.KindNotFound, got)
	}
}

// TestDeleteLink 覆盖所有者、管理员与越权分支
func TestDeleteLink(t *testing.T) {
	setup := func(t *testing.T) (*LinkService, *fakeLinkStore, string) {
		t.Helper()
		linkStore := newFakeLinkStore()
		userStore := newFakeUserStore()
		svc := NewLinkService(linkStore, userStore, newFakeStatStore(), newFakeVisitCounter())
		userStore.addUser(&model.User{UserID: "u1", Username: "alice"}, "")
		link, err := svc.CreateLink(context.Background(), authedSession("u1", false, false), "https://example.com")
		if err != nil {
			t.Fatalf("CreateLink failed: %v", err)
		}
		return svc, linkStore, link.LinkID
	}

	t.Run("unauthenticated", func(t *testing.T) {
		svc, _, linkID := setup(t)
		err := svc.DeleteLink(context.Background(), &session.Session{}, "u1", linkID)
		if got := kindOf(t, err); got != apperrors.KindUnauthorized {
			t.Fatalf("expected kind %s, got %s", apperrors.KindUnauthorized, got)
		}
	})

	t.Run("non-owner non-admin forbidden", func(t *testing.T) {
		svc, _, linkID := setup(t)
		err := svc.DeleteLink(context.Background(), authedSession("u2", false, false), "u1", linkID)
		if got := kindOf(t, err); got != apperrors.KindForbidden {
			t.Fatalf("expected kind %s, got %s", apperrors.KindForbidden, got)
		}
	})

	t.Run("admin may delete for another user", func(t *testing.T) {
		svc, linkStore, linkID := setup(t)
		if err := svc.DeleteLink(context.Background(), authedSession("admin", false, true), "u1", linkID); err != nil {
			t.Fatalf("DeleteLink as admin failed: %v", err)
		}
		if _, ok := linkStore.links[linkID]; ok {
			t.Error("link still present after delete")
		}
	})

	t.Run("owner may delete", func(t *testing.T) {
		svc, linkStore, linkID := setup(t)
		if err := svc.DeleteLink(context.Background(), authedSession("u1", false, false), "u1", linkID); err != nil {
			t.Fatalf("DeleteLink as owner failed: %v", err)
		}
		if _, ok := linkStore.links[linkID]; ok {
			t.Error("link still present after delete")
		}
	})

	t.Run("missing link not found", func(t *testing.T) {
		svc, _, _ := setup(t)
		err := svc.DeleteLink(context.Background(), authedSession("u1", false, false), "u1", "missing99")
		if got := kindOf(t, err); got != apperrors.KindNotFound {
			t.Fatalf("expected kind %s, got %s", apperrors.KindNotFound, got)
		}
	})
}

// TestLinkStats 统计只对所有者或管理员可见
func TestLinkStats(t *testing.T) {
	linkStore := newFakeLinkStore()
	userStore := newFakeUserStore()
	statStore := newFakeStatStore()
	svc := NewLinkService(linkStore, userStore, statStore, newFakeVisitCounter())

	userStore.addUser(&model.User{UserID: "u1", Username: "alice"}, "")
	link, err := svc.CreateLink(context.Background(), authedSession("u1", false, false), "https://example.com")
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}
	if err := statStore.UpsertDaily(context.Background(), link.LinkID, "2026-09-01", 7); err != nil {
		t.Fatalf("UpsertDaily failed: %v", err)
	}

	if _, err := svc.LinkStats(context.Background(), &session.Session{}, link.LinkID); err == nil {
		t.Fatal("expected error for unauthenticated stats request")
	}

	_, err = svc.LinkStats(context.Background(), authedSession("u2", false, false), link.LinkID)
	if got := kindOf(t, err); got != apperrors.KindForbidden {
		t.Fatalf("expected kind %s, got %s", apperrors.KindForbidden, got)
	}

	stats, err := svc.LinkStats(context.Background(), authedSession("u1", false, false), link.LinkID)
	if err != nil {
		t.Fatalf("LinkStats as owner failed: %v", err)
	}
	if len(stats) != 1 || stats[0].Visits != 7 {
		t.Errorf("stats = %+v", stats)
	}

	// 管理员同样可见
	if _, err := svc.LinkStats(context.Background(), authedSession("admin", false, true), link.LinkID); err != nil {
		t.Fatalf("LinkStats as admin failed: %v", err)
	}
}
