package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func sampleSession(id string) *Session {
	return &Session{
		ID:        id,
		Reference: day(2025, 2, 1),
		Mode:      ModeBoth,
		Lang:      LangArabic,
		UpdatedAt: fixedNow,
	}
}

func TestMemorySessionStore_RoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(30 * time.Minute)
	clock := fixedNow
	store.(*memorySessionStore).now = func() time.Time { return clock }

	if err := store.Save(ctx, sampleSession("s1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, "s1")
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.Reference != day(2025, 2, 1) || got.Mode != ModeBoth || got.Lang != LangArabic {
		t.Errorf("unexpected session: %+v", got)
	}

	clock = clock.Add(31 * time.Minute)
	if got, _ := store.Get(ctx, "s1"); got != nil {
		t.Error("expected session to expire")
	}
}

func TestMemorySessionStore_MissingAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(0)

	if got, err := store.Get(ctx, "nope"); got != nil || err != nil {
		t.Errorf("expected nil, nil for a missing session, got %v, %v", got, err)
	}
	_ = store.Save(ctx, sampleSession("s1"))
	_ = store.Delete(ctx, "s1")
	if got, _ := store.Get(ctx, "s1"); got != nil {
		t.Error("expected deleted session to be gone")
	}
}

func TestMemorySessionStore_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Hour)
	_ = store.Save(ctx, sampleSession("s1"))

	got, _ := store.Get(ctx, "s1")
	got.Next()

	again, _ := store.Get(ctx, "s1")
	if again.Reference != day(2025, 2, 1) {
		t.Errorf("store mutated without save: %s", again.Reference)
	}
}

func newRedisStore(t *testing.T, ttl time.Duration) (SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisSessionStore(rdb, ttl), mr
}

func TestRedisSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	if err := store.Save(ctx, sampleSession("s1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists(sessionKeyPrefix + "s1") {
		t.Fatal("expected session key in Redis")
	}
	if ttl := mr.TTL(sessionKeyPrefix + "s1"); ttl != time.Hour {
		t.Errorf("expected 1h TTL, got %v", ttl)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.Reference != day(2025, 2, 1) || got.Mode != ModeBoth || !got.UpdatedAt.Equal(fixedNow) {
		t.Errorf("unexpected session: %+v", got)
	}
}

func TestRedisSessionStore_ExpiryAndDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 10*time.Minute)

	if got, err := store.Get(ctx, "missing"); got != nil || err != nil {
		t.Errorf("expected nil, nil for a missing session, got %v, %v", got, err)
	}

	_ = store.Save(ctx, sampleSession("s1"))
	mr.FastForward(11 * time.Minute)
	if got, _ := store.Get(ctx, "s1"); got != nil {
		t.Error("expected session to expire")
	}

	_ = store.Save(ctx, sampleSession("s2"))
	if err := store.Delete(ctx, "s2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists(sessionKeyPrefix + "s2") {
		t.Error("expected session key to be deleted")
	}
}

func TestRedisSessionStore_CorruptValue(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	_ = mr.Set(sessionKeyPrefix+"bad", "not json")
	if _, err := store.Get(context.Background(), "bad"); err == nil {
		t.Error("expected error for a corrupt session value")
	}
}

func TestService_WithRedisSessions(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, time.Hour)
	svc := newTestService(NewMemoryEventRepository(), store)

	sess, err := svc.StartSession(ctx, StartSessionInput{Mode: "hijri", Date: "2025-02-15"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Navigate(ctx, sess.ID, DirPrevious); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	got, err := svc.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// One Hijri month before Sha'ban 1446 is 1 Rajab 1446 = 2025-01-01.
	if got.Reference != day(2025, 1, 1) {
		t.Errorf("expected 2025-01-01, got %s", got.Reference)
	}
}
