package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingReader struct {
	projects  []Project
	summary   WorkbenchSummary
	err       error
	projCalls int
	workCalls int
}

func (r *countingReader) FetchProjects(context.Context) ([]Project, error) {
	r.projCalls++
	return r.projects, r.err
}

func (r *countingReader) FetchWorkbenchSummary(context.Context, string) (WorkbenchSummary, error) {
	r.workCalls++
	return r.summary, r.err
}

func testCache(t *testing.T, base Reader) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(base, client, time.Minute), mr
}

func TestCacheServesSecondProjectReadFromRedis(t *testing.T) {
	base := &countingReader{projects: []Project{{ID: "p1", Name: "Apollo"}}}
	cache, _ := testCache(t, base)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		projects, err := cache.FetchProjects(ctx)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if len(projects) != 1 || projects[0].ID != "p1" {
			t.Fatalf("fetch %d: %+v", i, projects)
		}
	}
	if base.projCalls != 1 {
		t.Fatalf("collaborator hit %d times, want 1", base.projCalls)
	}
}

func TestCacheKeysWorkbenchPerUser(t *testing.T) {
	base := &countingReader{summary: WorkbenchSummary{Assigned: 2}}
	cache, _ := testCache(t, base)
	ctx := context.Background()

	if _, err := cache.FetchWorkbenchSummary(ctx, "u1"); err != nil {
		t.Fatalf("u1: %v", err)
	}
	if _, err := cache.FetchWorkbenchSummary(ctx, "u2"); err != nil {
		t.Fatalf("u2: %v", err)
	}
	if _, err := cache.FetchWorkbenchSummary(ctx, "u1"); err != nil {
		t.Fatalf("u1 again: %v", err)
	}
	if base.workCalls != 2 {
		t.Fatalf("collaborator hit %d times, want 2", base.workCalls)
	}
}

func TestCacheDiscardsCorruptEntries(t *testing.T) {
	base := &countingReader{projects: []Project{{ID: "p1"}}}
	cache, mr := testCache(t, base)
	ctx := context.Background()

	mr.Set(projectsCacheKey, "{corrupt")

	projects, err := cache.FetchProjects(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("unexpected projects: %+v", projects)
	}
	if base.projCalls != 1 {
		t.Fatalf("collaborator hit %d times, want 1", base.projCalls)
	}
	// The corrupt entry is replaced by the fresh result.
	stored, err := mr.Get(projectsCacheKey)
	if err != nil {
		t.Fatalf("cache entry missing after repair: %v", err)
	}
	if stored == "{corrupt" {
		t.Fatal("corrupt entry survived")
	}
}

func TestCachePropagatesCollaboratorFailures(t *testing.T) {
	base := &countingReader{err: &CollaboratorError{Code: 7, Message: "down"}}
	cache, _ := testCache(t, base)

	_, err := cache.FetchProjects(context.Background())
	var collabErr *CollaboratorError
	if !errors.As(err, &collabErr) {
		t.Fatalf("error type lost through cache: %v", err)
	}
}

func TestCacheWithoutRedisPassesThrough(t *testing.T) {
	base := &countingReader{projects: []Project{{ID: "p1"}}}
	cache := NewCache(base, nil, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := cache.FetchProjects(ctx); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if base.projCalls != 2 {
		t.Fatalf("collaborator hit %d times, want 2", base.projCalls)
	}
}
