package usage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/tinysteps/internal/logger"
)

type failingStorage struct{}

func (failingStorage) Load(context.Context) ([]Record, error) { return nil, errors.New("disk gone") }
func (failingStorage) Save(context.Context, []Record) error   { return errors.New("disk gone") }

// flakyStorage fails its first loadFails loads.
type flakyStorage struct {
	mu        sync.Mutex
	records   []Record
	loadFails int
	saves     int
}

func (f *flakyStorage) Load(context.Context) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadFails > 0 {
		f.loadFails--
		return nil, errors.New("transient read error")
	}
	return slices.Clone(f.records), nil
}

func (f *flakyStorage) Save(_ context.Context, records []Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = slices.Clone(records)
	f.saves++
	return nil
}

func (f *flakyStorage) snapshot() ([]Record, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.records), f.saves
}

func seededHistory(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{ID: fmt.Sprint("old-", i), TenantID: "school-1", Feature: FeatureLessonGeneration, TokensUsed: 1}
	}
	return out
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStats_ZeroUsage(t *testing.T) {
	r := NewRecorder()
	defer r.Close()

	stats := r.Stats("school-without-usage")
	assert.Equal(t, 0, stats.TotalQueries)
	assert.Equal(t, 0, stats.TotalTokens)
	assert.Equal(t, 0, stats.MonthlyUsage)
	require.NotNil(t, stats.FeatureBreakdown)
	assert.Empty(t, stats.FeatureBreakdown)
}

func TestStats_AggregatesPerTenant(t *testing.T) {
	clock := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	r := NewRecorder(WithClock(fixedClock(clock.AddDate(0, -1, 0))))
	defer r.Close()

	r.Record("teacher-1", "school-1", FeatureLessonGeneration, 1200)

	r.now = fixedClock(clock)
	r.Record("teacher-1", "school-1", FeatureHomeworkGrading, 300)
	r.Record("teacher-2", "school-1", FeatureHomeworkGrading, 250)
	r.Record("teacher-9", "school-2", FeatureSTEMActivity, 900)

	stats := r.Stats("school-1")
	assert.Equal(t, 3, stats.TotalQueries)
	assert.Equal(t, 1750, stats.TotalTokens)
	assert.Equal(t, map[Feature]int{
		FeatureLessonGeneration: 1,
		FeatureHomeworkGrading:  2,
	}, stats.FeatureBreakdown)
	assert.Equal(t, 2, stats.MonthlyUsage, "last month's record is excluded")
}

func TestRecord_ClampsNegativeTokens(t *testing.T) {
	r := NewRecorder()
	defer r.Close()

	rec := r.Record("u", "t", FeatureSTEMActivity, -5)
	assert.Equal(t, 0, rec.TokensUsed)
	assert.NotEmpty(t, rec.ID)
}

func TestRecord_ConcurrentAppends(t *testing.T) {
	r := NewRecorder(WithStorage(NewFileStorage(filepath.Join(t.TempDir(), "usage.json"))))
	defer r.Close()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record("teacher-1", "school-1", FeatureHomeworkGrading, 10)
		}()
	}
	wg.Wait()

	assert.Equal(t, 500, r.Stats("school-1").TotalTokens)
	assert.Len(t, r.Records("school-1"), 50)
}

func TestFileStorage_PersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "usage.json")
	ctx := context.Background()

	first := NewRecorder(WithStorage(NewFileStorage(path)))
	require.NoError(t, first.Load(ctx))
	first.Record("teacher-1", "school-1", FeatureLessonGeneration, 1000)
	first.Record("teacher-1", "school-1", FeatureSTEMActivity, 500)
	require.NoError(t, first.Flush(ctx))
	first.Close()

	_, err := os.Stat(path)
	require.NoError(t, err)

	second := NewRecorder(WithStorage(NewFileStorage(path)))
	defer second.Close()
	second.Record("teacher-2", "school-1", FeatureHomeworkGrading, 100)
	require.NoError(t, second.Load(ctx))

	records := second.Records("school-1")
	require.Len(t, records, 3)
	assert.Equal(t, FeatureLessonGeneration, records[0].Feature)
	assert.Equal(t, FeatureHomeworkGrading, records[2].Feature, "in-session records follow loaded history")
	assert.Equal(t, 1600, second.Stats("school-1").TotalTokens)
}

func TestFileStorage_MissingFileIsEmpty(t *testing.T) {
	records, err := NewFileStorage(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecorder_PersistenceFailureIsLoggedOnly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := NewRecorder(WithStorage(failingStorage{}), WithLogger(logger.FromZap(zap.New(core))))
	defer r.Close()

	assert.Error(t, r.Load(context.Background()))
	rec := r.Record("teacher-1", "school-1", FeatureHomeworkGrading, 42)
	require.NoError(t, r.Flush(context.Background()))

	assert.Equal(t, 42, rec.TokensUsed)
	assert.Equal(t, 1, r.Stats("school-1").TotalQueries)
	assert.NotEmpty(t, logs.FilterMessage("persisting usage failed").All())
}

func TestRecorder_FailedLoadKeepsHistory(t *testing.T) {
	fs := &flakyStorage{records: seededHistory(100), loadFails: 1}
	r := NewRecorder(WithStorage(fs))

	require.Error(t, r.Load(context.Background()))
	rec := r.Record("teacher-1", "school-1", FeatureHomeworkGrading, 10)
	r.Close()

	stored, _ := fs.snapshot()
	require.Len(t, stored, 101)
	assert.Equal(t, "old-0", stored[0].ID)
	assert.Equal(t, rec.ID, stored[100].ID, "new record follows the reloaded history")
}

func TestRecorder_NeverSavesWithoutHistory(t *testing.T) {
	fs := &flakyStorage{records: seededHistory(100), loadFails: 1000}
	r := NewRecorder(WithStorage(fs))

	assert.Error(t, r.Load(context.Background()))
	r.Record("teacher-1", "school-1", FeatureHomeworkGrading, 10)
	require.NoError(t, r.Flush(context.Background()))
	r.Close()

	stored, saves := fs.snapshot()
	assert.Zero(t, saves)
	assert.Len(t, stored, 100)
	assert.Equal(t, 1, r.Stats("school-1").TotalQueries, "in-memory stats still count the record")
}

func TestRecorder_SavesOnCloseAfterLoadRecovers(t *testing.T) {
	fs := &flakyStorage{records: seededHistory(3), loadFails: 2}
	r := NewRecorder(WithStorage(fs))

	assert.Error(t, r.Load(context.Background()))
	r.Record("teacher-1", "school-1", FeatureSTEMActivity, 10)
	require.NoError(t, r.Flush(context.Background()))
	_, saves := fs.snapshot()
	assert.Zero(t, saves)

	r.Close()
	stored, saves := fs.snapshot()
	assert.Equal(t, 1, saves)
	assert.Len(t, stored, 4)
	assert.Equal(t, 13, r.Stats("school-1").TotalTokens)
}

func TestRecorder_WithoutStorage(t *testing.T) {
	r := NewRecorder()
	assert.NoError(t, r.Load(context.Background()))
	r.Record("teacher-1", "school-1", FeatureProgressAnalysis, 7)
	assert.NoError(t, r.Flush(context.Background()))
	r.Close()
	r.Close()
	assert.Len(t, r.Records(""), 1)
}

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("TINYSTEPS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TINYSTEPS_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	key := "tinysteps:test:" + t.Name()

	s, err := DialRedisStorage(ctx, addr, key)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	t.Cleanup(func() { s.rdb.Del(context.Background(), key) })

	records, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	want := []Record{{ID: "1", TenantID: "school-1", Feature: FeatureHomeworkGrading, TokensUsed: 5, Timestamp: time.Now().UTC().Truncate(time.Second)}}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
