package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/ecuations-d/internal/mission"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func summary(session, missionID string, minute, coins, eq int) mission.Summary {
	return mission.Summary{
		SessionID:       session,
		MissionID:       missionID,
		Timestamp:       time.Date(2026, 3, 1, 10, minute, 0, 0, time.UTC),
		Coins:           coins,
		Lives:           3,
		Ammo:            10,
		Treasures:       2,
		EquationsSolved: eq,
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndHistory(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, s := range []mission.Summary{
		summary("s1", "euler", 1, 40, 2),
		summary("s2", "euler", 3, 10, 3),
		summary("s3", "fase", 2, 99, 1),
	} {
		if err := store.SaveSummary(ctx, s); err != nil {
			t.Fatalf("SaveSummary(%s) failed: %v", s.SessionID, err)
		}
	}

	got, err := store.History("euler", 10)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("History returned %d entries, want 2", len(got))
	}
	if got[0].SessionID != "s2" || got[1].SessionID != "s1" {
		t.Errorf("order = %s,%s, want newest first", got[0].SessionID, got[1].SessionID)
	}
	first := got[1]
	if first.Coins != 40 || first.Lives != 3 || first.Ammo != 10 || first.Treasures != 2 || first.EquationsSolved != 2 {
		t.Errorf("round trip lost fields: %+v", first.Summary)
	}
	if !first.Timestamp.Equal(time.Date(2026, 3, 1, 10, 1, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v", first.Timestamp)
	}

	all, err := store.History("", 10)
	if err != nil {
		t.Fatalf("History(all) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("History(all) returned %d entries, want 3", len(all))
	}

	limited, _ := store.History("", 1)
	if len(limited) != 1 || limited[0].SessionID != "s2" {
		t.Errorf("limited history = %+v", limited)
	}
}

func TestSaveSummaryRejectsDuplicateSession(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveSummary(ctx, summary("s1", "euler", 1, 1, 1)); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	err := store.SaveSummary(ctx, summary("s1", "euler", 2, 5, 5))
	if !errors.Is(err, ErrDuplicateSession) {
		t.Errorf("second save error = %v, want ErrDuplicateSession", err)
	}
}

func TestSaveSummaryNeedsIDs(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveSummary(context.Background(), mission.Summary{MissionID: "euler"}); err == nil {
		t.Error("summary without a session id was accepted")
	}
}

func TestBest(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.Best("euler"); err != nil || ok {
		t.Fatalf("Best on empty store = ok %v err %v", ok, err)
	}

	for _, s := range []mission.Summary{
		summary("s1", "euler", 1, 40, 2),
		summary("s2", "euler", 2, 10, 3),
		summary("s3", "euler", 3, 50, 3),
		summary("s4", "euler", 4, 50, 3),
	} {
		if err := store.SaveSummary(ctx, s); err != nil {
			t.Fatalf("SaveSummary failed: %v", err)
		}
	}

	best, ok, err := store.Best("euler")
	if err != nil || !ok {
		t.Fatalf("Best() = ok %v err %v", ok, err)
	}
	if best.SessionID != "s3" {
		t.Errorf("best session = %s, want s3", best.SessionID)
	}
}

func TestMissionStatsAndClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_ = store.SaveSummary(ctx, summary("s1", "euler", 1, 40, 2))
	_ = store.SaveSummary(ctx, summary("s2", "euler", 2, 20, 4))
	_ = store.SaveSummary(ctx, summary("s3", "fase", 3, 7, 1))

	stats, err := store.GetAllMissionStats()
	if err != nil {
		t.Fatalf("GetAllMissionStats() failed: %v", err)
	}
	e := stats["euler"]
	if e == nil {
		t.Fatal("no stats for euler")
	}
	if e.Completions != 2 || e.BestEquations != 4 || e.BestCoins != 40 || e.AvgCoins != 30 || e.TotalTreasures != 4 {
		t.Errorf("euler stats = %+v", e)
	}

	if err := store.ClearSummaries("euler"); err != nil {
		t.Fatalf("ClearSummaries() failed: %v", err)
	}
	left, _ := store.History("", 10)
	if len(left) != 1 || left[0].MissionID != "fase" {
		t.Errorf("after clear = %+v", left)
	}
}
