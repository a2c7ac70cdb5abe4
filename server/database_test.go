package main

import (
	"path/filepath"
	"testing"
)

// openTestDB opens a fresh database in a temp dir, closed on cleanup
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreatePlayerAndLookup(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreatePlayer("alice", "hash")
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	p, err := db.GetPlayerByUsername("alice")
	if err != nil || p == nil {
		t.Fatalf("GetPlayerByUsername: %v", err)
	}
	if p.ID != id || p.PassHash != "hash" {
		t.Errorf("unexpected row %+v", p)
	}
	if byID, _ := db.GetPlayerByID(id); byID == nil || byID.Username != "alice" {
		t.Errorf("GetPlayerByID returned %+v", byID)
	}

	exists, err := db.UsernameExists("alice")
	if err != nil || !exists {
		t.Errorf("UsernameExists = %v, %v", exists, err)
	}
	if _, err := db.CreatePlayer("alice", "other"); err == nil {
		t.Error("duplicate usernames should be rejected")
	}
}

func TestMissingRowsReturnNil(t *testing.T) {
	db := openTestDB(t)
	if p, err := db.GetPlayerByUsername("nobody"); p != nil || err != nil {
		t.Errorf("expected nil, nil; got %+v, %v", p, err)
	}
	if p, err := db.GetPlayerByID(42); p != nil || err != nil {
		t.Errorf("expected nil, nil; got %+v, %v", p, err)
	}
	if s, err := db.GetStats(42); s != nil || err != nil {
		t.Errorf("expected nil, nil; got %+v, %v", s, err)
	}
}

func TestRecordRunFoldsIntoStats(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreatePlayer("bob", "hash")

	runs := []RunRow{
		{PlayerID: id, SessionID: "s1", Region: "default", Weapon: 2, WaveReached: 5, Kills: 12, Deaths: 1, Duration: 90},
		{PlayerID: id, SessionID: "s2", Region: "default", Weapon: 0, WaveReached: 3, Kills: 4, Deaths: 2, Duration: 30},
	}
	for _, r := range runs {
		if _, err := db.RecordRun(r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	s, err := db.GetStats(id)
	if err != nil || s == nil {
		t.Fatalf("GetStats: %v", err)
	}
	if s.Runs != 2 || s.Kills != 16 || s.Deaths != 3 {
		t.Errorf("unexpected totals %+v", s)
	}
	if s.BestWave != 5 {
		t.Errorf("best wave should keep the maximum, got %d", s.BestWave)
	}
	if s.Playtime != 120 {
		t.Errorf("expected 120s playtime, got %f", s.Playtime)
	}

	got, err := db.GetRuns(id, 10)
	if err != nil {
		t.Fatalf("GetRuns: %v", err)
	}
	if len(got) != 2 || got[0].SessionID != "s2" {
		t.Errorf("runs should be newest first, got %+v", got)
	}
	if got, _ := db.GetRuns(id, 1); len(got) != 1 {
		t.Errorf("limit not applied, got %d", len(got))
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	db := openTestDB(t)
	a, _ := db.CreatePlayer("killer", "h")
	b, _ := db.CreatePlayer("survivor", "h")
	db.RecordRun(RunRow{PlayerID: a, Kills: 30, Deaths: 10, WaveReached: 2})
	db.RecordRun(RunRow{PlayerID: b, Kills: 10, Deaths: 1, WaveReached: 9})

	tests := []struct {
		by    string
		first string
	}{
		{"kills", "killer"},
		{"wave", "survivor"},
		{"kd", "survivor"},
		{"; DROP TABLE players", "killer"}, // unknown columns fall back to kills
	}
	for _, tt := range tests {
		board, err := db.GetLeaderboard(tt.by, 10)
		if err != nil {
			t.Fatalf("GetLeaderboard(%q): %v", tt.by, err)
		}
		if len(board) != 2 || board[0].Username != tt.first {
			t.Errorf("GetLeaderboard(%q) first = %+v, want %s", tt.by, board, tt.first)
			continue
		}
		if board[0].Rank != 1 || board[1].Rank != 2 {
			t.Errorf("ranks not assigned: %+v", board)
		}
	}
}

func TestSettingsUpsert(t *testing.T) {
	db := openTestDB(t)
	if v := db.GetSetting("missing"); v != "" {
		t.Errorf("expected empty, got %q", v)
	}
	db.SetSetting("k", "one")
	db.SetSetting("k", "two")
	if v := db.GetSetting("k"); v != "two" {
		t.Errorf("expected two, got %q", v)
	}
}
