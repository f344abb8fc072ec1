package tournament

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/arena"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/round"
)

func winRecord(roundNum int, winner string) round.Record {
	w := winner
	return round.Record{
		Round: roundNum,
		State: round.StateComplete,
		Result: &arena.MatchResult{
			Outcome: arena.OutcomeWin,
			Winner:  &w,
			Scores:  map[string]float64{winner: 1},
		},
		Players: map[string]*round.PlayerStats{
			winner: {Status: round.PlayerOK, Snapshot: "snap-" + winner},
		},
	}
}

func tieRecord(roundNum int) round.Record {
	return round.Record{
		Round:   roundNum,
		State:   round.StateComplete,
		Result:  &arena.MatchResult{Outcome: arena.OutcomeTie},
		Players: map[string]*round.PlayerStats{},
	}
}

func failedRecord(roundNum int) round.Record {
	return round.Record{
		Round:   roundNum,
		State:   round.StateFailed,
		Error:   "arena crashed",
		Players: map[string]*round.PlayerStats{},
	}
}

func TestAppendAndLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), RecordsFile)

	for _, rec := range []round.Record{winRecord(1, "alice"), tieRecord(2), winRecord(3, "bob")} {
		if err := AppendRecord(path, rec); err != nil {
			t.Fatalf("AppendRecord: %v", err)
		}
	}

	records, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Result == nil || *records[0].Result.Winner != "alice" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Result.Outcome != arena.OutcomeTie {
		t.Fatalf("expected tie in round 2, got %+v", records[1].Result)
	}
	if records[1].Result.Winner != nil {
		t.Fatal("a tie must round-trip with a null winner")
	}
	if records[0].Players["alice"].Snapshot != "snap-alice" {
		t.Fatalf("player stats must round-trip, got %+v", records[0].Players["alice"])
	}
}

func TestLoadRecordsMissingFile(t *testing.T) {
	records, err := LoadRecords(filepath.Join(t.TempDir(), RecordsFile))
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if records != nil {
		t.Fatal("a missing log is an empty history")
	}
}

func TestLoadRecordsOutOfSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), RecordsFile)
	if err := AppendRecord(path, winRecord(1, "alice")); err != nil {
		t.Fatalf("AppendRecord: %v", err)
	}
	if err := AppendRecord(path, winRecord(3, "bob")); err != nil {
		t.Fatalf("AppendRecord: %v", err)
	}
	if _, err := LoadRecords(path); err == nil {
		t.Fatal("expected error for a gap in round numbers")
	}
}

func TestLoadRecordsCorruptLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), RecordsFile)
	if err := os.WriteFile(path, []byte("{not json\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadRecords(path); err == nil {
		t.Fatal("expected error for unparseable line")
	}
}
