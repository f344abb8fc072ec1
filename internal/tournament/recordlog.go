package tournament

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/round"
)

// RecordsFile is the append-only round record log inside a tournament's
// output directory: one JSON record per line, one line per round.
const RecordsFile = "rounds.jsonl"

// #region append
// AppendRecord appends one round record to the log and syncs it before the
// next round may start.
func AppendRecord(path string, rec round.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open record log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync record log: %w", err)
	}
	return nil
}

// #endregion append

// #region load
// LoadRecords reads the round record log. A missing file is an empty
// history, which is how a fresh tournament starts.
func LoadRecords(path string) ([]round.Record, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open record log: %w", err)
	}
	defer f.Close()

	var records []round.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec round.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("parse record log line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read record log: %w", err)
	}

	for i, rec := range records {
		if rec.Round != i+1 {
			return nil, fmt.Errorf("record log corrupt: line %d has round %d", i+1, rec.Round)
		}
	}
	return records, nil
}

// #endregion load
