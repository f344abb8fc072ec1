package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS blobs (
	digest   TEXT PRIMARY KEY,
	content  BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	snapshot_id    TEXT NOT NULL,
	player         TEXT NOT NULL,
	round          INTEGER NOT NULL,
	parent_id      TEXT,
	manifest_json  TEXT NOT NULL,
	created_at     TEXT NOT NULL,
	PRIMARY KEY (player, round)
);

CREATE TABLE IF NOT EXISTS heads (
	player       TEXT PRIMARY KEY,
	snapshot_id  TEXT NOT NULL,
	round        INTEGER NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store manages versioned, content-addressed codebase snapshots in SQLite.
// One Store per tournament namespace. Snapshots are never deleted during a
// tournament, so replay and resume are re-reads of history.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion constructor

// #region init
// Init ingests a baseline working tree as the player's round-0 snapshot.
// Calling Init for a player that already has a head is an error.
func (s *Store) Init(player, baselineDir string) (Snapshot, error) {
	if _, ok, err := s.Head(player); err != nil {
		return Snapshot{}, err
	} else if ok {
		return Snapshot{}, fmt.Errorf("player %s already initialized", player)
	}

	tree, err := readDirTree(baselineDir)
	if err != nil {
		return Snapshot{}, fmt.Errorf("ingest baseline %s: %w", baselineDir, err)
	}
	if len(tree) == 0 {
		return Snapshot{}, fmt.Errorf("baseline %s is empty", baselineDir)
	}
	return s.writeSnapshot(player, 0, "", tree)
}

// #endregion init

// #region commit
// Commit applies a unified-diff patch to prev's tree and stores the result
// as the player's snapshot for the given round. A patch that does not apply
// cleanly returns ErrInvalidPatch and leaves prev as the head.
func (s *Store) Commit(player string, prev Snapshot, round int, patch []byte) (Snapshot, error) {
	tree, err := s.readTree(prev)
	if err != nil {
		return Snapshot{}, err
	}
	next, err := applyPatch(tree, patch)
	if err != nil {
		return Snapshot{}, err
	}
	return s.writeSnapshot(player, round, prev.ID, next)
}

// #endregion commit

// #region checkout
// Checkout materializes a snapshot's working tree under dir.
func (s *Store) Checkout(snap Snapshot, dir string) error {
	for path, digest := range snap.Manifest {
		content, err := s.readBlob(digest)
		if err != nil {
			return err
		}
		dest := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("checkout %s: %w", path, err)
		}
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			return fmt.Errorf("checkout %s: %w", path, err)
		}
	}
	return nil
}

// #endregion checkout

// #region diff
// Diff renders a unified diff between two snapshots for audit.
func (s *Store) Diff(a, b Snapshot) ([]byte, error) {
	treeA, err := s.readTree(a)
	if err != nil {
		return nil, err
	}
	treeB, err := s.readTree(b)
	if err != nil {
		return nil, err
	}
	return diffTrees(treeA, treeB), nil
}

// #endregion diff

// #region reads
// Head returns the player's latest snapshot.
func (s *Store) Head(player string) (Snapshot, bool, error) {
	var id string
	var round int
	err := s.db.QueryRow(`SELECT snapshot_id, round FROM heads WHERE player = ?`, player).Scan(&id, &round)
	if err == sql.ErrNoRows {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("get head %s: %w", player, err)
	}
	snap, err := s.At(player, round)
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

// At returns the snapshot in effect for the player at the given round:
// the latest snapshot whose round is <= round. Static players therefore
// resolve to their round-0 snapshot at every round.
func (s *Store) At(player string, round int) (Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT snapshot_id, player, round, parent_id, manifest_json, created_at
		 FROM snapshots WHERE player = ? AND round <= ?
		 ORDER BY round DESC LIMIT 1`, player, round,
	)
	return scanSnapshot(row)
}

// History returns all of a player's snapshots in round order.
func (s *Store) History(player string) ([]Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT snapshot_id, player, round, parent_id, manifest_json, created_at
		 FROM snapshots WHERE player = ? ORDER BY round ASC`, player,
	)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", player, err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// #endregion reads

// #region internals

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var snap Snapshot
	var parentID sql.NullString
	var manifestJSON, createdStr string

	err := row.Scan(&snap.ID, &snap.Player, &snap.Round, &parentID, &manifestJSON, &createdStr)
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	if parentID.Valid {
		snap.ParentID = parentID.String
	}
	if err := json.Unmarshal([]byte(manifestJSON), &snap.Manifest); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal manifest: %w", err)
	}
	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return snap, nil
}

func (s *Store) writeSnapshot(player string, round int, parentID string, tree map[string][]byte) (Snapshot, error) {
	manifest := make(map[string]string, len(tree))
	for path, content := range tree {
		manifest[path] = blobDigest(content)
	}

	snap := Snapshot{
		ID:        manifestID(manifest),
		Player:    player,
		Round:     round,
		ParentID:  parentID,
		Manifest:  manifest,
		CreatedAt: time.Now().UTC(),
	}

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal manifest: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for path, content := range tree {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO blobs (digest, content) VALUES (?, ?)`,
			manifest[path], content,
		); err != nil {
			return Snapshot{}, fmt.Errorf("insert blob %s: %w", path, err)
		}
	}

	var parentPtr interface{}
	if parentID != "" {
		parentPtr = parentID
	}
	if _, err := tx.Exec(
		`INSERT INTO snapshots (snapshot_id, player, round, parent_id, manifest_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, player, round, parentPtr, string(manifestJSON),
		snap.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO heads (player, snapshot_id, round) VALUES (?, ?, ?)
		 ON CONFLICT(player) DO UPDATE SET snapshot_id = excluded.snapshot_id, round = excluded.round`,
		player, snap.ID, round,
	); err != nil {
		return Snapshot{}, fmt.Errorf("set head: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit: %w", err)
	}
	return snap, nil
}

func (s *Store) readBlob(digest string) ([]byte, error) {
	var content []byte
	err := s.db.QueryRow(`SELECT content FROM blobs WHERE digest = ?`, digest).Scan(&content)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", digest, err)
	}
	return content, nil
}

func (s *Store) readTree(snap Snapshot) (map[string][]byte, error) {
	tree := make(map[string][]byte, len(snap.Manifest))
	for path, digest := range snap.Manifest {
		content, err := s.readBlob(digest)
		if err != nil {
			return nil, err
		}
		tree[path] = content
	}
	return tree, nil
}

// readDirTree walks dir and returns path -> content with slash-separated
// relative paths. VCS metadata is skipped.
func readDirTree(dir string) (map[string][]byte, error) {
	tree := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[strings.ReplaceAll(rel, string(filepath.Separator), "/")] = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// #endregion internals
