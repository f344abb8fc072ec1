package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"time"
)

// ErrInvalidPatch marks a patch that cannot apply cleanly to its base
// snapshot. Recorded per player per round; never aborts a tournament.
var ErrInvalidPatch = errors.New("invalid patch")

// #region snapshot
// Snapshot is one immutable, content-addressed codebase revision.
// Keyed by (player, round); owned exclusively by the Store.
type Snapshot struct {
	ID        string
	Player    string
	Round     int
	ParentID  string
	Manifest  map[string]string // path -> blob digest
	CreatedAt time.Time
}

// #endregion snapshot

// #region digests
// blobDigest addresses file content.
func blobDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// manifestID derives the snapshot id from the manifest alone, so two
// identical trees always share an id regardless of player or round.
func manifestID(manifest map[string]string) string {
	paths := make([]string, 0, len(manifest))
	for p := range manifest {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, p := range paths {
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write([]byte(manifest[p]))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// #endregion digests
