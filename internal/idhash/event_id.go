// Package idhash computes deterministic identifiers for detection output.
package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// ComputeEventID computes a deterministic event_id.
// Formula: base58(SHA256(run_id|channel_id|start_index|end_index)).
// The same event in the same run always hashes to the same id, which keeps
// re-runs against an append-only store idempotent.
func ComputeEventID(runID string, channelID int, startIndex, endIndex int64) string {
	data := fmt.Sprintf("%s|%d|%d|%d", runID, channelID, startIndex, endIndex)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
