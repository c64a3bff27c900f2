package common

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// SourceFingerprint derives the cache validity marker for an uploaded
// workbook: format-aware, content-addressed, and cheap to compare.
func SourceFingerprint(formatVersion int, data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("v%d:%d:%s", formatVersion, len(data), hex.EncodeToString(sum[:8]))
}
