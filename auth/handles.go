package auth

import (
	"strconv"

	"flockr/db"
)

// generateHandle concatenates the names, cut to 20 characters. A taken
// handle gives up its tail to a numeric suffix starting at the user count.
func generateHandle(tx *db.Tx, first, last string) string {
	base := []rune(first + last)
	if len(base) > MaxHandleLength {
		base = base[:MaxHandleLength]
	}
	handle := string(base)
	if tx.UserByHandle(handle) == nil {
		return handle
	}

	for n := tx.NumUsers(); ; n++ {
		suffix := strconv.Itoa(n)
		keep := len(base) - len(suffix)
		if keep < 0 {
			keep = 0
		}
		candidate := string(base[:keep]) + suffix
		if tx.UserByHandle(candidate) == nil {
			return candidate
		}
	}
}
