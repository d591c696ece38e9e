package utils

import "github.com/dustin/go-humanize"

// HumanizeBytes formats a byte count into a readable string using IEC units,
// e.g. 1536 -> "1.5 KiB".
func HumanizeBytes(b uint64) string {
	return humanize.IBytes(b)
}
