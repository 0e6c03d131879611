package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// MoreText is the ellipsis used when shortening filenames and tracebacks.
const MoreText = "..."

// FormatSize renders a byte size in a human-readable IEC form, e.g. "1.5 KiB".
func FormatSize(size int64) string {
	if size < 0 {
		return "-" + humanize.IBytes(uint64(-size))
	}
	return humanize.IBytes(uint64(size))
}

// FormatSignedSize renders a byte delta with an explicit sign, e.g. "+1.5 KiB".
func FormatSignedSize(size int64) string {
	if size < 0 {
		return "-" + humanize.IBytes(uint64(-size))
	}
	return "+" + humanize.IBytes(uint64(size))
}

// FormatCount renders an allocation count with thousand separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatSignedCount renders a count delta with an explicit sign.
func FormatSignedCount(n int64) string {
	if n < 0 {
		return humanize.Comma(n)
	}
	return "+" + humanize.Comma(n)
}

// ShortenFilename keeps at most maxParts trailing path components,
// prefixing the result with an ellipsis when components were dropped.
func ShortenFilename(filename string, maxParts int) string {
	if maxParts <= 0 {
		return filename
	}
	parts := strings.Split(filename, string(os.PathSeparator))
	if len(parts) <= maxParts {
		return filename
	}
	shortened := append([]string{MoreText}, parts[len(parts)-maxParts:]...)
	return filepath.Join(shortened...)
}

// FormatPercent renders a 0..1 ratio as a percentage with one decimal.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f %%", ratio*100.0)
}
