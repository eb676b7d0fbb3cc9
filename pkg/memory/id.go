package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	fileExt = ".md"

	// idTimeLayout is the timestamp prefix of every entry id and filename.
	idTimeLayout = "2006-01-02_15-04-05"
	// createdLayout is how the created header field is written.
	createdLayout = time.RFC3339

	untitledSlug = "untitled"
)

// Slugify lowercases title and collapses every run of characters outside
// [a-z0-9] into a single hyphen, trimming hyphens at both ends.
func Slugify(title string) string {
	var sb strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return sb.String()
}

func knowledgeID(created time.Time, title string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = untitledSlug
	}
	return created.UTC().Format(idTimeLayout) + "_" + slug
}

func journalID(created time.Time) string {
	return created.UTC().Format(idTimeLayout)
}

// allocateID returns base when no file named base.md exists in dir,
// otherwise the first free base-N with N starting at 2. Two entries
// created in the same second with the same slug therefore never share
// a file.
func allocateID(dir, base string) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		_, err := os.Stat(filepath.Join(dir, candidate+fileExt))
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: stat %s: %w", ErrIO, candidate, err)
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// createdFromID recovers the creation time encoded in an id prefix.
func createdFromID(id string) (time.Time, bool) {
	if len(id) < len(idTimeLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(idTimeLayout, id[:len(idTimeLayout)], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// legacy layouts still found in older memory trees.
var createdLayouts = []string{
	createdLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"20060102-150405",
	"20060102",
	idTimeLayout,
}

func parseCreated(s string) (time.Time, bool) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range createdLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
