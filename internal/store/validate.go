package store

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxSessionNameLen = 200

var invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
var archivedNameSuffix = regexp.MustCompile(`^.+-\d{8}-\d{6}$`)

// ValidateSessionName enforces the policy from spec.md §3: non-empty, at
// most 200 chars, none of the reserved characters, no control chars, no
// leading/trailing/consecutive whitespace, and not "." or "..". It is
// pure — it performs no I/O.
func ValidateSessionName(name string) error {
	if name == "" {
		return Newf(KindInvalidInput, "session name must not be empty")
	}
	if utf8.RuneCountInString(name) > maxSessionNameLen {
		return Newf(KindInvalidInput, "session name exceeds %d characters", maxSessionNameLen)
	}
	if name == "." || name == ".." {
		return Newf(KindInvalidInput, "session name must not be %q", name)
	}
	if invalidNameChars.MatchString(name) {
		return Newf(KindInvalidInput, "session name contains a reserved character")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return Newf(KindInvalidInput, "session name contains a control character")
		}
	}
	if strings.TrimSpace(name) != name {
		return Newf(KindInvalidInput, "session name has leading or trailing whitespace")
	}
	if strings.Contains(name, "  ") {
		return Newf(KindInvalidInput, "session name has consecutive whitespace")
	}
	return nil
}

// ValidateArchivedNameFormat checks that name is a bare directory entry
// name (no path separators or traversal) that round-trips the
// "{SessionName}-YYYYMMDD-HHMMSS" timestamp suffix regex from spec.md §3.
// The separator check runs first so a traversal payload like
// "../../../etc-passwd-20250831-123456" is rejected outright rather than
// matched by the permissive ".+" in the timestamp regex.
func ValidateArchivedNameFormat(name string) error {
	if strings.ContainsAny(name, "/\\") || name == ".." {
		return Newf(KindInvalidInput, "archived session name %q must not contain a path separator", name)
	}
	if !archivedNameSuffix.MatchString(name) {
		return Newf(KindInvalidInput, "archived session name %q does not match the timestamp format", name)
	}
	return nil
}

// SplitArchivedName separates an archived name into its original-name
// prefix and the "-YYYYMMDD-HHMMSS" timestamp suffix.
func SplitArchivedName(archivedName string) (prefix string, timestamp string, ok bool) {
	if !archivedNameSuffix.MatchString(archivedName) {
		return "", "", false
	}
	idx := len(archivedName) - len("-20060102-150405")
	return archivedName[:idx], archivedName[idx+1:], true
}

// EnsureExistsActive confirms an active session directory exists, without
// creating it.
func (s *Store) EnsureExistsActive(name string) error {
	path := filepath.Join(s.Paths.Active, name)
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return Newf(KindNotFound, "active session %q not found", name)
	}
	return nil
}

// EnsureAbsentActive confirms no active session directory exists under name.
func (s *Store) EnsureAbsentActive(name string) error {
	path := filepath.Join(s.Paths.Active, name)
	if _, err := os.Stat(path); err == nil {
		return Newf(KindAlreadyExists, "active session %q already exists", name)
	} else if !os.IsNotExist(err) {
		return Wrap(KindIOFailure, err, "checking active session %q", name)
	}
	return nil
}

// EnsureExistsArchived confirms an archived session directory exists.
func (s *Store) EnsureExistsArchived(archivedName string) error {
	if err := ValidateArchivedNameFormat(archivedName); err != nil {
		return err
	}
	path := filepath.Join(s.Paths.Archived, archivedName)
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return Newf(KindNotFound, "archived session %q not found", archivedName)
	}
	return nil
}
