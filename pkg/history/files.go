package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"chatterbox/pkg/logger"
	"chatterbox/pkg/models"
)

const (
	dateLayout = "2006-01-02"
	fileInfix  = "_chattnr_"
)

// SessionFilePattern matches persisted session filenames,
// e.g. 2024-05-01_chattnr_01.json.
var SessionFilePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_chattnr_(\d{2,})\.json$`)

// Flush serializes the live session to a uniquely named file in the
// configured directory and returns the written path. An empty session is a
// no-op. I/O failures are logged and absorbed; flush runs at shutdown and
// must never block process exit. Returns "" when nothing was written.
func (s *Store) Flush() string {
	snap := s.snapshot()
	if len(snap.Messages) == 0 {
		logger.Info("session_flush_skipped", "reason", "empty session")
		return ""
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		logger.Error("chat_dir_create_failed", "dir", s.dir, "error", err)
		return ""
	}
	name := s.nextFileName(time.Now())
	path := filepath.Join(s.dir, name)
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		logger.Error("session_marshal_failed", "session", snap.ID, "error", err)
		return ""
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		logger.Error("session_flush_failed", "path", path, "error", err)
		return ""
	}
	logger.Info("session_flushed", "path", path, "messages", len(snap.Messages))
	return path
}

// nextFileName computes <date>_chattnr_<NN>.json where NN is one past the
// highest serial already on disk for that date. Scan-then-increment is safe
// for a single writer only; two processes flushing in the same instant can
// compute the same serial. Known limitation.
func (s *Store) nextFileName(now time.Time) string {
	date := now.Format(dateLayout)
	max := 0
	entries, err := os.ReadDir(s.dir)
	if err == nil {
		prefix := date + fileInfix
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasPrefix(name, prefix) {
				continue
			}
			serial := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
			if n, perr := strconv.Atoi(serial); perr == nil && n > max {
				max = n
			}
		}
	}
	return fmt.Sprintf("%s%s%02d.json", date, fileInfix, max+1)
}

// LoadFromFile reads a previously persisted session by filename. A missing
// or unparsable file yields (nil, false) with a logged warning.
func (s *Store) LoadFromFile(name string) (*models.Session, bool) {
	path := filepath.Join(s.dir, name)
	b, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("session_load_failed", "path", path, "error", err)
		return nil, false
	}
	var sess models.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		logger.Warn("session_parse_failed", "path", path, "error", err)
		return nil, false
	}
	return &sess, true
}

// ListSavedFiles returns persisted session filenames newest-first. The
// lexicographic sort matches chronology because filenames embed a zero-padded
// date and serial. Errors yield an empty list.
func (s *Store) ListSavedFiles() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("chat_dir_list_failed", "dir", s.dir, "error", err)
		}
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && SessionFilePattern.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names
}
