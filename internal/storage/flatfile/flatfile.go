// Package flatfile provides the default storage.Persister backed by a
// plain text file with one student per line:
//
//	id,name,age,grade,marks
//
// WHY A FLAT FILE?
// ────────────────
// At administrative scale (hundreds of records, not millions) a full
// rewrite per mutation is cheap, and a line-per-record text file can be
// inspected and repaired with nothing but a text editor. Save writes the
// whole roster to a temporary file in the same directory and renames it
// over the old one, so readers never observe a partially written file.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mustafa-murtaza/studentms/internal/config"
	"github.com/mustafa-murtaza/studentms/internal/types"
)

// fieldCount is the number of comma-separated fields on a valid line.
const fieldCount = 5

// Store is the flat-file implementation of storage.Persister.
type Store struct {
	path string
}

// New returns a Store writing to cfg.StoragePath. The file itself is
// created lazily on the first Save; a missing file simply means an
// empty roster.
func New(cfg *config.Config) (*Store, error) {
	if cfg.StoragePath == "" {
		return nil, fmt.Errorf("flatfile.New: storage path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o755); err != nil {
		return nil, fmt.Errorf("flatfile.New: create data directory: %w", err)
	}
	return &Store{path: cfg.StoragePath}, nil
}

// Load reads every line of the data file, skipping blank lines and
// logging a warning for any line that does not parse. A corrupted line
// never aborts startup — the roster starts with whatever was recovered.
func (s *Store) Load() ([]types.Student, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []types.Student{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("flatfile.Load: open %s: %w", s.path, err)
	}
	defer f.Close()

	students := make([]types.Student, 0)

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		student, err := parseLine(line)
		if err != nil {
			slog.Warn("skipping corrupted roster line",
				slog.String("file", s.path),
				slog.Int("line", lineNum),
				slog.String("error", err.Error()))
			continue
		}
		students = append(students, student)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("flatfile.Load: read %s: %w", s.path, err)
	}

	return students, nil
}

// Save rewrites the whole data file. The write-full-then-swap dance:
// write everything to a temp file, fsync, then rename over the real
// path. Rename is atomic on POSIX filesystems, so a crash mid-save
// leaves either the old file or the new one — never a mixture.
func (s *Store) Save(students []types.Student) error {
	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".roster-*")
	if err != nil {
		return fmt.Errorf("flatfile.Save: create temp file: %w", err)
	}
	// On any failure below, clean up the temp file so retries don't
	// litter the data directory.
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, st := range students {
		line := fmt.Sprintf("%d,%s,%d,%s,%d\n",
			st.ID, st.Name, st.Age, st.Grade, st.Marks)
		if _, err := w.WriteString(line); err != nil {
			tmp.Close()
			return fmt.Errorf("flatfile.Save: write record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flatfile.Save: flush: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("flatfile.Save: sync: %w", err)
	}
	// CreateTemp makes the file 0600; the roster is meant to be
	// readable with ordinary tooling, so widen it before the swap.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("flatfile.Save: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("flatfile.Save: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("flatfile.Save: swap in new file: %w", err)
	}
	return nil
}

// parseLine turns "id,name,age,grade,marks" into a Student. The check
// here is structural (field count and numeric fields) — semantic
// validation belongs to the registry, which wrote the line in the
// first place.
func parseLine(line string) (types.Student, error) {
	parts := strings.Split(line, ",")
	if len(parts) != fieldCount {
		return types.Student{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(parts))
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return types.Student{}, fmt.Errorf("id %q is not an integer", parts[0])
	}
	age, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return types.Student{}, fmt.Errorf("age %q is not an integer", parts[2])
	}
	marks, err := strconv.Atoi(strings.TrimSpace(parts[4]))
	if err != nil {
		return types.Student{}, fmt.Errorf("marks %q is not an integer", parts[4])
	}

	return types.Student{
		ID:    id,
		Name:  parts[1],
		Age:   age,
		Grade: strings.TrimSpace(parts[3]),
		Marks: marks,
	}, nil
}
