package repository

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/config"
)

// Rotated generations are named path.<rotationPattern>, with a ".N" suffix when several share a minute.
const (
	rotationPattern  = "%Y%m%d%H%M"
	rotationStampLen = len("200601021504")
)

// AuditFileRepository appends audit entries as JSON lines to a size-rotated file.
type AuditFileRepository struct {
	path string

	mu     sync.Mutex
	writer io.WriteCloser
}

// NewAuditFileRepository opens the rotating sink. cfg.Path always names the current file.
func NewAuditFileRepository(cfg config.AuditConfig) (*AuditFileRepository, error) {
	writer, err := rotatelogs.New(
		cfg.Path+"."+rotationPattern,
		rotatelogs.WithLinkName(cfg.Path),
		rotatelogs.WithRotationSize(cfg.MaxSizeBytes),
		rotatelogs.WithRotationCount(cfg.RotationCount),
	)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return NewAuditWriterRepository(cfg.Path, writer), nil
}

// NewAuditWriterRepository appends to writer and reads history back from path.
func NewAuditWriterRepository(path string, writer io.WriteCloser) *AuditFileRepository {
	return &AuditFileRepository{path: path, writer: writer}
}

// Append writes entry as a single line.
func (r *AuditFileRepository) Append(entry models.AuditEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.writer.Write(line); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries across the rotated history, newest first. Lines that fail to decode are skipped.
func (r *AuditFileRepository) Recent(limit int) ([]models.AuditEntry, error) {
	entries := make([]models.AuditEntry, 0)
	if limit <= 0 {
		return entries, nil
	}

	err := r.scan(func(entry models.AuditEntry) {
		entries = append(entries, entry)
		if len(entries) > limit {
			entries = entries[1:]
		}
	})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Between returns entries stamped within [from, to] in file order, keeping at most limit of them.
// matched counts every entry in range, including those past limit.
func (r *AuditFileRepository) Between(from, to time.Time, limit int) ([]models.AuditEntry, int, error) {
	entries := make([]models.AuditEntry, 0)
	matched := 0
	err := r.scan(func(entry models.AuditEntry) {
		if entry.Timestamp.Before(from) || entry.Timestamp.After(to) {
			return
		}
		matched++
		if matched <= limit {
			entries = append(entries, entry)
		}
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, matched, nil
}

// scan feeds every decodable line of the audit history to fn, oldest file first. A missing file has no entries.
func (r *AuditFileRepository) scan(fn func(models.AuditEntry)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	files, err := r.historyFiles()
	if err != nil {
		return err
	}
	for _, name := range files {
		if err := scanFile(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// historyFiles lists the rotated generations of path (path.YYYYmmddHHMM[.N]) in write order, followed by
// path itself unless it is the link to one of them.
func (r *AuditFileRepository) historyFiles() ([]string, error) {
	dir, base := filepath.Split(r.path)
	if dir == "" {
		dir = "."
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list audit logs: %w", err)
	}

	type generation struct {
		name  string
		stamp string
		seq   int
	}
	var rotated []generation
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasPrefix(de.Name(), base+".") {
			continue
		}
		stamp, seq, ok := parseGeneration(strings.TrimPrefix(de.Name(), base+"."))
		if !ok {
			continue
		}
		rotated = append(rotated, generation{name: filepath.Join(dir, de.Name()), stamp: stamp, seq: seq})
	}
	sort.Slice(rotated, func(i, j int) bool {
		if rotated[i].stamp != rotated[j].stamp {
			return rotated[i].stamp < rotated[j].stamp
		}
		return rotated[i].seq < rotated[j].seq
	})

	files := make([]string, 0, len(rotated)+1)
	current, statErr := os.Stat(r.path)
	linked := false
	for _, g := range rotated {
		files = append(files, g.name)
		if statErr != nil || linked {
			continue
		}
		if info, err := os.Stat(g.name); err == nil && os.SameFile(info, current) {
			linked = true
		}
	}
	if !linked {
		files = append(files, r.path)
	}
	return files, nil
}

// parseGeneration splits a rotation suffix such as "202610150930" or "202610150930.2".
func parseGeneration(suffix string) (string, int, bool) {
	stamp, rest, hasSeq := strings.Cut(suffix, ".")
	if len(stamp) != rotationStampLen || !allDigits(stamp) {
		return "", 0, false
	}
	if !hasSeq {
		return stamp, 0, true
	}
	seq, err := strconv.Atoi(rest)
	if err != nil || seq < 0 {
		return "", 0, false
	}
	return stamp, seq, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func scanFile(name string, fn func(models.AuditEntry)) error {
	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry models.AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		fn(entry)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (r *AuditFileRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writer.Close()
}
