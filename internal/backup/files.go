package backup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	filePrefix = "gong_backup_"
	fileSuffix = ".json"
)

// FileInfo describes a snapshot file on disk.
type FileInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileName returns the snapshot file name for the given day, e.g.
// gong_backup_2024-03-02.json. n > 1 appends a -n suffix.
func FileName(day time.Time, n int) string {
	base := filePrefix + day.Format(time.DateOnly)
	if n > 1 {
		base += fmt.Sprintf("-%d", n)
	}
	return base + fileSuffix
}

// ExportToFile writes a snapshot into dir under the dated file name and
// returns its path. An existing file is never overwritten.
func (s *Service) ExportToFile(ctx context.Context, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	f, path, err := createUnique(dir, now)
	if err != nil {
		return "", err
	}

	if _, err := s.Export(ctx, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close backup file: %w", err)
	}

	s.logger.Info("backup written", slog.String("path", path))
	return path, nil
}

func createUnique(dir string, now time.Time) (*os.File, string, error) {
	for n := 1; ; n++ {
		path := filepath.Join(dir, FileName(now, n))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create backup file: %w", err)
		}
	}
}

// ListFiles returns the snapshot files in dir, newest first. A missing
// directory yields no files.
func ListFiles(dir string) ([]FileInfo, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []FileInfo
	for _, entry := range dirEntries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:      name,
			Path:      filepath.Join(dir, name),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].CreatedAt.Equal(files[j].CreatedAt) {
			return files[i].CreatedAt.After(files[j].CreatedAt)
		}
		return files[i].Name > files[j].Name
	})
	return files, nil
}

// Prune deletes the oldest snapshot files in dir so that at most keep
// remain, returning the removed paths. keep <= 0 disables pruning.
func Prune(dir string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) <= keep {
		return nil, nil
	}

	var removed []string
	for _, f := range files[keep:] {
		if err := os.Remove(f.Path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", f.Name, err)
		}
		removed = append(removed, f.Path)
	}
	return removed, nil
}
