package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const historyDir = ".history"

// FileStoreConfig configures the file-backed store.
type FileStoreConfig struct {
	// BaseDir is the directory under which project directories are created.
	BaseDir string
}

// FileStore persists artifacts under <base>/<project>/.
//
// The latest version of each kind lives at its canonical filename
// (game_design.md, game.py, ...); prior versions are kept under
// <base>/<project>/.history/<kind>.v<N>.
type FileStore struct {
	baseDir string
	logger  *zap.Logger

	mu sync.Mutex
}

// NewFileStore creates a file-backed store rooted at cfg.BaseDir.
func NewFileStore(cfg FileStoreConfig, logger *zap.Logger) (*FileStore, error) {
	if cfg.BaseDir == "" {
		return nil, errors.New("base dir is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		baseDir: cfg.BaseDir,
		logger:  logger,
	}, nil
}

// ProjectDir returns the directory holding the given project's artifacts.
func (s *FileStore) ProjectDir(project string) string {
	return filepath.Join(s.baseDir, SanitizeName(project))
}

// Read returns the latest artifact of the given kind.
func (s *FileStore) Read(ctx context.Context, project string, kind Kind) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.ProjectDir(project), kind.Filename())
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat artifact %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	version, err := s.latestVersion(project, kind)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Kind:      kind,
		Content:   string(content),
		Version:   version,
		CreatedAt: info.ModTime(),
	}, nil
}

// Write stores content as a new version of the given kind.
func (s *FileStore) Write(ctx context.Context, project string, kind Kind, content string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.ProjectDir(project)
	if err := os.MkdirAll(filepath.Join(dir, historyDir), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create project directory: %w", err)
	}

	prev, err := s.latestVersion(project, kind)
	if err != nil {
		return 0, err
	}
	version := prev + 1

	histPath := filepath.Join(dir, historyDir, fmt.Sprintf("%s.v%d", kind, version))
	if err := os.WriteFile(histPath, []byte(content), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write history version: %w", err)
	}

	path := filepath.Join(dir, kind.Filename())
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write artifact %s: %w", path, err)
	}

	s.logger.Debug("wrote artifact",
		zap.String("project", project),
		zap.String("kind", string(kind)),
		zap.Int("version", version),
		zap.Int("bytes", len(content)),
	)

	return version, nil
}

// History returns all versions of the given kind, oldest first.
func (s *FileStore) History(ctx context.Context, project string, kind Kind) ([]*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.ProjectDir(project), historyDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Artifact{}, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	type versioned struct {
		version int
		name    string
		mod     time.Time
	}
	var found []versioned
	prefix := string(kind) + ".v"
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		v, err := strconv.Atoi(strings.TrimPrefix(e.Name(), prefix))
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, versioned{version: v, name: e.Name(), mod: info.ModTime()})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].version < found[j].version })

	out := make([]*Artifact, 0, len(found))
	for _, f := range found {
		content, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("failed to read history version %s: %w", f.name, err)
		}
		out = append(out, &Artifact{
			Kind:      kind,
			Content:   string(content),
			Version:   f.version,
			CreatedAt: f.mod,
		})
	}
	return out, nil
}

// latestVersion returns the highest stored version of kind, 0 if none.
// Caller must hold s.mu.
func (s *FileStore) latestVersion(project string, kind Kind) (int, error) {
	dir := filepath.Join(s.ProjectDir(project), historyDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			// No history yet; a canonical file without history counts as v1.
			if _, err := os.Stat(filepath.Join(s.ProjectDir(project), kind.Filename())); err == nil {
				return 1, nil
			}
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read history directory: %w", err)
	}

	max := 0
	prefix := string(kind) + ".v"
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		v, err := strconv.Atoi(strings.TrimPrefix(e.Name(), prefix))
		if err != nil {
			continue
		}
		if v > max {
			max = v
		}
	}
	if max == 0 {
		if _, err := os.Stat(filepath.Join(s.ProjectDir(project), kind.Filename())); err == nil {
			return 1, nil
		}
	}
	return max, nil
}

var _ Store = (*FileStore)(nil)
