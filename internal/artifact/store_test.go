package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pong Game", "pong_game"},
		{"  Snake!!  ", "snake"},
		{"My__Cool   Game", "my_cool_game"},
		{"UPPER-case", "upper-case"},
		{"!!!", "untitled_game"},
		{"", "untitled_game"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func TestKind_Filename(t *testing.T) {
	assert.Equal(t, "game_design.md", KindDesign.Filename())
	assert.Equal(t, "game.py", KindImplementation.Filename())
	assert.Equal(t, "evaluation_report.md", KindEvaluationReport.Filename())
	assert.Equal(t, "publication.md", KindPublication.Filename())
	assert.Equal(t, "custom.txt", Kind("custom").Filename())
}

// storeUnderTest exercises both Store implementations with the same cases.
func storeUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(FileStoreConfig{BaseDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)

	return map[string]Store{
		"mem":  NewMemStore(),
		"file": fs,
	}
}

func TestStore_ReadNotFound(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Read(context.Background(), "pong", KindDesign)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_WriteThenRead(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			v, err := store.Write(ctx, "pong", KindDesign, "# Pong Design")
			require.NoError(t, err)
			assert.Equal(t, 1, v)

			got, err := store.Read(ctx, "pong", KindDesign)
			require.NoError(t, err)
			assert.Equal(t, KindDesign, got.Kind)
			assert.Equal(t, "# Pong Design", got.Content)
			assert.Equal(t, 1, got.Version)
		})
	}
}

func TestStore_VersionsAreMonotonic(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for i := 1; i <= 3; i++ {
				v, err := store.Write(ctx, "pong", KindImplementation, "content")
				require.NoError(t, err)
				assert.Equal(t, i, v)
			}

			got, err := store.Read(ctx, "pong", KindImplementation)
			require.NoError(t, err)
			assert.Equal(t, 3, got.Version)
		})
	}
}

func TestStore_ReadReturnsLatest(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Write(ctx, "pong", KindImplementation, "v1 code")
			require.NoError(t, err)
			_, err = store.Write(ctx, "pong", KindImplementation, "v2 code")
			require.NoError(t, err)

			got, err := store.Read(ctx, "pong", KindImplementation)
			require.NoError(t, err)
			assert.Equal(t, "v2 code", got.Content)
		})
	}
}

func TestStore_HistoryIsAppendOnly(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Write(ctx, "pong", KindDesign, "first")
			require.NoError(t, err)
			_, err = store.Write(ctx, "pong", KindDesign, "second")
			require.NoError(t, err)

			history, err := store.History(ctx, "pong", KindDesign)
			require.NoError(t, err)
			require.Len(t, history, 2)
			assert.Equal(t, "first", history[0].Content)
			assert.Equal(t, 1, history[0].Version)
			assert.Equal(t, "second", history[1].Content)
			assert.Equal(t, 2, history[1].Version)
		})
	}
}

func TestStore_HistoryEmptyForUnknownKind(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			history, err := store.History(context.Background(), "pong", KindPublication)
			require.NoError(t, err)
			assert.Empty(t, history)
		})
	}
}

func TestStore_ProjectsAreIsolated(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Write(ctx, "pong", KindDesign, "pong design")
			require.NoError(t, err)

			_, err = store.Read(ctx, "snake", KindDesign)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestNewFileStore_RequiresBaseDir(t *testing.T) {
	_, err := NewFileStore(FileStoreConfig{}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base dir")
}

func TestFileStore_ProjectDirIsSanitized(t *testing.T) {
	fs, err := NewFileStore(FileStoreConfig{BaseDir: "/tmp/games"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/games/my_pong_game", fs.ProjectDir("My Pong Game!"))
}
