package campaign

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/KirkDiggler/conquest-editor/internal/archive"
	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/section"
)

const (
	errDocumentNil = "document cannot be nil"
)

// Config holds the configuration for the file repository
type Config struct {
	// Dir is the campaign working directory holding campaign.scn and status
	Dir  string
	Sink logsink.Sink
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateDir("dir", c.Dir, vb)
	return vb.Build()
}

type fileRepository struct {
	dir  string
	sink logsink.Sink

	mu       sync.Mutex
	backedUp bool
}

// NewFileRepository creates a repository over the files of a campaign dir
func NewFileRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	sink := cfg.Sink
	if sink == nil {
		sink = logsink.Discard{}
	}
	return &fileRepository{
		dir:  cfg.Dir,
		sink: sink,
	}, nil
}

// Ensure fileRepository implements Repository
var _ Repository = (*fileRepository)(nil)

func (r *fileRepository) scenePath() string {
	return filepath.Join(r.dir, SceneFile)
}

func (r *fileRepository) statusPath() string {
	return filepath.Join(r.dir, StatusFile)
}

// Load reads campaign.scn and status
func (r *fileRepository) Load(ctx context.Context, _ LoadInput) (*LoadOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "load canceled")
	}

	scene, err := readSaveFile(r.scenePath())
	if err != nil {
		return nil, err
	}
	status, err := readSaveFile(r.statusPath())
	if err != nil {
		return nil, err
	}

	doc := &Document{SceneRaw: scene, StatusRaw: status}
	doc.Scene, _ = section.NormalizeNewlines(scene)
	doc.Status, _ = section.NormalizeNewlines(status)
	logsink.Logf(r.sink, "Loaded save from %s", r.dir)

	return &LoadOutput{Document: doc}, nil
}

func readSaveFile(p string) (string, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.FailedPreconditionf("save file %s is missing", filepath.Base(p)).
				WithMeta(errors.MetaPath, p)
		}
		return "", errors.WrapWithCode(err, errors.CodeInternal, "failed to read save file").
			WithMeta(errors.MetaPath, p)
	}
	return string(b), nil
}

// Store writes both files, backing them up first once per repository
func (r *fileRepository) Store(ctx context.Context, input StoreInput) (*StoreOutput, error) {
	if input.Document == nil {
		return nil, errors.InvalidArgument(errDocumentNil)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "store canceled")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := &StoreOutput{}
	if !r.backedUp {
		if err := archive.Backup(r.scenePath(), r.statusPath()); err != nil {
			return nil, errors.Wrap(err, "failed to back up save")
		}
		r.backedUp = true
		out.BackedUp = true
		logsink.Logf(r.sink, "Backed up save to %s", archive.BackupPath(r.scenePath()))
	}

	doc := input.Document
	scene := section.RestoreNewlines(doc.Scene, doc.SceneRaw)
	status := section.RestoreNewlines(doc.Status, doc.StatusRaw)
	if err := writeSaveFile(r.scenePath(), scene); err != nil {
		return nil, err
	}
	if err := writeSaveFile(r.statusPath(), status); err != nil {
		return nil, err
	}
	doc.SceneRaw, doc.StatusRaw = scene, status
	logsink.Logf(r.sink, "Saved campaign to %s", r.dir)

	return out, nil
}

func writeSaveFile(p, text string) error {
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to write save file").
			WithMeta(errors.MetaPath, p)
	}
	return nil
}

// RestoreBackups copies the .bak files over the save
func (r *fileRepository) RestoreBackups(ctx context.Context, _ RestoreBackupsInput) (*RestoreBackupsOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "restore canceled")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	paths := []string{r.scenePath(), r.statusPath()}
	if err := archive.Restore(paths...); err != nil {
		return nil, errors.Wrap(err, "failed to restore backups")
	}
	logsink.Logf(r.sink, "Restored save from backups in %s", r.dir)

	return &RestoreBackupsOutput{Restored: []string{SceneFile, StatusFile}}, nil
}
