package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dumproll/dumproll/internal/domain"
)

// Dumper produces a raw SQL dump at the given path.
type Dumper interface {
	Run(ctx context.Context, destPath string) error
}

// CompressFunc turns a raw dump into the final compressed artifact and
// returns its path.
type CompressFunc func(src string) (string, error)

// Workspace is the local directory artifacts are written to and swept
// from.
type Workspace interface {
	Path(name string) string
	Sweep(today time.Time, window domain.RetentionWindow) int
}

// Uploader replicates a finished artifact to durable remote storage
// and returns the key it was stored under.
type Uploader interface {
	Put(ctx context.Context, localPath string) (string, error)
}

// Runner sequences one backup run: dump, compress, upload, local
// retention sweep. It owns every artifact it touches; nothing else
// writes to the workspace during a run.
type Runner struct {
	dumper   Dumper
	compress CompressFunc
	local    Workspace
	remote   Uploader
	database string
	window   domain.RetentionWindow
	now      func() time.Time
}

// NewRunner wires a runner from its collaborators.
func NewRunner(dumper Dumper, compress CompressFunc, local Workspace, remote Uploader, database string, window domain.RetentionWindow) *Runner {
	return &Runner{
		dumper:   dumper,
		compress: compress,
		local:    local,
		remote:   remote,
		database: database,
		window:   window,
		now:      time.Now,
	}
}

// Run executes the full sequence for today's artifact. Dump, compress
// and upload are the critical path: a failure there fails the run and
// skips the steps after it, except that the local retention sweep
// still runs after a failed upload since the artifact is already on
// disk. Sweep errors are logged per file and never fail the run.
//
// Rerunning on the same calendar date rebuilds the same filename and
// object key, overwriting that date's artifact in both stores.
func (r *Runner) Run(ctx context.Context) error {
	today := r.now()
	artifact := domain.Artifact{Database: r.database, Date: today}

	rawPath := r.local.Path(artifact.DumpName())
	if err := r.dumper.Run(ctx, rawPath); err != nil {
		log.Error("dump failed", "database", r.database, "error", err)
		return fmt.Errorf("dump %s: %w", r.database, err)
	}
	log.Info("dump complete", "path", rawPath)

	artifactPath, err := r.compress(rawPath)
	if err != nil {
		log.Error("compression failed", "path", rawPath, "error", err)
		return fmt.Errorf("compress %s: %w", rawPath, err)
	}
	log.Info("local backup ready", "path", artifactPath)

	var uploadErr error
	if key, err := r.remote.Put(ctx, artifactPath); err != nil {
		// The local artifact stays; an operator can re-upload it.
		log.Error("upload failed", "path", artifactPath, "error", err)
		uploadErr = fmt.Errorf("upload %s: %w", artifactPath, err)
	} else {
		log.Info("upload complete", "key", key)
	}

	if deleted := r.local.Sweep(today, r.window); deleted > 0 {
		log.Info("local retention sweep complete", "deleted", deleted)
	}

	if uploadErr != nil {
		return uploadErr
	}
	log.Info("backup complete", "artifact", artifact.Name())
	return nil
}
