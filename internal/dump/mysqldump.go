package dump

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Producer invokes mysqldump for a single database. The dump tool is
// treated as an opaque external command: it either streams a complete
// dump to the destination file or fails the run.
type Producer struct {
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Run streams a transactionally-consistent dump of the configured
// database into destPath, creating or truncating the file. On any
// failure the partial file is removed and the tool's stderr is folded
// into the returned error.
func (p Producer) Run(ctx context.Context, destPath string) error {
	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create dump file: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.Path,
		"--single-transaction",
		"-h", p.Host,
		"-P", strconv.Itoa(p.Port),
		"-u", p.User,
		"-p"+p.Password,
		p.Database,
	)
	cmd.Stdout = f
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	closeErr := f.Close()

	if runErr != nil {
		removePartial(destPath)
		diag := strings.TrimSpace(stderr.String())
		if diag != "" {
			return fmt.Errorf("mysqldump failed: %w: %s", runErr, diag)
		}
		return fmt.Errorf("mysqldump failed: %w", runErr)
	}
	if closeErr != nil {
		removePartial(destPath)
		return fmt.Errorf("close dump file: %w", closeErr)
	}

	return nil
}

func removePartial(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Error("failed to remove partial dump file", "path", path, "error", err)
	}
}
