package archive

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/dumproll/dumproll/internal/domain"
)

// Compress writes a single-member gzip copy of the raw dump at src to
// a sibling file with the .sql suffix replaced by .sql.gz, then
// removes src. The compressed file appears under its final name only
// after the stream is fully written and closed; a failure partway
// leaves src in place and no visible .sql.gz file.
func Compress(src string) (string, error) {
	if !strings.HasSuffix(src, domain.DumpSuffix) {
		return "", fmt.Errorf("%q does not end in %s", src, domain.DumpSuffix)
	}
	dst := strings.TrimSuffix(src, domain.DumpSuffix) + domain.ArtifactSuffix
	tmp := dst + ".tmp"

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open dump file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("create compressed file: %w", err)
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("compress dump: %w", err)
	}
	if err := gz.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize gzip stream: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("close compressed file: %w", err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize compressed file: %w", err)
	}

	// The raw dump goes away only once the artifact is in place.
	if err := os.Remove(src); err != nil {
		return "", fmt.Errorf("remove raw dump: %w", err)
	}

	return dst, nil
}
