package batch

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/piyushdaiya/seed-checker/internal/core"
)

const (
	seedsHeader = "# Put one seed phrase per line\n"
	keysHeader  = "# Put one private key per line\n"
)

// EnsureLayout creates the input and output directories and any missing
// input file with a one-line header. It returns the input files it had to
// create. An input file that exists but is empty is left alone.
func EnsureLayout(cfg core.Config) ([]string, error) {
	for _, p := range []string{cfg.SeedsFile, cfg.KeysFile, cfg.HitsFile, cfg.AllResultsFile} {
		if dir := filepath.Dir(p); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create %s: %w", dir, err)
			}
		}
	}

	var created []string
	for _, in := range []struct{ path, header string }{
		{cfg.SeedsFile, seedsHeader},
		{cfg.KeysFile, keysHeader},
	} {
		made, err := createIfMissing(in.path, in.header)
		if err != nil {
			return created, err
		}
		if made {
			created = append(created, in.path)
		}
	}
	return created, nil
}

func createIfMissing(path, header string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(header); err != nil {
		return true, fmt.Errorf("write %s: %w", path, err)
	}
	return true, f.Close()
}

// readEntries returns the trimmed non-blank, non-comment lines of path in
// file order.
func readEntries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if line := scanner.Text(); core.IsEntry(line) {
			out = append(out, strings.TrimSpace(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// writeLines replaces the content of path with lines joined by newlines.
func writeLines(path string, lines []string) error {
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
