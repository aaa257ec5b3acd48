package bindgen

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the generator command and every input. Directories are
// walked in lexical order and contribute their regular files; paths in skip
// are ignored. Any change to a path or to file contents changes the result.
func Fingerprint(command, inputs []string, skip ...string) (uint64, error) {
	h := xxhash.New()
	for _, arg := range command {
		_, _ = h.WriteString(arg)
		_, _ = h.WriteString("\x00")
	}

	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[filepath.Clean(p)] = true
	}

	add := func(path string) error {
		if skipped[filepath.Clean(path)] {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, _ = h.WriteString(filepath.ToSlash(path))
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(strconv.Itoa(len(data)))
		_, _ = h.WriteString("\x00")
		_, _ = h.Write(data)
		return nil
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return 0, fmt.Errorf("fingerprint input: %w", err)
		}
		if !info.IsDir() {
			if err := add(in); err != nil {
				return 0, fmt.Errorf("fingerprint input: %w", err)
			}
			continue
		}
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return 0, fmt.Errorf("fingerprint input: %w", err)
		}
	}
	return h.Sum64(), nil
}

// formatStamp renders a fingerprint as stored in the stamp file.
func formatStamp(fp uint64) string {
	return fmt.Sprintf("xxhash64:%016x\n", fp)
}

// readStamp returns the fingerprint stored at path; ok is false when the
// stamp is missing or unreadable.
func readStamp(path string) (fp uint64, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	hex, found := strings.CutPrefix(strings.TrimSpace(string(data)), "xxhash64:")
	if !found {
		return 0, false
	}
	fp, err = strconv.ParseUint(hex, 16, 64)
	return fp, err == nil
}
