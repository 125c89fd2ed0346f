package relocate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-logr/logr"
)

// ErrNotText marks a file whose first line is not decodable text,
// typically an ELF binary caught by the tree walk.
var ErrNotText = errors.New("file is not text")

// FixShebangs rewrites the shebang of every python script in the tree
// to point at the relocated interpreter. Files matching an exclusion
// glob keep their shebang. Unreadable and non-text files are skipped,
// with the two conditions reported separately.
func FixShebangs(ctx context.Context, env *Environment) error {
	log := logr.FromContextOrDiscard(ctx)
	shebang := "#!" + filepath.Join(env.Target, "bin", "python")
	return filepath.WalkDir(env.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		excluded, err := matchesAny(env.ShebangExclusions, path)
		if err != nil {
			return err
		}
		if excluded {
			log.V(3).Info("shebang excluded by pattern", "path", path)
			return nil
		}
		line, err := firstLine(path)
		switch {
		case errors.Is(err, ErrNotText):
			log.V(4).Info("skipping non-text file", "path", path)
			return nil
		case os.IsPermission(err):
			log.V(2).Info("skipping unreadable file", "path", path)
			return nil
		case err != nil:
			log.V(2).Info("skipping file", "path", path, "reason", err.Error())
			return nil
		}
		if !strings.HasPrefix(line, "#!") || !strings.Contains(line, "python") {
			return nil
		}
		log.V(2).Info("rewriting shebang", "path", path)
		return replaceFirstLine(path, shebang)
	})
}

func matchesAny(patterns []string, path string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := filepath.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("bad exclusion pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if strings.ContainsRune(line, 0) || !utf8.ValidString(line) {
		return "", fmt.Errorf("%s: %w", path, ErrNotText)
	}
	return line, nil
}

// replaceFirstLine swaps the first line of the file, keeping the rest
// of the content and the file mode.
func replaceFirstLine(path, line string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	rest := ""
	if i := strings.IndexByte(string(data), '\n'); i >= 0 {
		rest = string(data[i:])
	}
	return os.WriteFile(path, []byte(line+rest), info.Mode().Perm())
}
