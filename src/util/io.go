package util

import (
	"bufio"
	"os"
	"path/filepath"
)

// ReadSource reads source code from the file at path. The driver
// (src/driver) always resolves a concrete file path before calling this,
// whether from a single -src argument or while walking an examples/
// directory, so there is no stdin case to support.
func ReadSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteFile creates (or truncates) the file at path and writes contents to
// it, creating parent directories as needed.
func WriteFile(path string, contents []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := w.Write(contents); err != nil {
		return err
	}
	return w.Flush()
}

// FindSourceFiles walks dir for files with the .la suffix, used by the
// driver's secondary "compile every .la file under examples/" entry point.
func FindSourceFiles(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".la" {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
