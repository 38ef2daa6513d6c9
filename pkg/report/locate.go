package report

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LatestReport returns the most recently modified report document under
// dir, searching recursively for .json files whose name contains "report"
// (case-insensitive).
func LatestReport(dir string) (string, error) {
	var newest string
	var newestTime time.Time

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if !strings.HasSuffix(name, ".json") || !strings.Contains(name, "report") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = path
			newestTime = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}
	if newest == "" {
		return "", fmt.Errorf("no report document found under %s", dir)
	}
	return newest, nil
}

// LatestTemplate returns the most recently modified template with the given
// extension (".docx" or ".pptx") directly under dir. Editor lock files and
// hidden files are skipped.
func LatestTemplate(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}

	var newest string
	var newestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", err
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = filepath.Join(dir, name)
			newestTime = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no %s template found under %s", ext, dir)
	}
	return newest, nil
}
