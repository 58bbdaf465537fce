package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// rotateFiles shifts numbered backups of basePath up by one (file.1.log
// becomes file.2.log and so on), drops anything past maxBackups, and moves
// the current file into the .1 slot.
func rotateFiles(basePath string, maxBackups int) error {
	dir := filepath.Dir(basePath)
	ext := filepath.Ext(basePath)
	stem := strings.TrimSuffix(filepath.Base(basePath), ext)

	backupPath := func(n int) string {
		return filepath.Join(dir, fmt.Sprintf("%s.%d%s", stem, n, ext))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var nums []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		middle, ok := strings.CutPrefix(entry.Name(), stem+".")
		if !ok {
			continue
		}
		middle, ok = strings.CutSuffix(middle, ext)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(middle); err == nil {
			nums = append(nums, n)
		}
	}

	// Highest first, so each rename lands in a free slot.
	sort.Sort(sort.Reverse(sort.IntSlice(nums)))
	for _, n := range nums {
		if n >= maxBackups {
			os.Remove(backupPath(n))
			continue
		}
		if err := os.Rename(backupPath(n), backupPath(n+1)); err != nil {
			return fmt.Errorf("failed to shift backup %d: %w", n, err)
		}
	}

	if _, err := os.Stat(basePath); err == nil {
		if err := os.Rename(basePath, backupPath(1)); err != nil {
			return fmt.Errorf("failed to rotate current log: %w", err)
		}
	}
	return nil
}
