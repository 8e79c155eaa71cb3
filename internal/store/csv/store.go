// Package csvstore implements the tabular repositories over plain CSV
// files with read-all / mutate-in-memory / write-all semantics. Every
// mutation rewrites the whole file through a temp-file rename so a crash
// never leaves a half-written table behind. Each store serializes access
// with its own mutex; cross-process writers additionally go through the
// resource locker.
package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

// readTable loads a whole CSV file including its header row. A missing
// file yields (nil, nil, false) so callers can decide whether absence is
// an empty table or a storage failure.
func readTable(path string) (header []string, rows [][]string, exists bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, false, nil
		}
		return nil, nil, false, fmt.Errorf("%w: open %s: %v", scheduling.ErrStorage, path, err)
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, false, fmt.Errorf("%w: read %s: %v", scheduling.ErrStorage, path, err)
	}
	if len(all) == 0 {
		return nil, nil, true, nil
	}
	return all[0], all[1:], true, nil
}

// writeTable rewrites the whole CSV file atomically.
func writeTable(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: mkdir for %s: %v", scheduling.ErrStorage, path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", scheduling.ErrStorage, path, err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err == nil {
		err = w.WriteAll(rows)
	}
	w.Flush()
	if err := firstErr(w.Error(), tmp.Close()); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", scheduling.ErrStorage, path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", scheduling.ErrStorage, path, err)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
