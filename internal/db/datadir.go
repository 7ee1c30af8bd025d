package db

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout names the backing files of one data directory.
type Layout struct {
	Dir          string
	Patients     string
	Doctors      string
	Slots        string
	Appointments string
	Histories    string
	Counters     string
}

// NewLayout returns the file layout rooted at dir without touching the filesystem.
func NewLayout(dir string) Layout {
	return Layout{
		Dir:          dir,
		Patients:     filepath.Join(dir, "patients.txt"),
		Doctors:      filepath.Join(dir, "doctors.txt"),
		Slots:        filepath.Join(dir, "schedules.txt"),
		Appointments: filepath.Join(dir, "appointments.txt"),
		Histories:    filepath.Join(dir, "histories.txt"),
		Counters:     filepath.Join(dir, "counters.txt"),
	}
}

// OpenDataDir makes sure dir exists and is a writable directory, then returns its layout.
func OpenDataDir(dir string) (Layout, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Layout{}, fmt.Errorf("create data dir: %w", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return Layout{}, fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return Layout{}, fmt.Errorf("data dir %s is not a directory", dir)
	}

	// Check writability on startup rather than on the first mutation.
	check, err := os.CreateTemp(dir, ".writecheck-*")
	if err != nil {
		return Layout{}, fmt.Errorf("data dir not writable: %w", err)
	}
	name := check.Name()
	_ = check.Close()
	_ = os.Remove(name)

	return NewLayout(dir), nil
}
