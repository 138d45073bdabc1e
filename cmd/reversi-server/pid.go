package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
)

// pidFile is a written (and optionally flock'ed) PID file
type pidFile struct {
	path   string
	file   *os.File
	locked bool
}

// managePIDFile writes the current PID to path. With lock set, a second
// server pointed at the same file refuses to start. The returned cleanup
// removes the file and must be called on exit.
func managePIDFile(path string, lock bool) (func(), error) {
	pf := &pidFile{path: path}
	if err := pf.open(lock); err != nil {
		return nil, err
	}

	if lock {
		if err := syscall.Flock(int(pf.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
			pf.file.Close()
			if errors.Is(err, syscall.EWOULDBLOCK) {
				return nil, fmt.Errorf("cannot acquire lock: another instance is running")
			}
			return nil, fmt.Errorf("lock failed: %w", err)
		}
		pf.locked = true
	}

	if err := pf.write(os.Getpid()); err != nil {
		pf.release()
		return nil, err
	}

	return pf.release, nil
}

func (pf *pidFile) open(lock bool) error {
	file, err := os.OpenFile(pf.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err == nil {
		pf.file = file
		return nil
	}
	if !os.IsExist(err) {
		return fmt.Errorf("cannot create PID file: %w", err)
	}

	// An existing file only blocks startup when locking is requested
	if lock {
		if err := checkStalePID(pf.path); err != nil {
			return err
		}
	} else {
		log.Warn().Str("path", pf.path).Msg("overwriting existing PID file")
	}

	file, err = os.OpenFile(pf.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("cannot open PID file: %w", err)
	}
	pf.file = file
	return nil
}

func (pf *pidFile) write(pid int) error {
	if _, err := fmt.Fprintf(pf.file, "%d\n", pid); err != nil {
		return fmt.Errorf("cannot write PID: %w", err)
	}
	if err := pf.file.Sync(); err != nil {
		return fmt.Errorf("cannot sync PID file: %w", err)
	}
	return nil
}

func (pf *pidFile) release() {
	if pf.locked {
		syscall.Flock(int(pf.file.Fd()), syscall.LOCK_UN)
	}
	pf.file.Close()
	if err := os.Remove(pf.path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", pf.path).Msg("failed to remove PID file")
	}
}

// checkStalePID inspects an existing PID file. A file left by a dead
// process is reclaimed, a live owner is reported as an error.
func checkStalePID(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read existing PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("corrupted PID file (contains: %q)", string(data))
	}

	// FindProcess never fails on Unix, signal 0 probes for existence
	proc, _ := os.FindProcess(pid)
	err = proc.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return fmt.Errorf("PID file %s is held by running process %d", path, pid)
	case errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH):
		log.Warn().Int("pid", pid).Str("path", path).Msg("reclaiming stale PID file")
		return nil
	default:
		return fmt.Errorf("process %d exists but cannot verify ownership: %v", pid, err)
	}
}
