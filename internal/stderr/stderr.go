//go:build !windows

// Package stderr captures output that C audio libraries (ALSA through the
// speaker backend) write straight to file descriptor 2, so it cannot corrupt
// the terminal view. Captured lines go to the logger.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

var (
	mu         sync.Mutex
	origStderr = -1
	pipeRead   *os.File
	pipeWrite  *os.File
	forwarded  sync.WaitGroup
)

// Start redirects fd 2 into a pipe whose lines are logged at warn level.
// On failure the program can continue with the original stderr.
func Start(logger *zap.Logger) error {
	mu.Lock()
	defer mu.Unlock()
	if origStderr >= 0 {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	orig, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := unix.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return err
	}

	origStderr, pipeRead, pipeWrite = orig, r, w
	forwarded.Add(1)
	go forward(r, logger)
	return nil
}

func forward(r *os.File, logger *zap.Logger) {
	defer forwarded.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			logger.Warn("native stderr", zap.String("line", line))
		}
	}
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
func WriteOriginal(msg string) {
	mu.Lock()
	fd := origStderr
	mu.Unlock()
	if fd < 0 {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = unix.Write(fd, []byte(msg))
}

// Stop restores the original stderr and waits for captured lines to be
// logged.
func Stop() {
	mu.Lock()
	if origStderr < 0 {
		mu.Unlock()
		return
	}
	_ = unix.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = unix.Close(origStderr)
	origStderr = -1
	// fd 2 no longer points at the pipe, so closing our end ends the reader.
	pipeWrite.Close()
	mu.Unlock()

	forwarded.Wait()
	pipeRead.Close()
}
