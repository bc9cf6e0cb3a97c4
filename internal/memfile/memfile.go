// Package memfile creates anonymous RAM-backed files via memfd_create(2),
// used as scratch space for decrypted CSV payloads so they never touch
// durable storage. The returned file is exposed only through its
// /proc/self/fd/<N> path, since DuckDB's read_csv needs a filesystem path
// rather than a file descriptor directly.
package memfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"motherduck-destination/internal/errs"
)

// name is the memfd label; it shows up in /proc/<pid>/fd listings but has
// no functional effect.
const name = "fivetran_decrypted.csv"

// File wraps a memfd_create'd anonymous file descriptor.
type File struct {
	fd int
}

// Create allocates a new anonymous RAM-backed file of the given size.
func Create(sizeBytes int64) (*File, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return nil, errs.IO("creating memfd: %v", err)
	}

	if err := unix.Ftruncate(fd, sizeBytes); err != nil {
		unix.Close(fd)
		return nil, errs.IO("setting size of memfd to %d bytes: %v", sizeBytes, err)
	}

	return &File{fd: fd}, nil
}

// Path returns the /proc/self/fd path that other processes in this
// address space (including cgo-linked DuckDB) can open to read this
// file's contents.
func (f *File) Path() string {
	return fmt.Sprintf("/proc/self/fd/%d", f.fd)
}

// Fd returns the raw file descriptor, for callers that need to dup or
// pass it explicitly rather than go through Path.
func (f *File) Fd() int {
	return f.fd
}

// Take transfers ownership of the descriptor to the caller, leaving this
// File holding no descriptor (Close becomes a no-op). This mirrors the
// original implementation's move-constructor semantics: after Take, the
// source no longer owns (and will not close) the descriptor.
func (f *File) Take() int {
	fd := f.fd
	f.fd = -1
	return fd
}

// Close releases the underlying descriptor, freeing the kernel-held
// memory backing it. Closing an already-closed or moved-from File is a
// no-op.
func (f *File) Close() error {
	if f.fd < 0 {
		return nil
	}
	fd := f.fd
	f.fd = -1
	if err := unix.Close(fd); err != nil {
		return errs.IO("closing memfd: %v", err)
	}
	return nil
}

// Writer returns an *os.File positioned at offset 0 that writes into this
// memfd, backed by a dup'd descriptor so closing the writer never closes
// f's own descriptor.
func (f *File) Writer() (*os.File, error) {
	if f.fd < 0 {
		return nil, errs.Internal("memfile: Writer called after Close/Take")
	}
	dup, err := unix.Dup(f.fd)
	if err != nil {
		return nil, errs.IO("duplicating memfd descriptor: %v", err)
	}
	if _, err := unix.Seek(dup, 0, 0); err != nil {
		unix.Close(dup)
		return nil, errs.IO("seeking memfd writer to start: %v", err)
	}
	return os.NewFile(uintptr(dup), name), nil
}
