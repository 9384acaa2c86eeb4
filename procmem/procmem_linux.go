//go:build linux

// Package procmem reads the memory of a live process, so pointer checks
// can run against a real bash instead of a simulated image.
package procmem

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/bgdev/bashview/host"
)

// Reader reads another process's memory with process_vm_readv. The caller
// needs ptrace access to the target.
type Reader struct {
	pid int
}

func New(pid int) *Reader {
	return &Reader{pid: pid}
}

func (r *Reader) Pid() int {
	return r.pid
}

func (r *Reader) ReadMemory(addr host.Addr, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("read of %d bytes", n)
	}
	buf := make([]byte, n)
	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(n)
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: n}}

	got, err := unix.ProcessVMReadv(r.pid, local, remote, 0)
	if err != nil {
		return nil, fmt.Errorf("%w at address %s: %w", host.ErrBadAddress, addr, err)
	}
	if got < n {
		return nil, fmt.Errorf("%w at address %s: short read of %d/%d bytes", host.ErrBadAddress, addr, got, n)
	}
	return buf, nil
}
