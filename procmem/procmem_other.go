//go:build !linux

package procmem

import (
	"errors"

	"github.com/bgdev/bashview/host"
)

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
	return nil, errors.ErrUnsupported
}
