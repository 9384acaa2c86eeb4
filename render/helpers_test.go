package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bgdev/bashview/config"
	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/inferior"
	"github.com/bgdev/bashview/trace"
)

type fixture struct {
	img   *inferior.Image
	flags *config.Flags
	log   *bytes.Buffer
	table *Table
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	img := inferior.NewImage(t.Name())
	flags := config.NewFlags()
	var log bytes.Buffer
	return &fixture{
		img:   img,
		flags: flags,
		log:   &log,
		table: NewTable(flags, trace.New(&log, flags), img),
	}
}

func (f *fixture) value(c inferior.Cell) host.Value {
	return f.img.Value(c)
}

// stubValue lets tests inject failures the image can't produce.
type stubValue struct {
	typ   string
	kind  host.Kind
	addr  host.Addr
	deref func() (host.Value, error)
}

var errStub = errors.New("stub failure")

func (s *stubValue) TypeName() string { return s.typ }
func (s *stubValue) Kind() host.Kind { return s.kind }
func (s *stubValue) Address() host.Addr { return s.addr }

func (s *stubValue) Deref() (host.Value, error) {
	if s.deref != nil {
		return s.deref()
	}
	return nil, errStub
}

func (s *stubValue) Field(string) (host.Value, error) { return nil, errStub }
func (s *stubValue) Fields() ([]string, error) { return nil, errStub }
func (s *stubValue) Index(int) (host.Value, error) { return nil, errStub }
func (s *stubValue) Cast(string) (host.Value, error) { return nil, errStub }
func (s *stubValue) Int() (int64, error) { return 0, errStub }
func (s *stubValue) CString() (string, error) { return "", errStub }
func (s *stubValue) Format() (string, error) { return "", errStub }

type anyMemory struct{}

func (anyMemory) ReadMemory(addr host.Addr, n int) ([]byte, error) {
	return make([]byte, n), nil
}
