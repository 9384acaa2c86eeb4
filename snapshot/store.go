// Package snapshot keeps debuggee images in a content-addressed store, so a
// captured heap can be rendered again later or shared by its hash.
package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strconv"
)

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Store interface {
	Put(item Serde) (Hash, error)
	Has(hash Hash) bool
	getValue(h Hash) (bool, []byte, error)
}

// Hash is the farm hash of an item's encoded bytes.
type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

func ParseHash(s string) (Hash, error) {
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad snapshot hash %q: %w", s, err)
	}
	return Hash(n), nil
}

// Retrieve decodes the item stored under hash into a new T, which must be a
// pointer type.
func Retrieve[T Serde](s Store, hash Hash) (T, error) {
	var t T
	typ := reflect.TypeOf(t)
	if typ == nil || typ.Kind() != reflect.Pointer {
		return t, fmt.Errorf("cannot retrieve into non-pointer type %T", t)
	}

	has, data, err := s.getValue(hash)
	if err != nil {
		return t, err
	}
	if !has {
		return t, fmt.Errorf("hash not found in store: %s", hash)
	}

	out := reflect.New(typ.Elem()).Interface().(T)
	if err := out.Deserialize(bytes.NewReader(data)); err != nil {
		return t, fmt.Errorf("deserializing %s: %w", hash, err)
	}
	return out, nil
}

func encode(item Serde) ([]byte, error) {
	var buf bytes.Buffer
	if err := item.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
