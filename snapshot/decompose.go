package snapshot

import (
	"fmt"
	"io"
	"slices"

	msgpack "github.com/shamaton/msgpack/v2"

	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/inferior"
)

// imageFormat tags manifests, which share a store with object entries.
const imageFormat = "bashview-image/1"

// ImageRef is the stored form of a decomposed image. The heap is kept as
// one entry per object, so images that share objects share storage. Roots
// are named cells, in name order.
type ImageRef struct {
	Format       string
	Label        string
	Next         host.Addr
	Globals      []inferior.SymbolDef
	Frames       []inferior.FrameDef
	Addrs        []host.Addr
	ObjectHashes []Hash
	RootNames    []string
	RootCells    []inferior.Cell
}

// IsImage reports whether r was decoded from an image manifest rather than
// some other entry.
func (r *ImageRef) IsImage() bool {
	return r.Format == imageFormat
}

func (r *ImageRef) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, r)
}

func (r *ImageRef) Deserialize(rd io.Reader) error {
	return msgpack.UnmarshalRead(rd, r)
}

type objectEntry struct {
	Object inferior.Object
}

func (o *objectEntry) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, o)
}

func (o *objectEntry) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, o)
}

// PutImage stores img and the named cells in roots, returning the hash of
// the top-level ImageRef.
func PutImage(s Store, img *inferior.Image, roots map[string]inferior.Cell) (Hash, error) {
	if img == nil {
		return 0, fmt.Errorf("cannot decompose nil Image")
	}

	addrs := make([]host.Addr, 0, len(img.Objects))
	for addr := range img.Objects {
		addrs = append(addrs, addr)
	}
	slices.Sort(addrs)

	ref := &ImageRef{
		Format:       imageFormat,
		Label:        img.Label,
		Next:         img.Next,
		Globals:      img.Globals,
		Frames:       img.Frames,
		Addrs:        addrs,
		ObjectHashes: make([]Hash, len(addrs)),
	}
	for i, addr := range addrs {
		h, err := s.Put(&objectEntry{Object: *img.Objects[addr]})
		if err != nil {
			return 0, fmt.Errorf("decomposing object at %s: %w", addr, err)
		}
		ref.ObjectHashes[i] = h
	}

	for name := range roots {
		ref.RootNames = append(ref.RootNames, name)
	}
	slices.Sort(ref.RootNames)
	for _, name := range ref.RootNames {
		ref.RootCells = append(ref.RootCells, roots[name])
	}

	return s.Put(ref)
}

// RetrieveImage reassembles an image stored with PutImage.
func RetrieveImage(s Store, h Hash) (*inferior.Image, map[string]inferior.Cell, error) {
	ref, err := Retrieve[*ImageRef](s, h)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieving ImageRef: %w", err)
	}
	if !ref.IsImage() {
		return nil, nil, fmt.Errorf("%s is not an image", h)
	}
	if len(ref.Addrs) != len(ref.ObjectHashes) || len(ref.RootNames) != len(ref.RootCells) {
		return nil, nil, fmt.Errorf("malformed ImageRef %s", h)
	}

	img := inferior.NewImage(ref.Label)
	img.Next = ref.Next
	img.Globals = ref.Globals
	img.Frames = ref.Frames
	for i, oh := range ref.ObjectHashes {
		entry, err := Retrieve[*objectEntry](s, oh)
		if err != nil {
			return nil, nil, fmt.Errorf("recomposing object at %s: %w", ref.Addrs[i], err)
		}
		img.Objects[ref.Addrs[i]] = &entry.Object
	}

	roots := make(map[string]inferior.Cell, len(ref.RootNames))
	for i, name := range ref.RootNames {
		roots[name] = ref.RootCells[i]
	}
	return img, roots, nil
}
