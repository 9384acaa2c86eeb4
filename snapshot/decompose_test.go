package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgdev/bashview/config"
	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/inferior"
	"github.com/bgdev/bashview/render"
	"github.com/bgdev/bashview/trace"
)

func TestPutImageRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	img, cmd := sessionImage()

	h, err := PutImage(s, img, map[string]inferior.Cell{"loop": cmd})
	require.NoError(t, err)
	again, err := PutImage(s, img, map[string]inferior.Cell{"loop": cmd})
	require.NoError(t, err)
	assert.Equal(t, h, again)

	out, roots, err := RetrieveImage(s, h)
	require.NoError(t, err)
	assert.Equal(t, img.Label, out.Label)
	assert.Equal(t, img.Next, out.Next)
	assert.Len(t, out.Objects, len(img.Objects))
	require.Contains(t, roots, "loop")

	flags := config.NewFlags()
	table := render.NewTable(flags, trace.New(nil, flags), out)
	assert.Equal(t, "'for i ...'", table.Display(out.Value(roots["loop"])))
	assert.Equal(t, "execute_command", out.Frames[0].Name)
}

func TestPutImageSharesObjects(t *testing.T) {
	s := NewMemoryStore()
	img, cmd := sessionImage()
	_, err := PutImage(s, img, nil)
	require.NoError(t, err)
	before, objects := s.Len(), len(img.Objects)

	// Only the new objects and a new manifest are stored.
	img.Simple("true")
	added := len(img.Objects) - objects
	_, err = PutImage(s, img, map[string]inferior.Cell{"loop": cmd})
	require.NoError(t, err)
	assert.Equal(t, before+added+1, s.Len())
}

func TestRetrieveImageErrors(t *testing.T) {
	s := NewMemoryStore()
	_, _, err := RetrieveImage(s, Hash(1))
	assert.Error(t, err)

	h, err := s.Put(&ImageRef{Format: imageFormat, Addrs: []host.Addr{0x10}})
	require.NoError(t, err)
	_, _, err = RetrieveImage(s, h)
	assert.ErrorContains(t, err, "malformed")

	h, err = s.Put(&ImageRef{Format: imageFormat, Addrs: []host.Addr{0x10}, ObjectHashes: []Hash{42}})
	require.NoError(t, err)
	_, _, err = RetrieveImage(s, h)
	assert.ErrorContains(t, err, "recomposing object at 0x10")

	obj, err := s.Put(&objectEntry{Object: inferior.Object{Type: "char", Data: []byte{0}, Size: 1}})
	require.NoError(t, err)
	_, _, err = RetrieveImage(s, obj)
	assert.Error(t, err)

	_, err = PutImage(s, nil, nil)
	assert.Error(t, err)
}
