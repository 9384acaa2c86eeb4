package host

// Frame is one entry of the debugger's call stack.
type Frame interface {
	Name() (string, error)
	// Older returns the caller's frame, or nil for the outermost frame.
	Older() Frame
	Block() (Block, error)
}

// Block is a lexical scope. Superblock is nil above the global block.
type Block interface {
	Symbols() []Symbol
	Superblock() Block
	IsGlobal() bool
	Lookup(name string) (Symbol, bool)
}

type Symbol interface {
	Name() string
	TypeName() string
	IsArgument() bool
	IsFunction() bool
	IsValid() bool
	// Value resolves the symbol in the context of frame f. Globals ignore f.
	Value(f Frame) (Value, error)
}

// GlobalBlock walks the superblock chain of b up to its global scope.
func GlobalBlock(b Block) Block {
	for b != nil && !b.IsGlobal() {
		b = b.Superblock()
	}
	return b
}

// LookupValue finds name in the frame's block chain and resolves it.
func LookupValue(f Frame, name string) (Value, error) {
	b, err := f.Block()
	if err != nil {
		return nil, err
	}
	for ; b != nil; b = b.Superblock() {
		if sym, ok := b.Lookup(name); ok {
			return sym.Value(f)
		}
	}
	return nil, ErrNoSymbol
}
