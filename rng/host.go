package rng

import "github.com/go-errors/errors"

// HostFunctions are the four random functions a sandbox host exports across
// the execution boundary. TryFillBytes returns 0 on success and a host
// specific nonzero code otherwise.
type HostFunctions interface {
	NextU32() uint32
	NextU64() uint64
	FillBytes(dst []byte)
	TryFillBytes(dst []byte) uint32
}

// HostBridge forwards every call to the host. It keeps no state of its own:
// each call is an independent draw from the host's generator.
type HostBridge struct {
	host HostFunctions
}

func NewHostBridge(host HostFunctions) *HostBridge {
	return &HostBridge{host: host}
}

func (b *HostBridge) NextUint32() uint32 {
	return b.host.NextU32()
}

func (b *HostBridge) NextUint64() uint64 {
	return b.host.NextU64()
}

func (b *HostBridge) FillBytes(dst []byte) {
	b.host.FillBytes(dst)
}

// TryFillBytes surfaces the host's error code unmodified in an EntropyError.
func (b *HostBridge) TryFillBytes(dst []byte) error {
	if code := b.host.TryFillBytes(dst); code != 0 {
		return errors.Wrap(&EntropyError{Code: code}, 0)
	}
	return nil
}

// HostFuncs builds HostFunctions from plain functions, as handed over by a
// sandbox runtime's import table.
type HostFuncs struct {
	U32     func() uint32
	U64     func() uint64
	Fill    func(dst []byte)
	TryFill func(dst []byte) uint32
}

func (f HostFuncs) NextU32() uint32                { return f.U32() }
func (f HostFuncs) NextU64() uint64                { return f.U64() }
func (f HostFuncs) FillBytes(dst []byte)           { f.Fill(dst) }
func (f HostFuncs) TryFillBytes(dst []byte) uint32 { return f.TryFill(dst) }
