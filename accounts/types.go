package accounts

type DataAndSlot[T any] struct {
	Data T
	Slot uint64
}

type BufferAndSlot struct {
	Buffer []byte
	Slot   uint64
}
