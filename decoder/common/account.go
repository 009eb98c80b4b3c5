package common

// AccountInfo is the decoder-facing view of one account-state update:
// identity and the raw data bytes, discriminator included.
type AccountInfo struct {
	Pubkey       Pubkey
	Owner        Pubkey
	Lamports     uint64
	Slot         uint64
	WriteVersion uint64
	Executable   bool
	Data         []byte
}
