// Package common holds the transport-neutral update model the event factory
// consumes, plus the slot-to-blocktime cache shared across the ingest path.
package common

import (
	"time"

	"github.com/mr-tron/base58/base58"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"

	dec "github.com/draken-labs/dexstream/decoder/common"
)

// InnerInstruction is one CPI invocation nested under an outer instruction.
type InnerInstruction struct {
	ProgramID dec.Pubkey
	Accounts  []dec.Pubkey
	Data      []byte
	Index     int // position within the inner group
}

// Instruction is one outer instruction with its resolved account keys and
// any inner instructions that executed under it.
type Instruction struct {
	ProgramID dec.Pubkey
	Accounts  []dec.Pubkey
	Data      []byte
	Index     int
	Inner     []InnerInstruction
}

// TransactionUpdate is a fully resolved transaction: account indexes are
// translated to keys, including addresses loaded through lookup tables.
type TransactionUpdate struct {
	Slot        uint64
	Signature   string
	TxIndex     uint64
	Failed      bool
	BlockTime   time.Time
	AccountKeys []dec.Pubkey
	Instructions []Instruction
}

// AccountUpdate is one account-state change.
type AccountUpdate struct {
	dec.AccountInfo
	TxSignature string
}

// ConvertTransaction flattens a Yellowstone transaction update into the
// decoder-facing model. Returns nil when the transaction or its metadata is
// missing, or when the account index space is inconsistent.
func ConvertTransaction(tx *pb.SubscribeUpdateTransaction) *TransactionUpdate {
	if tx == nil {
		return nil
	}
	info := tx.GetTransaction()
	if info == nil {
		return nil
	}
	meta := info.GetMeta()
	msg := info.GetTransaction().GetMessage()
	if meta == nil || msg == nil {
		return nil
	}

	keys := make([]dec.Pubkey, 0,
		len(msg.GetAccountKeys())+len(meta.GetLoadedWritableAddresses())+len(meta.GetLoadedReadonlyAddresses()))
	for _, k := range msg.GetAccountKeys() {
		keys = append(keys, dec.PubkeyFromBytes(k))
	}
	// Lookup-table addresses extend the static key list: writable first.
	for _, k := range meta.GetLoadedWritableAddresses() {
		keys = append(keys, dec.PubkeyFromBytes(k))
	}
	for _, k := range meta.GetLoadedReadonlyAddresses() {
		keys = append(keys, dec.PubkeyFromBytes(k))
	}

	inner := make(map[int][]InnerInstruction)
	for _, grp := range meta.GetInnerInstructions() {
		outer := int(grp.GetIndex())
		for i, in := range grp.GetInstructions() {
			conv, ok := convertCompiled(keys, in.GetProgramIdIndex(), in.GetAccounts(), in.GetData())
			if !ok {
				continue
			}
			inner[outer] = append(inner[outer], InnerInstruction{
				ProgramID: conv.ProgramID,
				Accounts:  conv.Accounts,
				Data:      conv.Data,
				Index:     i,
			})
		}
	}

	out := &TransactionUpdate{
		Slot:        tx.GetSlot(),
		Signature:   base58.Encode(info.GetSignature()),
		TxIndex:     info.GetIndex(),
		Failed:      meta.GetErr() != nil,
		AccountKeys: keys,
	}
	for i, ix := range msg.GetInstructions() {
		conv, ok := convertCompiled(keys, ix.GetProgramIdIndex(), ix.GetAccounts(), ix.GetData())
		if !ok {
			continue
		}
		conv.Index = i
		conv.Inner = inner[i]
		out.Instructions = append(out.Instructions, conv)
	}
	return out
}

func convertCompiled(keys []dec.Pubkey, programIdx uint32, accountIdx []byte, data []byte) (Instruction, bool) {
	if int(programIdx) >= len(keys) {
		return Instruction{}, false
	}
	accounts := make([]dec.Pubkey, 0, len(accountIdx))
	for _, idx := range accountIdx {
		if int(idx) >= len(keys) {
			return Instruction{}, false
		}
		accounts = append(accounts, keys[idx])
	}
	return Instruction{
		ProgramID: keys[programIdx],
		Accounts:  accounts,
		Data:      data,
	}, true
}

// ConvertAccount flattens a Yellowstone account update. Returns nil when the
// inner account info is missing.
func ConvertAccount(acc *pb.SubscribeUpdateAccount) *AccountUpdate {
	if acc == nil {
		return nil
	}
	info := acc.GetAccount()
	if info == nil {
		return nil
	}
	out := &AccountUpdate{
		AccountInfo: dec.AccountInfo{
			Pubkey:       dec.PubkeyFromBytes(info.GetPubkey()),
			Owner:        dec.PubkeyFromBytes(info.GetOwner()),
			Lamports:     info.GetLamports(),
			Slot:         acc.GetSlot(),
			WriteVersion: info.GetWriteVersion(),
			Executable:   info.GetExecutable(),
			Data:         info.GetData(),
		},
	}
	if sig := info.GetTxnSignature(); len(sig) > 0 {
		out.TxSignature = base58.Encode(sig)
	}
	return out
}
