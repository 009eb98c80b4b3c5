// Package subscription defines the filter model applied to stream updates
// and the manager enforcing the single-active-subscription rule with atomic
// filter replacement.
package subscription

import (
	dec "github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
	"github.com/draken-labs/dexstream/ingestor/common"
)

// MemcmpFilter matches raw account data bytes at a fixed offset, the same
// shape the stream server accepts. Filters are always re-checked locally;
// server-side pushdown is an optimization, not the source of truth.
type MemcmpFilter struct {
	Offset uint64
	Bytes  []byte
}

// Matches reports whether data carries Bytes at Offset. Offset checks avoid
// summing with the pattern length, which could wrap for a hostile offset.
func (m MemcmpFilter) Matches(data []byte) bool {
	if m.Offset > uint64(len(data)) || uint64(len(data))-m.Offset < uint64(len(m.Bytes)) {
		return false
	}
	for i, b := range m.Bytes {
		if data[m.Offset+uint64(i)] != b {
			return false
		}
	}
	return true
}

// TransactionFilter selects transactions by the account keys they touch.
// An empty include list matches every transaction; exclude wins over
// include; required keys must all be present.
type TransactionFilter struct {
	AccountInclude  []dec.Pubkey
	AccountExclude  []dec.Pubkey
	AccountRequired []dec.Pubkey

	include  map[dec.Pubkey]struct{}
	exclude  map[dec.Pubkey]struct{}
	required map[dec.Pubkey]struct{}
}

// compile builds the lookup sets; called once when the filter enters a
// State.
func (f *TransactionFilter) compile() {
	f.include = keySet(f.AccountInclude)
	f.exclude = keySet(f.AccountExclude)
	f.required = keySet(f.AccountRequired)
}

// Matches reports whether tx passes the filter.
func (f *TransactionFilter) Matches(tx *common.TransactionUpdate) bool {
	if f == nil {
		return true
	}
	for _, k := range tx.AccountKeys {
		if _, bad := f.exclude[k]; bad {
			return false
		}
	}
	if len(f.required) > 0 {
		found := 0
		for _, k := range tx.AccountKeys {
			if _, ok := f.required[k]; ok {
				found++
			}
		}
		if found < len(f.required) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, k := range tx.AccountKeys {
		if _, ok := f.include[k]; ok {
			return true
		}
	}
	return false
}

// AccountFilter selects account updates by pubkey, owning program, and raw
// data contents. Empty lists match everything; every memcmp filter must
// match.
type AccountFilter struct {
	Accounts []dec.Pubkey
	Owners   []dec.Pubkey
	Memcmp   []MemcmpFilter

	accounts map[dec.Pubkey]struct{}
	owners   map[dec.Pubkey]struct{}
}

func (f *AccountFilter) compile() {
	f.accounts = keySet(f.Accounts)
	f.owners = keySet(f.Owners)
}

// Matches reports whether acc passes the filter.
func (f *AccountFilter) Matches(acc *common.AccountUpdate) bool {
	if f == nil {
		return true
	}
	if len(f.accounts) > 0 {
		if _, ok := f.accounts[acc.Pubkey]; !ok {
			return false
		}
	}
	if len(f.owners) > 0 {
		if _, ok := f.owners[acc.Owner]; !ok {
			return false
		}
	}
	for _, m := range f.Memcmp {
		if !m.Matches(acc.Data) {
			return false
		}
	}
	return true
}

// State is one complete subscription: what to pull from the stream and
// which decoded events to keep. A State is immutable once installed; changes
// go through Manager.Update, which swaps the whole State.
type State struct {
	Transactions *TransactionFilter
	Accounts     *AccountFilter
	EventTypes   *events.TypeFilter
}

// NewState compiles the filter lookup sets and returns the ready state. Nil
// filters mean match-everything.
func NewState(tx *TransactionFilter, acc *AccountFilter, types *events.TypeFilter) *State {
	if tx != nil {
		tx.compile()
	}
	if acc != nil {
		acc.compile()
	}
	return &State{Transactions: tx, Accounts: acc, EventTypes: types}
}

// MatchTransaction applies the transaction filter.
func (s *State) MatchTransaction(tx *common.TransactionUpdate) bool {
	if s == nil {
		return true
	}
	return s.Transactions.Matches(tx)
}

// MatchAccount applies the account filter.
func (s *State) MatchAccount(acc *common.AccountUpdate) bool {
	if s == nil {
		return true
	}
	return s.Accounts.Matches(acc)
}

// MatchEvent applies the event type filter.
func (s *State) MatchEvent(ev events.DexEvent) bool {
	if s == nil {
		return true
	}
	return s.EventTypes.Accepts(ev)
}

func keySet(keys []dec.Pubkey) map[dec.Pubkey]struct{} {
	if len(keys) == 0 {
		return nil
	}
	m := make(map[dec.Pubkey]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}
