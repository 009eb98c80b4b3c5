package subscription

import (
	"fmt"
	"os"

	"github.com/mr-tron/base58/base58"
	"gopkg.in/yaml.v3"

	dec "github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

// FileConfig is the on-disk filter description. Keys and memcmp bytes are
// base58 strings, matching how operators copy them from explorers.
type FileConfig struct {
	Transactions struct {
		AccountInclude  []string `yaml:"account_include"`
		AccountExclude  []string `yaml:"account_exclude"`
		AccountRequired []string `yaml:"account_required"`
	} `yaml:"transactions"`
	Accounts struct {
		Accounts []string `yaml:"accounts"`
		Owners   []string `yaml:"owners"`
		Memcmp   []struct {
			Offset uint64 `yaml:"offset"`
			Bytes  string `yaml:"bytes"`
		} `yaml:"memcmp"`
	} `yaml:"accounts"`
	EventTypes []string `yaml:"event_types"`
}

// LoadFile reads a YAML filter file and compiles it into a State.
func LoadFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filter file: %w", err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse filter file: %w", err)
	}
	return cfg.Build()
}

// Build compiles the string-typed file config into a State.
func (c *FileConfig) Build() (*State, error) {
	txInclude, err := parseKeys(c.Transactions.AccountInclude)
	if err != nil {
		return nil, fmt.Errorf("transactions.account_include: %w", err)
	}
	txExclude, err := parseKeys(c.Transactions.AccountExclude)
	if err != nil {
		return nil, fmt.Errorf("transactions.account_exclude: %w", err)
	}
	txRequired, err := parseKeys(c.Transactions.AccountRequired)
	if err != nil {
		return nil, fmt.Errorf("transactions.account_required: %w", err)
	}
	accounts, err := parseKeys(c.Accounts.Accounts)
	if err != nil {
		return nil, fmt.Errorf("accounts.accounts: %w", err)
	}
	owners, err := parseKeys(c.Accounts.Owners)
	if err != nil {
		return nil, fmt.Errorf("accounts.owners: %w", err)
	}

	var memcmp []MemcmpFilter
	for i, m := range c.Accounts.Memcmp {
		raw, err := base58.Decode(m.Bytes)
		if err != nil {
			return nil, fmt.Errorf("accounts.memcmp[%d]: decode bytes: %w", i, err)
		}
		memcmp = append(memcmp, MemcmpFilter{Offset: m.Offset, Bytes: raw})
	}

	var typeFilter *events.TypeFilter
	if len(c.EventTypes) > 0 {
		types := make([]events.EventType, 0, len(c.EventTypes))
		for _, t := range c.EventTypes {
			types = append(types, events.EventType(t))
		}
		typeFilter = events.NewTypeFilter(types...)
	}

	var txFilter *TransactionFilter
	if len(txInclude)+len(txExclude)+len(txRequired) > 0 {
		txFilter = &TransactionFilter{
			AccountInclude:  txInclude,
			AccountExclude:  txExclude,
			AccountRequired: txRequired,
		}
	}
	var accFilter *AccountFilter
	if len(accounts)+len(owners)+len(memcmp) > 0 {
		accFilter = &AccountFilter{
			Accounts: accounts,
			Owners:   owners,
			Memcmp:   memcmp,
		}
	}
	return NewState(txFilter, accFilter, typeFilter), nil
}

func parseKeys(raw []string) ([]dec.Pubkey, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]dec.Pubkey, 0, len(raw))
	for _, s := range raw {
		k, err := dec.ParsePubkey(s)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", s, err)
		}
		out = append(out, k)
	}
	return out, nil
}
