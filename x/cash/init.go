package cash

import (
	"context"

	"github.com/iov-one/quorum"
)

const optKey = "cash"

// GenesisPool is used to parse the json from genesis file.
type GenesisPool struct {
	Pool uint64 `json:"pool"`
}

// FromGenesis seeds the pool with the amount found in the "cash" section
// of the genesis options. A missing section is not an error.
func (v *Vault) FromGenesis(ctx context.Context, opts quorum.Options) error {
	var gen GenesisPool
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	if gen.Pool == 0 {
		return nil
	}
	_, err := v.Deposit(ctx, nil, gen.Pool)
	return err
}
