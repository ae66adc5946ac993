package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Config is the owner set and the confirmation threshold of an engine.
// Both are fixed for the lifetime of the engine.
type Config struct {
	Owners    []quorum.Address `json:"owners"`
	Threshold uint32           `json:"threshold"`
}

// Validate checks the configuration. Checks run in a fixed order and each
// failure has its own error kind.
func (c Config) Validate() error {
	if len(c.Owners) == 0 {
		return errors.Wrap(ErrOwnersRequired, "empty owner set")
	}
	if c.Threshold == 0 || int(c.Threshold) > len(c.Owners) {
		return errors.Wrapf(ErrInvalidThreshold, "%d of %d owners", c.Threshold, len(c.Owners))
	}
	for i, o := range c.Owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidOwner, "owner %d: %s", i, err)
		}
	}
	index := make(map[string]struct{}, len(c.Owners))
	for _, o := range c.Owners {
		key := string(o)
		if _, exists := index[key]; exists {
			return errors.Wrapf(ErrDuplicateOwner, "owner %s", o)
		}
		index[key] = struct{}{}
	}
	return nil
}

// Copy returns a deep copy of the configuration.
func (c Config) Copy() Config {
	owners := make([]quorum.Address, len(c.Owners))
	for i, o := range c.Owners {
		owners[i] = o.Clone()
	}
	return Config{
		Owners:    owners,
		Threshold: c.Threshold,
	}
}

// Equals returns true if both configurations list the same owners in the
// same order with the same threshold.
func (c Config) Equals(o Config) bool {
	if c.Threshold != o.Threshold || len(c.Owners) != len(o.Owners) {
		return false
	}
	for i := range c.Owners {
		if !c.Owners[i].Equals(o.Owners[i]) {
			return false
		}
	}
	return true
}

// FromGenesis reads the engine configuration from the "multisig" section
// of the genesis options.
func FromGenesis(opts quorum.Options) (Config, error) {
	var conf Config
	if err := opts.ReadOptions("multisig", &conf); err != nil {
		return conf, err
	}
	return conf, conf.Validate()
}
