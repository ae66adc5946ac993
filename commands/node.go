package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store/iavl"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	genesisFile = "genesis.json"
	dataDir     = "data"
	dbName      = "quorum"
)

// node gives access to the state kept under a home directory.
type node struct {
	home   string
	logger log.Logger
}

func (n *node) genesisPath() string {
	return filepath.Join(n.home, genesisFile)
}

// instance is an opened engine together with the store backing it.
type instance struct {
	store  *iavl.CommitStore
	vault  *cash.Vault
	engine *multisig.Engine
	gen    *quorum.Genesis
}

// open loads the genesis file and resumes the engine from the data
// directory.
func (n *node) open() (*instance, error) {
	gen, err := quorum.LoadGenesis(n.genesisPath())
	if err != nil {
		return nil, errors.Wrap(err, "not initialized, run init first")
	}
	conf, err := multisig.FromGenesis(gen.AppOptions)
	if err != nil {
		return nil, errors.Wrap(err, "genesis")
	}

	dir := filepath.Join(n.home, dataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create %s: %s", dir, err)
	}
	db, err := iavl.NewCommitStore(dir, dbName)
	if err != nil {
		return nil, err
	}

	vault := cash.NewVault(db, nil)
	engine, err := multisig.NewEngine(conf,
		multisig.WithStore(db),
		multisig.WithVault(vault),
		multisig.WithLogger(n.logger),
		multisig.WithEventSink(multisig.LogSink{Logger: n.logger.With("module", "events")}),
	)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &instance{store: db, vault: vault, engine: engine, gen: gen}, nil
}

// view runs fn on an opened instance without committing.
func (n *node) view(fn func(ctx context.Context, in *instance) error) error {
	in, err := n.open()
	if err != nil {
		return err
	}
	defer in.store.Close()
	return fn(n.context(), in)
}

// mutate runs fn on an opened instance and commits a new version if fn
// succeeds or fails with an error in keepOnFailure. The error of fn is
// returned after the commit.
func (n *node) mutate(fn func(ctx context.Context, in *instance) error) error {
	in, err := n.open()
	if err != nil {
		return err
	}
	defer in.store.Close()

	ferr := fn(n.context(), in)
	if ferr != nil && !keepOnFailure(ferr) {
		return ferr
	}
	id, err := in.store.Commit()
	if err != nil {
		return errors.Wrap(err, "commit")
	}
	n.logger.Debug("committed", "version", id.Version, "hash", id.Hash)
	return ferr
}

// keepOnFailure reports errors returned after the engine already wrote
// state that must survive. A failed dispatch still consumes the
// transaction, or reopens it under the retry policy.
func keepOnFailure(err error) bool {
	return multisig.ErrExecutionFailed.Is(err)
}

func (n *node) context() context.Context {
	return quorum.WithLogger(context.Background(), n.logger)
}
