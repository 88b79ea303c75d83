package catalog

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/qudit-systems/gozx/libzx/circuit"
)

// CanonicSet tracks which circuit actions have been witnessed. Two
// circuits with the same symplectic signature count as the same member.
type CanonicSet interface {

	// TryAdd adds the given circuit's action if it is not already present.
	//
	// If an equivalent circuit has been added before, this call has no
	// effect and returns false. Otherwise the action is recorded and
	// TryAdd returns true.
	//
	// After one or more calls to TryAdd(), call Close() for cleanup.
	TryAdd(c *circuit.Circuit) (bool, error)

	// Close removes all previously added items from this set.
	Close()
}

// NewCanonicSet returns an empty in-memory set.
func NewCanonicSet() CanonicSet {
	return &lsmSet{}
}

type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) TryAdd(c *circuit.Circuit) (bool, error) {
	key, err := Signature(c)
	if err != nil {
		return false, err
	}
	return set.tryAdd(key)
}

func (set *lsmSet) autoOpen() error {
	if set.db != nil {
		return nil
	}
	dbOpts := badger.DefaultOptions("").WithInMemory(true)
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	var err error
	set.db, err = badger.Open(dbOpts)
	return err
}

func (set *lsmSet) tryAdd(key []byte) (bool, error) {
	if err := set.autoOpen(); err != nil {
		return false, err
	}

	txn := set.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(key)
	if err == nil {
		// the key is already in the db
		return false, nil
	}
	if err != badger.ErrKeyNotFound {
		return false, err
	}
	if err = txn.Set(key, nil); err != nil {
		return false, err
	}
	return true, txn.Commit()
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
