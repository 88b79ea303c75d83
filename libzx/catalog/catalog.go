// Package catalog persists the best known simplification of each Clifford
// circuit action. Entries are keyed by the circuit's symplectic signature,
// so any two circuits denoting the same operator share one slot, and a
// stored circuit is only ever replaced by one with fewer gates.
package catalog

import (
	"bytes"
	"encoding/binary"

	"github.com/dgraph-io/badger/v3"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"

	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/circuit"
	"github.com/qudit-systems/gozx/libzx/symplectic"
)

// Catalog database format:
//
//	gEntryPrefix, SymplecticSignature => circuit encoding (best known)
//
// where SymplecticSignature := dim, 2n, then the matrix entries row-major,
// all uvarint. The in-session red-black tree shadows the gate count of
// every signature touched this session, so repeated TryImprove calls on
// the same action skip the db entirely.

var gEntryPrefix = []byte{0x01}

// Opts configures Open.
type Opts struct {
	// DbPathName locates the db on disk; empty means a memory-only
	// catalog that vanishes on Close.
	DbPathName string
	ReadOnly   bool
}

// Catalog is a db wrapper storing the shortest witnessed circuit per
// symplectic action.
type Catalog struct {
	db       *badger.DB
	readOnly bool
	session  *redblacktree.Tree // signature -> best gate count this session
}

// Open opens or creates a catalog.
func Open(opts Opts) (*Catalog, error) {
	if opts.ReadOnly && len(opts.DbPathName) == 0 {
		return nil, errors.Wrap(gozx.ErrBadCatalogParam,
			"DbPathName must be specified for a read-only catalog")
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false
	if len(opts.DbPathName) == 0 {
		dbOpts.InMemory = true
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	cat := &Catalog{
		db:       db,
		readOnly: opts.ReadOnly,
		session: &redblacktree.Tree{
			Comparator: func(a, b interface{}) int {
				return bytes.Compare(a.([]byte), b.([]byte))
			},
		},
	}
	return cat, nil
}

// Close flushes and closes the underlying db.
func (cat *Catalog) Close() error {
	if cat.db == nil {
		return nil
	}
	err := cat.db.Close()
	cat.db = nil
	return err
}

// Signature returns the canonical key for a circuit's action: its
// symplectic matrix serialized row-major.
func Signature(c *circuit.Circuit) ([]byte, error) {
	m, err := symplectic.ForCircuit(c)
	if err != nil {
		return nil, err
	}
	var tmp [binary.MaxVarintLen64]byte
	buf := make([]byte, 0, 2+m.N*m.N)
	put := func(v int) {
		n := binary.PutUvarint(tmp[:], uint64(v))
		buf = append(buf, tmp[:n]...)
	}
	put(m.Dim)
	put(m.N)
	for r := 0; r < m.N; r++ {
		for col := 0; col < m.N; col++ {
			put(m.At(r, col))
		}
	}
	return buf, nil
}

func entryKey(sig []byte) []byte {
	return append(append([]byte{}, gEntryPrefix...), sig...)
}

// TryImprove stores c as the best known circuit for its action if the
// catalog has no entry for that action yet, or only a longer one. It
// reports whether the stored entry changed.
func (cat *Catalog) TryImprove(c *circuit.Circuit) (bool, error) {
	if cat.readOnly {
		return false, errors.Wrap(gozx.ErrBadCatalogParam, "catalog is read-only")
	}
	sig, err := Signature(c)
	if err != nil {
		return false, err
	}

	if best, seen := cat.session.Get(sig); seen && best.(int) <= c.GateCount() {
		return false, nil
	}

	key := entryKey(sig)
	improved := false
	err = cat.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == nil {
			stored, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			prev := &circuit.Circuit{}
			if err := prev.UnmarshalBinary(stored); err != nil {
				return errors.Wrap(err, "corrupt catalog entry")
			}
			if prev.GateCount() <= c.GateCount() {
				cat.session.Put(sig, prev.GateCount())
				return nil
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		enc, err := c.MarshalBinary()
		if err != nil {
			return err
		}
		improved = true
		return txn.Set(key, enc)
	})
	if err != nil {
		return false, err
	}
	if improved {
		cat.session.Put(sig, c.GateCount())
	}
	return improved, nil
}

// Lookup returns the best known circuit with the same action as c, if
// the catalog holds one.
func (cat *Catalog) Lookup(c *circuit.Circuit) (*circuit.Circuit, bool, error) {
	sig, err := Signature(c)
	if err != nil {
		return nil, false, err
	}
	var out *circuit.Circuit
	err = cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(sig))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		stored, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		found := &circuit.Circuit{}
		if err := found.UnmarshalBinary(stored); err != nil {
			return errors.Wrap(err, "corrupt catalog entry")
		}
		out = found
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

// NumEntries counts the stored actions.
func (cat *Catalog) NumEntries() (int, error) {
	count := 0
	err := cat.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = gEntryPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
