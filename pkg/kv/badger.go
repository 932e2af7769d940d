package kv

import (
	"bytes"
	"sort"

	"github.com/dgraph-io/badger/v4"
)

// BadgerOptions configures the persistent backend.
type BadgerOptions struct {
	// DataDir is the directory badger stores its LSM tree and value log
	// in. Required unless InMemory is set, in which case it is ignored.
	DataDir string

	// InMemory runs badger entirely in RAM. Useful for tests that still
	// want to exercise the badger code path rather than MemoryBackend.
	InMemory bool

	// SyncWrites forces an fsync on every write instead of deferring to
	// the next explicit Flush.
	SyncWrites bool

	// Logger receives badger's internal diagnostics. Nil disables
	// badger's own logging.
	Logger badger.Logger
}

// BadgerBackend is the persistent Backend implementation: a badger LSM
// store with write-ahead log, opened at a single directory.
type BadgerBackend struct {
	db *badger.DB
}

// OpenBadgerBackend opens (creating if missing) a badger-backed store at
// dataDir with default options.
func OpenBadgerBackend(dataDir string) (*BadgerBackend, error) {
	return OpenBadgerBackendWithOptions(BadgerOptions{DataDir: dataDir})
}

// OpenBadgerBackendWithOptions opens a badger-backed store with explicit
// tuning.
func OpenBadgerBackendWithOptions(opts BadgerOptions) (*BadgerBackend, error) {
	dir := opts.DataDir
	if opts.InMemory {
		// badger refuses to open in disk-less mode with a directory set.
		dir = ""
	}
	badgerOpts := badger.DefaultOptions(dir)
	if opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}
	if opts.SyncWrites {
		badgerOpts = badgerOpts.WithSyncWrites(true)
	}
	badgerOpts = badgerOpts.WithLogger(opts.Logger)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	return &BadgerBackend{db: db}, nil
}

func (b *BadgerBackend) Put(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (b *BadgerBackend) Get(key []byte) ([]byte, bool, error) {
	var value []byte
	found := false
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(v []byte) error {
			value = append([]byte(nil), v...)
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return value, found, nil
}

func (b *BadgerBackend) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (b *BadgerBackend) Exists(key []byte) (bool, error) {
	var found bool
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

func (b *BadgerBackend) ScanPrefix(prefix []byte) ([]KV, error) {
	var out []KV
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := append([]byte(nil), item.KeyCopy(nil)...)
			err := item.Value(func(v []byte) error {
				out = append(out, KV{Key: key, Value: append([]byte(nil), v...)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// badger iterates in key order already; sort defensively in case a
	// future iterator option changes that.
	sortKV(out)
	return out, nil
}

func sortKV(kvs []KV) {
	sort.Slice(kvs, func(i, j int) bool { return bytes.Compare(kvs[i].Key, kvs[j].Key) < 0 })
}

func (b *BadgerBackend) WriteBatch(ops []BatchOp) error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, op := range ops {
		var err error
		switch op.Kind {
		case OpPut:
			err = wb.Set(op.Key, op.Value)
		case OpDelete:
			err = wb.Delete(op.Key)
		}
		if err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (b *BadgerBackend) Flush() error {
	return b.db.Sync()
}

func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
