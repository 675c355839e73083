package kvdb

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// badgerLogger zap을 badger.Logger로 맞춤
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.s.Errorf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.s.Warnf(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.s.Debugf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   { l.s.Debugf(format, args...) }

// badgerBackend LSM 트리 + 값 로그. path가 비어 있으면 인메모리
type badgerBackend struct {
	db *badger.DB
}

func openBadger(path string, logger *zap.Logger) (*badgerBackend, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{s: logger.Named("badger").Sugar()})
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerBackend{db: db}, nil
}

func (b *badgerBackend) writeBatch(pairs []pair) error {
	wb := b.db.NewWriteBatch()
	for _, p := range pairs {
		if err := wb.Set(p.key, p.value); err != nil {
			wb.Cancel()
			return err
		}
	}
	return wb.Flush()
}

func (b *badgerBackend) scan(ctx context.Context, prefix []byte, fn func(key, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			err := item.Value(func(val []byte) error {
				return fn(item.Key(), val)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *badgerBackend) close() error {
	return b.db.Close()
}
