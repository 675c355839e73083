package kvdb

import (
	"context"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"go.uber.org/zap"
)

// pebbleLogger zap을 pebble.Logger로 맞춤
type pebbleLogger struct {
	s *zap.SugaredLogger
}

func (l pebbleLogger) Infof(format string, args ...interface{})  { l.s.Debugf(format, args...) }
func (l pebbleLogger) Errorf(format string, args ...interface{}) { l.s.Errorf(format, args...) }
func (l pebbleLogger) Fatalf(format string, args ...interface{}) { l.s.Fatalf(format, args...) }

// pebbleBackend RocksDB 계열 LSM. fs가 nil이면 디스크 사용
type pebbleBackend struct {
	db *pebble.DB
}

func openPebble(path string, fs vfs.FS, logger *zap.Logger) (*pebbleBackend, error) {
	opts := &pebble.Options{
		FS:     fs,
		Logger: pebbleLogger{s: logger.Named("pebble").Sugar()},
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, err
	}
	return &pebbleBackend{db: db}, nil
}

func (b *pebbleBackend) writeBatch(pairs []pair) error {
	batch := b.db.NewBatch()
	defer batch.Close()
	for _, p := range pairs {
		if err := batch.Set(p.key, p.value, nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (b *pebbleBackend) scan(ctx context.Context, prefix []byte, fn func(key, value []byte) error) error {
	it, err := b.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		return err
	}
	for it.First(); it.Valid(); it.Next() {
		if err := ctx.Err(); err != nil {
			it.Close()
			return err
		}
		if err := fn(it.Key(), it.Value()); err != nil {
			it.Close()
			return err
		}
	}
	return it.Close()
}

func (b *pebbleBackend) close() error {
	return b.db.Close()
}
