// Package kvdb 벤치마크 결과 저장소. bbolt, BadgerDB, PebbleDB 중 하나를 골라 씀
package kvdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rlaau/sortbench/bench"
	"github.com/rlaau/sortbench/config"
	"go.uber.org/zap"
)

var (
	// ErrDisabled 저장소 종류가 none
	ErrDisabled = errors.New("kvdb: result store disabled")
	// ErrRunNotFound 해당 실행 ID의 결과가 없음
	ErrRunNotFound = errors.New("kvdb: run not found")
)

const (
	runPrefix   = "run/"
	runIDFormat = "20060102T150405.000000000"
)

// Store 실행 ID별 결과 셀 저장소
type Store interface {
	Put(ctx context.Context, runID string, cells []bench.Cell) error
	Cells(ctx context.Context, runID string) ([]bench.Cell, error)
	Runs(ctx context.Context) ([]string, error)
	Close() error
}

// NewRunID 시각 기반 실행 ID. 사전순 = 시간순
func NewRunID(t time.Time) string {
	return t.UTC().Format(runIDFormat)
}

// Latest 가장 최근 실행 ID
func Latest(ctx context.Context, s Store) (string, error) {
	runs, err := s.Runs(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", ErrRunNotFound
	}
	return runs[len(runs)-1], nil
}

// Open cfg.Backend 저장소를 엶
func Open(cfg config.Store, logger *zap.Logger) (Store, error) {
	var (
		b   backend
		err error
	)
	switch cfg.Backend {
	case config.BackendNone, "":
		return nil, ErrDisabled
	case config.BackendBbolt:
		b, err = openBbolt(cfg.Path)
	case config.BackendBadger:
		b, err = openBadger(cfg.Path, logger)
	case config.BackendPebble:
		b, err = openPebble(cfg.Path, nil, logger)
	default:
		return nil, errors.Newf("kvdb: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s store at %s", cfg.Backend, cfg.Path)
	}
	logger.Debug("result store opened", zap.String("backend", cfg.Backend), zap.String("path", cfg.Path))
	return &kvStore{b: b}, nil
}

// pair 키/값 한 쌍
type pair struct {
	key, value []byte
}

// backend 각 DB가 구현하는 최소 기능
type backend interface {
	// writeBatch 한 번에 씀 (원자적)
	writeBatch(pairs []pair) error
	// scan prefix로 시작하는 키를 오름차순으로 순회. fn에 넘긴 슬라이스는 호출 중에만 유효
	scan(ctx context.Context, prefix []byte, fn func(key, value []byte) error) error
	close() error
}

// kvStore 키 인코딩과 JSON 직렬화를 담당
type kvStore struct {
	b backend
}

// cellKey run/<runID>/<size BE u64>/<scenario>/<algorithm>
func cellKey(runID string, c bench.Cell) []byte {
	key := make([]byte, 0, len(runPrefix)+len(runID)+1+8+1+len(c.Scenario)+1+len(c.Algorithm))
	key = append(key, runPrefix...)
	key = append(key, runID...)
	key = append(key, '/')
	key = binary.BigEndian.AppendUint64(key, uint64(c.Size))
	key = append(key, '/')
	key = append(key, c.Scenario...)
	key = append(key, '/')
	key = append(key, c.Algorithm...)
	return key
}

func runKeyPrefix(runID string) []byte {
	return []byte(runPrefix + runID + "/")
}

func validRunID(runID string) error {
	if runID == "" || strings.Contains(runID, "/") {
		return errors.Newf("kvdb: invalid run id %q", runID)
	}
	return nil
}

func (s *kvStore) Put(ctx context.Context, runID string, cells []bench.Cell) error {
	if err := validRunID(runID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	pairs := make([]pair, 0, len(cells))
	for _, c := range cells {
		value, err := json.Marshal(c)
		if err != nil {
			return errors.Wrap(err, "encoding cell")
		}
		pairs = append(pairs, pair{key: cellKey(runID, c), value: value})
	}
	return errors.Wrapf(s.b.writeBatch(pairs), "writing run %s", runID)
}

func (s *kvStore) Cells(ctx context.Context, runID string) ([]bench.Cell, error) {
	if err := validRunID(runID); err != nil {
		return nil, err
	}
	var cells []bench.Cell
	err := s.b.scan(ctx, runKeyPrefix(runID), func(_, value []byte) error {
		var c bench.Cell
		if err := json.Unmarshal(value, &c); err != nil {
			return errors.Wrap(err, "decoding cell")
		}
		cells = append(cells, c)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading run %s", runID)
	}
	if len(cells) == 0 {
		return nil, errors.Wrapf(ErrRunNotFound, "%s", runID)
	}
	return cells, nil
}

func (s *kvStore) Runs(ctx context.Context) ([]string, error) {
	var runs []string
	err := s.b.scan(ctx, []byte(runPrefix), func(key, _ []byte) error {
		rest := key[len(runPrefix):]
		i := bytes.IndexByte(rest, '/')
		if i < 0 {
			return nil
		}
		// 키가 정렬돼 있으므로 같은 ID는 연속으로 나옴
		if id := string(rest[:i]); len(runs) == 0 || runs[len(runs)-1] != id {
			runs = append(runs, id)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}
	return runs, nil
}

func (s *kvStore) Close() error {
	return s.b.close()
}

// prefixEnd prefix로 시작하는 모든 키보다 큰 최소 키 (상한용). 없으면 nil
func prefixEnd(prefix []byte) []byte {
	end := slices.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
