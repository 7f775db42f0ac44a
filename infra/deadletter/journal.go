package deadletter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"github.com/Rohitlovewanshi/Wallet-Management/internal/core/domain/ports"
)

const keyPrefix = "deadletter/"

// Journal is a durable, append-only record of messages that could not be
// processed. Keys sort by topic and then by failure time:
//
//	deadletter/<topic>/<unix nanos, zero padded>/<id>
type Journal struct {
	db *pebble.DB
}

func Open(dir string) (*Journal, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open dead-letter journal %s: %w", dir, err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) Record(_ context.Context, letter ports.DeadLetter) error {
	if letter.ID == "" {
		letter.ID = uuid.NewString()
	}

	value, err := json.Marshal(letter)
	if err != nil {
		return fmt.Errorf("encode dead letter: %w", err)
	}

	key := fmt.Sprintf("%s%s/%020d/%s", keyPrefix, letter.Topic, letter.FailedAt.UnixNano(), letter.ID)
	return j.db.Set([]byte(key), value, pebble.Sync)
}

// List returns up to limit dead letters, newest first within a topic. An
// empty topic lists every topic.
func (j *Journal) List(_ context.Context, topic string, limit int) ([]ports.DeadLetter, error) {
	prefix := keyPrefix
	if topic != "" {
		prefix += topic + "/"
	}

	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: append([]byte(prefix), 0xff),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []ports.DeadLetter
	for iter.Last(); iter.Valid(); iter.Prev() {
		if limit > 0 && len(out) >= limit {
			break
		}
		var letter ports.DeadLetter
		if err := json.Unmarshal(iter.Value(), &letter); err != nil {
			return nil, fmt.Errorf("decode dead letter %s: %w", iter.Key(), err)
		}
		out = append(out, letter)
	}
	return out, iter.Error()
}
