package snapcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/finsight/coverage-console/internal/domain/coverage"
)

// ValkeyStore keeps the last good raw snapshot in a Valkey-compatible
// database so restarts can present data before the first fetch completes.
type ValkeyStore struct {
	client valkey.Client
	key    string
	ttl    time.Duration
}

// NewValkeyStore constructs the store. An empty prefix defaults to "coverage".
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "coverage"
	}
	return &ValkeyStore{client: client, key: prefix + ":snapshot:last", ttl: ttl}
}

func (s *ValkeyStore) Load(ctx context.Context) (*coverage.RawSnapshot, bool, error) {
	cmd := s.client.B().Get().Key(s.key).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var snap coverage.RawSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, false, err
	}
	return &snap, true, nil
}

func (s *ValkeyStore) Store(ctx context.Context, snap *coverage.RawSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key).Value(string(payload))
	var cmd valkey.Completed
	if s.ttl > 0 {
		ttl := s.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

var _ coverage.SnapshotCache = (*ValkeyStore)(nil)
