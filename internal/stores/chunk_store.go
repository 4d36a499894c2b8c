package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"biosignal-pipeline/internal/models"
	"biosignal-pipeline/internal/shared/filestorages"

	"golang.org/x/sync/errgroup"
)

var (
	ErrChunkAlreadyExists = errors.New("chunk already exists")
	ErrChunkNotFound      = errors.New("chunk not found")
)

// scanReadConcurrency bounds parallel chunk-file reads during scans.
const scanReadConcurrency = 8

// ChunkStore persists time-indexed data chunks partitioned by session.
//
// Insert relies on the file storage's atomic create-if-not-exists: two
// concurrent writers racing on the same (session, sequence index, kind)
// see exactly one success, the loser gets ErrChunkAlreadyExists. This is
// what makes the "count provisional chunks to assign the next index"
// ingestion scheme safe to retry.
//
//go:generate mockgen -source=chunk_store.go -destination=./mocks/chunk_store_mock.go -package=mocks
type ChunkStore interface {
	// Insert atomically appends a chunk. Fails with ErrChunkAlreadyExists
	// when a chunk with the same (session, sequence index, kind) is
	// already persisted.
	Insert(ctx context.Context, chunk *models.DataChunk) error

	// ScanTimeRange returns the session's chunks whose [start,end] interval
	// intersects [start,end], ordered by sequence index. When a consolidated
	// chunk exists it supersedes the provisional chunks it was merged from,
	// so only consolidated chunks are returned. When channels is non-empty,
	// non-requested channel slices are nil'd out; positional alignment
	// between channel index and slice is preserved.
	ScanTimeRange(ctx context.Context, sessionID string, start, end int64, channels []int) ([]*models.DataChunk, error)

	// GetConsolidated returns the session's consolidated chunk, or
	// ErrChunkNotFound when none has been persisted.
	GetConsolidated(ctx context.Context, sessionID string) (*models.DataChunk, error)

	// Replace overwrites the chunk stored at the same (session, sequence
	// index, kind) slot, creating it when absent. The write is atomic.
	Replace(ctx context.Context, chunk *models.DataChunk) error

	// ScanProvisional returns all provisional chunks for the session,
	// ordered by arrival tag.
	ScanProvisional(ctx context.Context, sessionID string) ([]*models.DataChunk, error)

	// CountProvisional returns the number of provisional chunks currently
	// persisted for the session.
	CountProvisional(ctx context.Context, sessionID string) (int, error)

	// DeleteProvisional removes every provisional chunk for the session and
	// returns the number deleted.
	DeleteProvisional(ctx context.Context, sessionID string) (int, error)

	// DeleteAll removes every chunk, provisional or consolidated, for the
	// session. Used by administrative session deletion.
	DeleteAll(ctx context.Context, sessionID string) (int, error)
}

type chunkStore struct {
	fileStorage filestorages.FileStorage
	dir         string
}

func NewChunkStore(fileStorage filestorages.FileStorage) ChunkStore {
	return &chunkStore{fileStorage: fileStorage, dir: "chunks"}
}

func (s *chunkStore) Insert(ctx context.Context, chunk *models.DataChunk) error {
	if err := chunk.Validate(); err != nil {
		return fmt.Errorf("invalid chunk: %w", err)
	}

	jsonData, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("failed to marshal chunk: %w", err)
	}

	key := s.chunkKey(chunk.SessionID, chunk.Kind, chunk.SequenceIndex)
	_, err = s.fileStorage.Put(ctx, key, bytes.NewReader(jsonData), filestorages.PutOptions{AllowOverwrite: false})
	if err != nil {
		if errors.Is(err, filestorages.ErrFileAlreadyExists) {
			return ErrChunkAlreadyExists
		}
		return fmt.Errorf("failed to put chunk: %w", err)
	}
	return nil
}

func (s *chunkStore) ScanTimeRange(ctx context.Context, sessionID string, start, end int64, channels []int) ([]*models.DataChunk, error) {
	chunks, err := s.readAll(ctx, s.sessionPrefix(sessionID))
	if err != nil {
		return nil, err
	}
	chunks = dropSupersededProvisional(chunks)

	matched := make([]*models.DataChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if !chunk.Intersects(start, end) {
			continue
		}
		projectChannels(chunk, channels)
		matched = append(matched, chunk)
	}
	return matched, nil
}

func (s *chunkStore) GetConsolidated(ctx context.Context, sessionID string) (*models.DataChunk, error) {
	key := s.chunkKey(sessionID, models.ChunkConsolidated, 0)
	chunk, err := s.readChunk(ctx, key)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrChunkNotFound
		}
		return nil, err
	}
	return chunk, nil
}

func (s *chunkStore) Replace(ctx context.Context, chunk *models.DataChunk) error {
	if err := chunk.Validate(); err != nil {
		return fmt.Errorf("invalid chunk: %w", err)
	}

	jsonData, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("failed to marshal chunk: %w", err)
	}

	key := s.chunkKey(chunk.SessionID, chunk.Kind, chunk.SequenceIndex)
	_, err = s.fileStorage.Put(ctx, key, bytes.NewReader(jsonData), filestorages.PutOptions{AllowOverwrite: true})
	if err != nil {
		return fmt.Errorf("failed to put chunk: %w", err)
	}
	return nil
}

func (s *chunkStore) ScanProvisional(ctx context.Context, sessionID string) ([]*models.DataChunk, error) {
	return s.readAll(ctx, s.kindPrefix(sessionID, models.ChunkProvisional))
}

func (s *chunkStore) CountProvisional(ctx context.Context, sessionID string) (int, error) {
	keys, err := s.fileStorage.List(ctx, s.kindPrefix(sessionID, models.ChunkProvisional))
	if err != nil {
		return 0, fmt.Errorf("failed to list provisional chunks: %w", err)
	}
	return len(keys), nil
}

func (s *chunkStore) DeleteProvisional(ctx context.Context, sessionID string) (int, error) {
	return s.deletePrefix(ctx, s.kindPrefix(sessionID, models.ChunkProvisional))
}

func (s *chunkStore) DeleteAll(ctx context.Context, sessionID string) (int, error) {
	return s.deletePrefix(ctx, s.sessionPrefix(sessionID))
}

// readAll loads every chunk under prefix. File keys are zero-padded by
// sequence index, so lexicographic listing order is sequence order.
func (s *chunkStore) readAll(ctx context.Context, prefix string) ([]*models.DataChunk, error) {
	keys, err := s.fileStorage.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}

	chunks := make([]*models.DataChunk, len(keys))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(scanReadConcurrency)
	for i, key := range keys {
		i, key := i, key
		group.Go(func() error {
			chunk, err := s.readChunk(groupCtx, key)
			if err != nil {
				return err
			}
			chunks[i] = chunk
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return chunks, nil
}

func (s *chunkStore) readChunk(ctx context.Context, key string) (*models.DataChunk, error) {
	readCloser, err := s.fileStorage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunk %q: %w", key, err)
	}
	defer readCloser.Close()

	data, err := io.ReadAll(readCloser)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunk %q: %w", key, err)
	}

	var chunk models.DataChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chunk %q: %w", key, err)
	}
	return &chunk, nil
}

func (s *chunkStore) deletePrefix(ctx context.Context, prefix string) (int, error) {
	keys, err := s.fileStorage.List(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list chunks: %w", err)
	}

	deleted := 0
	for _, key := range keys {
		if err := s.fileStorage.Delete(ctx, key); err != nil {
			if errors.Is(err, filestorages.ErrFileNotFound) {
				// Another deleter won the race for this key
				continue
			}
			return deleted, fmt.Errorf("failed to delete chunk %q: %w", key, err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *chunkStore) sessionPrefix(sessionID string) string {
	return fmt.Sprintf("%s/%s", s.dir, sessionID)
}

func (s *chunkStore) kindPrefix(sessionID string, kind models.ChunkKind) string {
	return fmt.Sprintf("%s/%s/%s", s.dir, sessionID, kind)
}

func (s *chunkStore) chunkKey(sessionID string, kind models.ChunkKind, sequenceIndex int) string {
	return fmt.Sprintf("%s/%s/%s/%06d.json", s.dir, sessionID, kind, sequenceIndex)
}

// dropSupersededProvisional strips provisional chunks when a consolidated
// chunk is present. Both coexist inside the finalization window between the
// consolidated insert and the provisional sweep (and in the durable state
// after a crash between the two); serving both would hand out every merged
// sample twice.
func dropSupersededProvisional(chunks []*models.DataChunk) []*models.DataChunk {
	hasConsolidated := false
	for _, chunk := range chunks {
		if chunk.Kind == models.ChunkConsolidated {
			hasConsolidated = true
			break
		}
	}
	if !hasConsolidated {
		return chunks
	}

	kept := chunks[:0]
	for _, chunk := range chunks {
		if chunk.Kind == models.ChunkConsolidated {
			kept = append(kept, chunk)
		}
	}
	return kept
}

// projectChannels nils out channel slices not in the requested subset.
// An empty subset means all channels.
func projectChannels(chunk *models.DataChunk, channels []int) {
	if len(channels) == 0 {
		return
	}

	requested := make(map[int]bool, len(channels))
	for _, ch := range channels {
		requested[ch] = true
	}
	for i := range chunk.Channels {
		if !requested[i] {
			chunk.Channels[i] = nil
		}
	}
}
