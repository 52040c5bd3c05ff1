// Package store persists chunks in a bbolt file, one nested bucket
// per subject.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"madrasa/internal/domain"
	"madrasa/internal/port"
)

var (
	bucketSubjects = []byte("subjects")
	bucketMeta     = []byte("meta")
	keySchema      = []byte("schema")
)

// Bolt stores chunks under subjects/<subject>/<source>\x00<chunk id>.
// Key order gives ChunksBySubject a stable corpus order: sources
// lexical, chunk ids ascending within a source.
type Bolt struct {
	db *bbolt.DB
}

var _ port.ChunkStore = (*Bolt)(nil)

// Open opens or creates the store and verifies its schema stamp.
// A populated store written under different chunking parameters
// returns ErrSchemaChanged; re-ingesting with a reset clears it.
func Open(path string, stamp Stamp) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open chunk store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketSubjects); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucketSubjects, err)
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", bucketMeta, err)
		}
		return checkStamp(tx, meta, stamp)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

func checkStamp(tx *bbolt.Tx, meta *bbolt.Bucket, stamp Stamp) error {
	stored := meta.Get(keySchema)
	if stored == nil {
		return putStamp(meta, stamp)
	}

	var prev Stamp
	if err := json.Unmarshal(stored, &prev); err != nil {
		return fmt.Errorf("decode schema stamp: %w", err)
	}
	if prev == stamp {
		return nil
	}
	if storeEmpty(tx) {
		return putStamp(meta, stamp)
	}
	return fmt.Errorf("%w: store built with version %d hash %s, current version %d hash %s",
		port.ErrSchemaChanged, prev.Version, prev.ParamsHash, stamp.Version, stamp.ParamsHash)
}

func putStamp(meta *bbolt.Bucket, stamp Stamp) error {
	data, err := json.Marshal(stamp)
	if err != nil {
		return err
	}
	return meta.Put(keySchema, data)
}

func storeEmpty(tx *bbolt.Tx) bool {
	empty := true
	tx.Bucket(bucketSubjects).ForEach(func(k, v []byte) error {
		empty = false
		return nil
	})
	return empty
}

func chunkKey(source string, chunkID int) []byte {
	key := make([]byte, 0, len(source)+5)
	key = append(key, source...)
	key = append(key, 0)
	key = binary.BigEndian.AppendUint32(key, uint32(chunkID))
	return key
}

// PutChunks writes the chunks grouped by subject in one transaction.
func (s *Bolt) PutChunks(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		subjects := tx.Bucket(bucketSubjects)
		for _, chunk := range chunks {
			b, err := subjects.CreateBucketIfNotExists([]byte(chunk.Subject))
			if err != nil {
				return fmt.Errorf("create subject bucket %s: %w", chunk.Subject, err)
			}
			data, err := json.Marshal(chunk)
			if err != nil {
				return fmt.Errorf("encode chunk %s: %w", chunk.Key(), err)
			}
			if err := b.Put(chunkKey(chunk.Source, chunk.ChunkID), data); err != nil {
				return fmt.Errorf("put chunk %s: %w", chunk.Key(), err)
			}
		}
		return nil
	})
}

// ChunksBySubject returns a subject's chunks in key order. A subject
// that was never ingested yields nil.
func (s *Bolt) ChunksBySubject(subject string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSubjects).Bucket([]byte(subject))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var chunk domain.Chunk
			if err := json.Unmarshal(v, &chunk); err != nil {
				return fmt.Errorf("decode chunk %s/%s: %w", subject, k, err)
			}
			chunks = append(chunks, chunk)
			return nil
		})
	})
	return chunks, err
}

// Subjects returns the subjects that hold at least one chunk, sorted.
func (s *Bolt) Subjects() ([]string, error) {
	var subjects []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSubjects).ForEach(func(k, v []byte) error {
			subjects = append(subjects, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(subjects)
	return subjects, nil
}

// Stats counts documents and chunks per subject.
func (s *Bolt) Stats() ([]domain.SubjectStats, error) {
	var stats []domain.SubjectStats
	err := s.db.View(func(tx *bbolt.Tx) error {
		subjects := tx.Bucket(bucketSubjects)
		return subjects.ForEach(func(name, _ []byte) error {
			b := subjects.Bucket(name)
			if b == nil {
				return nil
			}
			st := domain.SubjectStats{Subject: string(name)}
			var lastSource []byte
			if err := b.ForEach(func(k, v []byte) error {
				st.Chunks++
				source := k
				if i := bytes.IndexByte(k, 0); i >= 0 {
					source = k[:i]
				}
				if !bytes.Equal(source, lastSource) {
					st.Documents++
					lastSource = append(lastSource[:0], source...)
				}
				return nil
			}); err != nil {
				return err
			}
			stats = append(stats, st)
			return nil
		})
	})
	return stats, err
}

// DeleteSubject drops one subject's chunks. Unknown subjects are a
// no-op.
func (s *Bolt) DeleteSubject(subject string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		err := tx.Bucket(bucketSubjects).DeleteBucket([]byte(subject))
		if err == bbolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}

// Reset drops every subject but keeps the schema stamp.
func (s *Bolt) Reset() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketSubjects); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketSubjects)
		return err
	})
}

func (s *Bolt) Close() error {
	return s.db.Close()
}
