package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// SchemaVersion increments on breaking changes to the storage format.
const SchemaVersion = 1

// Stamp identifies the chunking parameters a store was built with.
// Stored chunks only line up with freshly produced ones when the
// parameters match, so a mismatch forces a rebuild.
type Stamp struct {
	Version    int    `json:"version"`
	ParamsHash string `json:"params_hash"`
}

// NewStamp hashes the parameters that shape chunk boundaries.
func NewStamp(chunkSize, chunkOverlap, minChunkLen int) Stamp {
	relevant := struct {
		ChunkSize    int `json:"chunk_size"`
		ChunkOverlap int `json:"chunk_overlap"`
		MinChunkLen  int `json:"min_chunk_len"`
	}{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		MinChunkLen:  minChunkLen,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return Stamp{
		Version:    SchemaVersion,
		ParamsHash: hex.EncodeToString(hash[:8]),
	}
}
