package storage

import "time"

// Document is one uploaded document's metadata row. FullText holds the
// extracted text so structured extraction can run without re-parsing the
// original file.
type Document struct {
	DocumentID    string    `json:"document_id"`
	Filename      string    `json:"filename"`
	FilePath      string    `json:"-"`
	FullText      string    `json:"-"`
	ChunkCount    int       `json:"chunk_count"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	CreatedAt     time.Time `json:"created_at"`
	Status        string    `json:"status"`
}
