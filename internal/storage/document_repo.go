package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks docintel/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"docintel/internal/service"
)

// DocumentStore defines the interface for document metadata operations.
// All reads see active documents only; soft-deleted rows are retained but
// invisible.
type DocumentStore interface {
	// Save inserts a document row, replacing any previous row with the same ID.
	Save(ctx context.Context, doc *Document) error
	// GetByID gets an active document by its identifier.
	// Returns nil and an ErrNotFound-wrapping error if not found.
	GetByID(ctx context.Context, documentID string) (*Document, error)
	// Exists reports whether an active document with the identifier exists.
	Exists(ctx context.Context, documentID string) (bool, error)
	// List returns all active documents, newest first.
	List(ctx context.Context) ([]Document, error)
	// SoftDelete marks a document deleted without removing the row.
	SoftDelete(ctx context.Context, documentID string) error
	// Count returns the number of active documents.
	Count(ctx context.Context) (int, error)
}

// DocumentRepo provides methods for document metadata operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Save inserts a document row, replacing any previous row with the same ID.
func (r *DocumentRepo) Save(ctx context.Context, doc *Document) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (document_id, filename, file_path, full_text, chunk_count, file_size_bytes, status)
		 VALUES (?, ?, ?, ?, ?, ?, 'active')
		 ON CONFLICT (document_id) DO UPDATE SET
		 filename = excluded.filename, file_path = excluded.file_path,
		 full_text = excluded.full_text, chunk_count = excluded.chunk_count,
		 file_size_bytes = excluded.file_size_bytes, status = 'active'`,
		doc.DocumentID, doc.Filename, doc.FilePath, doc.FullText, doc.ChunkCount, doc.FileSizeBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// GetByID gets an active document by its identifier.
func (r *DocumentRepo) GetByID(ctx context.Context, documentID string) (*Document, error) {
	var doc Document
	var createdAtStr string

	err := r.db.QueryRowContext(ctx,
		`SELECT document_id, filename, file_path, full_text, chunk_count, file_size_bytes, created_at, status
		 FROM documents WHERE document_id = ? AND status = 'active'`,
		documentID,
	).Scan(&doc.DocumentID, &doc.Filename, &doc.FilePath, &doc.FullText, &doc.ChunkCount, &doc.FileSizeBytes, &createdAtStr, &doc.Status)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %s: %w", documentID, service.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	doc.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}

	return &doc, nil
}

// Exists reports whether an active document with the identifier exists.
func (r *DocumentRepo) Exists(ctx context.Context, documentID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM documents WHERE document_id = ? AND status = 'active'",
		documentID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check document existence: %w", err)
	}
	return true, nil
}

// List returns all active documents, newest first.
func (r *DocumentRepo) List(ctx context.Context) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT document_id, filename, file_path, full_text, chunk_count, file_size_bytes, created_at, status
		 FROM documents WHERE status = 'active' ORDER BY created_at DESC, document_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var createdAtStr string
		if err := rows.Scan(&doc.DocumentID, &doc.Filename, &doc.FilePath, &doc.FullText, &doc.ChunkCount, &doc.FileSizeBytes, &createdAtStr, &doc.Status); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if doc.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// SoftDelete marks a document deleted without removing the row.
func (r *DocumentRepo) SoftDelete(ctx context.Context, documentID string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = 'deleted' WHERE document_id = ? AND status = 'active'",
		documentID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %s: %w", documentID, service.ErrNotFound)
	}
	return nil
}

// Count returns the number of active documents.
func (r *DocumentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE status = 'active'",
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// parseTimestamp handles the DATETIME formats SQLite emits.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
