package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mixup/internal/models"
	"github.com/desertthunder/mixup/internal/shared"
)

// UploadRepository implements models.Repository[*models.Upload] for upload history.
type UploadRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Upload] = (*UploadRepository)(nil)

// NewUploadRepository creates a new UploadRepository with the given database connection
func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

const uploadColumns = `id, name, recording, audio_path, cloudcast_key, track_count, tags, uploaded_at`

// Create inserts a new upload with a generated ID
func (r *UploadRepository) Create(upload *models.Upload) error {
	if err := upload.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	query := `INSERT INTO uploads (` + uploadColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query,
		id,
		upload.Name(),
		upload.Recording(),
		upload.AudioPath(),
		upload.Key(),
		upload.TrackCount(),
		joinTags(upload.Tags()),
		upload.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}

	upload.SetID(id)
	return nil
}

// Get retrieves an upload by ID
func (r *UploadRepository) Get(id string) (*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE id = ?`

	upload, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("upload not found: %s", id)
	}
	return upload, err
}

// List retrieves uploads newest first.
//
// Supported criteria: "recording" (string) filters by recording name, "limit" (int) caps the result.
func (r *UploadRepository) List(criteria map[string]any) ([]*models.Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE 1 = 1`
	args := []any{}

	if recording, ok := criteria["recording"].(string); ok && recording != "" {
		query += " AND recording = ?"
		args = append(args, recording)
	}

	query += " ORDER BY uploaded_at DESC, rowid DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*models.Upload
	for rows.Next() {
		upload, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return uploads, nil
}

// FindByRecording returns the uploads made from the named recording, newest first
func (r *UploadRepository) FindByRecording(recording string) ([]*models.Upload, error) {
	if recording == "" {
		return nil, fmt.Errorf("%w: recording", shared.ErrMissingArgument)
	}
	return r.List(map[string]any{"recording": recording})
}

// scan reads one row into a [models.Upload]. [sql.ErrNoRows] is returned unwrapped.
func (r *UploadRepository) scan(row scanner) (*models.Upload, error) {
	var (
		id         string
		name       string
		recording  string
		audioPath  string
		key        string
		trackCount int
		tags       string
		uploadedAt time.Time
	)

	err := row.Scan(&id, &name, &recording, &audioPath, &key, &trackCount, &tags, &uploadedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan upload: %w", err)
	}

	upload := models.NewUpload(name, recording, audioPath, splitTags(tags), trackCount)
	upload.SetID(id)
	upload.SetKey(key)
	upload.SetCreatedAt(uploadedAt)
	return upload, nil
}
