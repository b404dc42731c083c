package document

import (
	"bytes"
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/OpenDataspace/portal/internal/apperrors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store coordinates self-description document registration. It writes the
// raw content through the storage driver and records the metadata row.
type Store struct {
	db     *gorm.DB
	driver StorageDriver
}

func NewStore(db *gorm.DB, driver StorageDriver) *Store {
	return &Store{db: db, driver: driver}
}

// Register buffers the content, verifies the declared length, computes the
// SHA-512 digest and persists a locked self-description document named
// after the offer title.
func (s *Store) Register(ctx context.Context, title string, reader io.Reader, declaredLength int64) (*SelfDescriptionDocument, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read document content: %w", err)
	}

	if int64(len(content)) != declaredLength {
		return nil, apperrors.NewInvalidArgument(
			"document transmitted length %d doesn't match actual length %d",
			declaredLength, len(content))
	}

	hash := sha512.Sum512(content)

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document id: %w", err)
	}

	doc := &SelfDescriptionDocument{
		Name:       fmt.Sprintf("SelfDescription_%s.json", title),
		Hash:       hash[:],
		MediaType:  "application/json",
		Type:       TypeSelfDescription,
		Status:     StatusLocked,
		StorageKey: id.String() + ".json",
	}
	doc.ID = id

	if err := s.driver.Save(ctx, doc.StorageKey, bytes.NewReader(content), doc.MediaType); err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		if delErr := s.driver.Delete(ctx, doc.StorageKey); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned document content", "key", doc.StorageKey, "error", delErr)
		}
		return nil, fmt.Errorf("failed to persist document: %w", err)
	}

	slog.InfoContext(ctx, "Self-description document registered", "id", doc.ID, "name", doc.Name)
	return doc, nil
}

// Fetch streams a registered document's content back together with its
// media type.
func (s *Store) Fetch(ctx context.Context, id uuid.UUID) (*SelfDescriptionDocument, io.ReadCloser, error) {
	var doc SelfDescriptionDocument
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NewNotFound("document %s does not exist", id)
		}
		return nil, nil, fmt.Errorf("failed to load document: %w", err)
	}

	body, _, err := s.driver.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load document content: %w", err)
	}
	return &doc, body, nil
}
