package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialapp/internal/domain"
	"socialapp/internal/pkg/storage"
)

const DefaultMaxFileSize = 10 << 20

// sniffLen is how many leading bytes are inspected to detect the type.
const sniffLen = 3072

var allowedTypes = []string{"image/png", "image/jpeg"}

// AttachStatus reports what AssociateFileToPost did.
type AttachStatus int

const (
	AttachStatusAttached AttachStatus = iota
	AttachStatusAlreadyAttached
	AttachStatusNotFound
)

func (s AttachStatus) String() string {
	switch s {
	case AttachStatusAttached:
		return "attached"
	case AttachStatusAlreadyAttached:
		return "already-attached"
	case AttachStatusNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// SavedFile identifies a freshly stored upload.
type SavedFile struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	URL      string `json:"url"`
}

type Service struct {
	files   FileRepository
	store   storage.ObjectStore
	log     *zap.Logger
	maxSize int64
	now     func() time.Time
}

func NewService(files FileRepository, store storage.ObjectStore, log *zap.Logger, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Service{
		files:   files,
		store:   store,
		log:     log,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// SetClock replaces the time source used for upload dates.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// DetectImageType sniffs the content of head and returns its MIME type and
// extension when it is an allowed image.
func DetectImageType(head []byte) (mimeType, ext string, err error) {
	if len(head) == 0 {
		return "", "", ErrEmptyFile
	}
	mt := mimetype.Detect(head)
	for _, allowed := range allowedTypes {
		if mt.Is(allowed) {
			return allowed, mt.Extension(), nil
		}
	}
	return "", "", ErrUnsupportedType
}

// SaveFile stores r under a fresh key and records it unattached and owned by
// uploaderID. The type is taken from the content, never from a client-supplied
// name.
func (s *Service) SaveFile(ctx context.Context, uploaderID int64, r io.Reader) (*SavedFile, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	mimeType, ext, err := DetectImageType(head)
	if err != nil {
		return nil, err
	}

	key := uuid.NewString() + ext
	body := &limitedReader{r: io.MultiReader(bytes.NewReader(head), r), remaining: s.maxSize}

	if err := s.store.Save(ctx, key, body, mimeType); err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	f := &domain.File{
		Filename:   key,
		UploadDate: s.now().UTC(),
		FileType:   mimeType,
		UploaderID: uploaderID,
	}
	if err := s.files.Create(ctx, f); err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.log.Error("failed to roll back stored object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	s.log.Debug("file uploaded", zap.Int64("file_id", f.ID), zap.String("key", key), zap.String("type", mimeType))
	return &SavedFile{ID: f.ID, Filename: f.Filename, FileType: f.FileType, URL: s.store.URL(key)}, nil
}

// AssociateFileToPost attaches an existing unattached file uploaded by the
// post's author. A missing or already attached file is reported through the
// status, not as an error. Someone else's unattached upload reads as missing.
func (s *Service) AssociateFileToPost(ctx context.Context, fileID, postID int64) (AttachStatus, error) {
	n, err := s.files.AttachToPost(ctx, fileID, postID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return AttachStatusAttached, nil
	}

	f, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttachStatusNotFound, nil
		}
		return 0, err
	}
	if !f.Attached() {
		return AttachStatusNotFound, nil
	}
	return AttachStatusAlreadyAttached, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.File, error) {
	f, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	f.URL = s.store.URL(f.Filename)
	return f, nil
}

// ForPosts loads the attached files of posts keyed by post id.
func (s *Service) ForPosts(ctx context.Context, postIDs []int64) (map[int64]*domain.File, error) {
	files, err := s.files.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		f.URL = s.store.URL(f.Filename)
	}
	return files, nil
}

// DeleteForPost removes the stored object of the post's file, if any. The
// row itself goes away with the post through the cascading foreign key.
func (s *Service) DeleteForPost(ctx context.Context, postID int64) error {
	f, err := s.files.GetByPostID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := s.store.Delete(ctx, f.Filename); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", f.Filename, err)
	}
	return nil
}

// limitedReader fails with ErrFileTooLarge once more than remaining bytes
// have been read.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}
