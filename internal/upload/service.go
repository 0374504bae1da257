package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/auth"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const pdfMIME = "application/pdf"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type Result struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

type Service struct {
	storage Storage
	maxSize int64
	logger  *slog.Logger
}

func NewService(storage Storage, maxSize int64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{storage: storage, maxSize: maxSize, logger: logger}
}

func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// UploadResume stores a PDF resume for the caller. The content is sniffed; the client's
// declared type and file name are ignored.
func (s *Service) UploadResume(ctx context.Context, actor coreuser.Actor, r io.Reader) (*Result, error) {
	if err := auth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, internal.NewValidationError("failed to read file", internal.ErrCodeInvalidFile).WithCause(err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, internal.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, internal.ErrFileRequired
	}
	if mt := mimetype.Detect(data); !mt.Is(pdfMIME) {
		s.logger.Debug("UploadResume: rejected content type", "actor_id", actor.ID, "detected", mt.String())
		return nil, internal.ErrInvalidFileType
	}

	name := fmt.Sprintf("resume_%s_%s.pdf", unsafeNameChars.ReplaceAllString(actor.Username, "_"), uuid.NewString())
	url, err := s.storage.Save(ctx, name, pdfMIME, bytes.NewReader(data))
	if err != nil {
		s.logger.Error("UploadResume: storage failed", "actor_id", actor.ID, "file_name", name, "error", err)
		return nil, internal.NewExternalError("Failed to upload file", internal.ErrCodeUploadFailed, err)
	}

	s.logger.Info("resume uploaded", "actor_id", actor.ID, "file_name", name, "size", len(data))
	return &Result{URL: url, FileName: name}, nil
}
