package project

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorageService is the bucket that holds uploaded documents
type ObjectStorageService interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiry
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL returns a presigned GET URL and its expiry
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// DocumentServiceConfig holds presign lifetimes
type DocumentServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultDocumentServiceConfig returns the default configuration
func DefaultDocumentServiceConfig() DocumentServiceConfig {
	return DocumentServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
	}
}

// DocumentService manages project documents, either external links or
// objects in the storage bucket
type DocumentService struct {
	projects  project.ProjectRepository
	documents project.DocumentRepository
	storage   ObjectStorageService
	config    DocumentServiceConfig
	logger    *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	projects project.ProjectRepository,
	documents project.DocumentRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		projects:  projects,
		documents: documents,
		storage:   storage,
		config:    DefaultDocumentServiceConfig(),
		logger:    common.Nop(logger),
	}
}

// SetConfig sets the service configuration
func (s *DocumentService) SetConfig(config DocumentServiceConfig) {
	s.config = config
}

// Link registers an externally hosted document
func (s *DocumentService) Link(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req LinkDocumentRequest) (*DocumentResponse, error) {
	if err := s.checkProject(ctx, actor, projectID); err != nil {
		return nil, err
	}
	doc, err := project.NewLinkedDocument(actor.CompanyID, projectID, req.Name, project.DocumentType(req.Type), req.URL)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, common.Fail(s.logger, "save document", err)
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// RequestUpload registers a stored document and returns a presigned URL the
// caller uploads the file to
func (s *DocumentService) RequestUpload(ctx context.Context, actor identity.Actor, projectID uuid.UUID, req UploadDocumentRequest) (*UploadDocumentResponse, error) {
	if err := s.checkProject(ctx, actor, projectID); err != nil {
		return nil, err
	}
	doc, err := project.NewStoredDocument(actor.CompanyID, projectID, req.Name, project.DocumentType(req.Type), req.FileName, req.ContentType)
	if err != nil {
		return nil, err
	}
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, doc.StorageKey, doc.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("failed to presign document upload", zap.String("key", doc.StorageKey), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}
	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, common.Fail(s.logger, "save document", err)
	}
	return &UploadDocumentResponse{
		Document:  ToDocumentResponse(doc),
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// List returns the project's documents. Stored documents get a fresh
// download URL.
func (s *DocumentService) List(ctx context.Context, actor identity.Actor, projectID uuid.UUID) ([]DocumentResponse, error) {
	if err := s.checkProject(ctx, actor, projectID); err != nil {
		return nil, err
	}
	rows, err := s.documents.FindByProject(ctx, actor.CompanyID, projectID)
	if err != nil {
		return nil, common.Fail(s.logger, "list documents", err)
	}
	out := make([]DocumentResponse, len(rows))
	for i := range rows {
		out[i] = s.withURL(ctx, &rows[i])
	}
	return out, nil
}

// Download returns the document with a URL the caller can fetch it from
func (s *DocumentService) Download(ctx context.Context, actor identity.Actor, id uuid.UUID) (*DocumentResponse, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	doc, err := s.documents.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, common.Fail(s.logger, "load document", notFoundAs(err, "Document"))
	}
	if !doc.IsStored() {
		resp := ToDocumentResponse(doc)
		return &resp, nil
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, doc.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Error("failed to presign document download", zap.String("key", doc.StorageKey), zap.Error(err))
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}
	resp := ToDocumentResponse(doc)
	resp.URL = url
	return &resp, nil
}

// Delete removes the document and, for stored documents, its object
func (s *DocumentService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.RequireStaff(); err != nil {
		return err
	}
	doc, err := s.documents.FindByIDForTenant(ctx, actor.CompanyID, id)
	if err != nil {
		return common.Fail(s.logger, "load document", notFoundAs(err, "Document"))
	}
	if err := s.documents.DeleteForTenant(ctx, actor.CompanyID, id); err != nil {
		return common.Fail(s.logger, "delete document", err)
	}
	if doc.IsStored() {
		if err := s.storage.DeleteObject(ctx, doc.StorageKey); err != nil {
			s.logger.Warn("failed to delete document object", zap.String("key", doc.StorageKey), zap.Error(err))
		}
	}
	return nil
}

func (s *DocumentService) checkProject(ctx context.Context, actor identity.Actor, projectID uuid.UUID) error {
	if err := actor.RequireStaff(); err != nil {
		return err
	}
	if _, err := s.projects.FindByIDForTenant(ctx, actor.CompanyID, projectID); err != nil {
		return common.Fail(s.logger, "load project", notFoundAs(err, "Project"))
	}
	return nil
}

func (s *DocumentService) withURL(ctx context.Context, doc *project.Document) DocumentResponse {
	resp := ToDocumentResponse(doc)
	if doc.IsStored() {
		if url, _, err := s.storage.GenerateDownloadURL(ctx, doc.StorageKey, s.config.DownloadURLExpiry); err == nil {
			resp.URL = url
		}
	}
	return resp
}
