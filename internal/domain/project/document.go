package project

import (
	"fmt"
	"path"
	"strings"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentType classifies project documents
type DocumentType string

const (
	DocumentTypeContract DocumentType = "CONTRACT"
	DocumentTypeInvoice  DocumentType = "INVOICE"
	DocumentTypeDesign   DocumentType = "DESIGN"
	DocumentTypeSOW      DocumentType = "SOW"
	DocumentTypeReport   DocumentType = "REPORT"
	DocumentTypeImage    DocumentType = "IMAGE"
	DocumentTypeVideo    DocumentType = "VIDEO"
	DocumentTypeOther    DocumentType = "OTHER"
)

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeContract, DocumentTypeInvoice, DocumentTypeDesign, DocumentTypeSOW,
		DocumentTypeReport, DocumentTypeImage, DocumentTypeVideo, DocumentTypeOther:
		return true
	}
	return false
}

// Document is a file attached to a project, either an external link or an
// object in the company's storage bucket
type Document struct {
	shared.TenantAggregateRoot
	ProjectID   uuid.UUID
	Name        string
	Type        DocumentType
	URL         string
	StorageKey  string
	ContentType string
}

// NewLinkedDocument registers an external URL
func NewLinkedDocument(tenantID, projectID uuid.UUID, name string, docType DocumentType, url string) (*Document, error) {
	d, err := newDocument(tenantID, projectID, name, docType)
	if err != nil {
		return nil, err
	}
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, shared.NewDomainError("INVALID_URL", "Invalid URL")
	}
	d.URL = url
	return d, nil
}

// NewStoredDocument registers a document uploaded to object storage
func NewStoredDocument(tenantID, projectID uuid.UUID, name string, docType DocumentType, fileName, contentType string) (*Document, error) {
	d, err := newDocument(tenantID, projectID, name, docType)
	if err != nil {
		return nil, err
	}
	base := path.Base(strings.TrimSpace(fileName))
	if base == "" || base == "." || base == "/" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name is required")
	}
	d.StorageKey = fmt.Sprintf("tenants/%s/projects/%s/documents/%s/%s", tenantID, projectID, d.ID, base)
	d.ContentType = contentType
	return d, nil
}

// IsStored reports whether the document lives in object storage
func (d *Document) IsStored() bool {
	return d.StorageKey != ""
}

func newDocument(tenantID, projectID uuid.UUID, name string, docType DocumentType) (*Document, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters")
	}
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Document type is not valid")
	}
	return &Document{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Name:                name,
		Type:                docType,
	}, nil
}
