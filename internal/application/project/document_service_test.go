package project

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func TestDocumentService_RequestUpload(t *testing.T) {
	f := newFixture(t)
	storage := new(MockObjectStorage)
	svc := NewDocumentService(f.store.ProjectRepo(), f.store.DocumentRepo(), storage, nil)
	expires := time.Now().Add(15 * time.Minute)

	storage.On("GenerateUploadURL", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "tenants/"+f.tenantID.String()+"/projects/"+f.project.ID.String()+"/documents/") &&
			strings.HasSuffix(key, "/contract.pdf")
	}), "application/pdf", 15*time.Minute).Return("https://bucket/upload", expires, nil)

	resp, err := svc.RequestUpload(context.Background(), f.admin, f.project.ID, UploadDocumentRequest{
		Name:        "Signed contract",
		Type:        "CONTRACT",
		FileName:    "../../contract.pdf",
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://bucket/upload", resp.UploadURL)
	assert.True(t, resp.Document.Stored)
	assert.Len(t, f.store.documents, 1)
	storage.AssertExpectations(t)
}

func TestDocumentService_PresignFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	storage := new(MockObjectStorage)
	svc := NewDocumentService(f.store.ProjectRepo(), f.store.DocumentRepo(), storage, nil)
	storage.On("GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", time.Time{}, errors.New("bucket unreachable"))

	_, err := svc.RequestUpload(context.Background(), f.admin, f.project.ID, UploadDocumentRequest{
		Name: "Design", Type: "DESIGN", FileName: "mock.png", ContentType: "image/png",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPLOAD_URL_FAILED", domainErr.Code)
	assert.Empty(t, f.store.documents)
}

func TestDocumentService_LinkAndDelete(t *testing.T) {
	f := newFixture(t)
	storage := new(MockObjectStorage)
	svc := NewDocumentService(f.store.ProjectRepo(), f.store.DocumentRepo(), storage, nil)

	_, err := svc.Link(context.Background(), f.admin, f.project.ID, LinkDocumentRequest{Name: "Brief", Type: "SOW", URL: "ftp://files"})
	require.Error(t, err)

	doc, err := svc.Link(context.Background(), f.admin, f.project.ID, LinkDocumentRequest{Name: "Brief", Type: "SOW", URL: "https://docs.example.com/brief"})
	require.NoError(t, err)
	assert.False(t, doc.Stored)

	got, err := svc.Download(context.Background(), f.admin, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com/brief", got.URL)

	outsider := f.admin
	outsider.CompanyID = uuid.New()
	assert.ErrorIs(t, svc.Delete(context.Background(), outsider, doc.ID), shared.ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), f.admin, doc.ID))
	assert.Empty(t, f.store.documents)
	storage.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}
