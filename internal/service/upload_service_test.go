package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/atlasworks/atlas-api/internal/models"
)

type storageStub struct {
	uploaded bytes.Buffer
	lastName string
}

func (s *storageStub) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	s.uploaded.Reset()
	s.lastName = name
	if _, err := s.uploaded.ReadFrom(reader); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + name, nil
}

type uploadRepoStub struct {
	records []models.UploadRecord
}

func (u *uploadRepoStub) Create(_ context.Context, record *models.UploadRecord) error {
	record.ID = uint(len(u.records) + 1)
	u.records = append(u.records, *record)
	return nil
}

func (u *uploadRepoStub) ListByUser(_ context.Context, userID uint, limit int) ([]models.UploadRecord, error) {
	out := make([]models.UploadRecord, 0, len(u.records))
	for _, record := range u.records {
		if record.UserID != nil && *record.UserID == userID {
			out = append(out, record)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestUploadServiceRejectsOversizedFile(t *testing.T) {
	svc := NewUploadService(&storageStub{}, &uploadRepoStub{}, 1, zerolog.Nop())

	file := buildFileHeader(t, "big.png", bytes.Repeat([]byte{0x1}, 2*1024*1024))
	_, err := svc.Upload(context.Background(), file, nil)
	require.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestUploadServiceRejectsDisallowedType(t *testing.T) {
	svc := NewUploadService(&storageStub{}, &uploadRepoStub{}, 5, zerolog.Nop())

	file := buildFileHeader(t, "notes.txt", []byte("plain text payload"))
	_, err := svc.Upload(context.Background(), file, nil)
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)
}

func TestUploadServiceStoresSanitizedFile(t *testing.T) {
	storage := &storageStub{}
	repo := &uploadRepoStub{}
	svc := NewUploadService(storage, repo, 5, zerolog.Nop())

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	userID := uint(7)

	resp, err := svc.Upload(context.Background(), buildFileHeader(t, "My Cover Photo.PNG", pngHeader), &userID)
	require.NoError(t, err)
	require.Equal(t, "my-cover-photo.png", resp.FileName)
	require.Equal(t, "image/png", resp.MimeType)
	require.Equal(t, int64(len(pngHeader)), resp.SizeBytes)
	require.Contains(t, resp.URL, "my-cover-photo.png")

	require.Len(t, repo.records, 1)
	require.NotNil(t, repo.records[0].UserID)
	require.Equal(t, userID, *repo.records[0].UserID)

	recent, err := svc.Recent(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="` + filename + `"`},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}
