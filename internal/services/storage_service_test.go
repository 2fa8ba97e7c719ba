package services

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 0}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func upload(data []byte, filename string) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: filename,
		Size:     int64(len(data)),
		Header:   textproto.MIMEHeader{},
	}
	return memFile{bytes.NewReader(data)}, header
}

func TestLocalUploadWritesFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewLocalStorage(dir, "/uploads/")

	file, header := upload(pngHeader, "Sol Ring.PNG")
	result, err := svc.UploadFile(file, header, CardImageOptions)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "cards/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "/uploads/"+result.Key, result.URL)
	assert.Equal(t, "image/png", result.MimeType)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(result.Key)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	require.NoError(t, svc.DeleteFile(result.Key))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(result.Key)))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadRejectsInvalidFiles(t *testing.T) {
	svc := NewLocalStorage(t.TempDir(), "/uploads")

	file, header := upload([]byte("hello"), "notes.txt")
	_, err := svc.UploadFile(file, header, CardImageOptions)
	assert.ErrorIs(t, err, ErrFileTypeInvalid)

	file, header = upload([]byte("not really a png"), "fake.png")
	_, err = svc.UploadFile(file, header, CardImageOptions)
	assert.ErrorIs(t, err, ErrFileTypeInvalid)

	file, header = upload(pngHeader, "big.png")
	header.Size = CardImageOptions.MaxSize + 1
	_, err = svc.UploadFile(file, header, CardImageOptions)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

type fakeS3 struct {
	s3iface.S3API
	puts []*s3.PutObjectInput
}

func (f *fakeS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func TestS3UploadIsPublic(t *testing.T) {
	client := &fakeS3{}
	svc := NewS3Storage(client, "card-images", "https://cdn.example.com")

	file, header := upload(pngHeader, "bolt.png")
	header.Header.Set("Content-Type", "image/png")
	result, err := svc.UploadFile(file, header, CardImageOptions)
	require.NoError(t, err)

	require.Len(t, client.puts, 1)
	put := client.puts[0]
	assert.Equal(t, "card-images", aws.StringValue(put.Bucket))
	assert.Equal(t, "public-read", aws.StringValue(put.ACL))
	assert.Equal(t, result.Key, aws.StringValue(put.Key))
	assert.Equal(t, "https://cdn.example.com/"+result.Key, result.URL)
}
