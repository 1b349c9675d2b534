package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateImageFile(file *multipart.FileHeader) error
	ReadFile(file multipart.File) ([]byte, error)
}

var (
	ErrNoFile       = errors.New("no file uploaded")
	ErrFileTooLarge = errors.New("file size exceeds limit")
	ErrNotAnImage   = errors.New("uploaded file is not an image")
)

type utils struct {
	maxFileSize int64
}

func New() IUtils {
	return &utils{
		maxFileSize: 10 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// ValidateImageFile accepts a missing Content-Type; the decoder is the final judge.
func (u *utils) ValidateImageFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFile
	}

	if file.Size > u.maxFileSize {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && contentType != "application/octet-stream" && !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}

	return nil
}

func (u *utils) ReadFile(file multipart.File) ([]byte, error) {
	return io.ReadAll(io.LimitReader(file, u.maxFileSize+1))
}

// DecodeBase64Image accepts raw base64 or a data URI; everything after the last
// comma is the payload.
func DecodeBase64Image(encoded string) ([]byte, error) {
	payload := encoded
	if i := strings.LastIndex(encoded, ","); i >= 0 {
		payload = encoded[i+1:]
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, errors.New("empty base64 payload")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some clients strip the padding
		if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rawErr == nil {
			return raw, nil
		}
		return nil, err
	}
	return data, nil
}
