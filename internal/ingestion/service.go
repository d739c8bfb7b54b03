package ingestion

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/scoring"
)

const (
	// DefaultMaxSize is the decoded upload limit used when none is configured.
	DefaultMaxSize int64 = 10 << 20

	maxNameAttempts = 1000
	dataURLPrefix   = "data:"
	base64Marker    = ";base64,"
)

// Upload is a client-supplied file. Data is base64, optionally wrapped in a data URL.
type Upload struct {
	Name string `json:"name" mapstructure:"name"`
	Type string `json:"type" mapstructure:"type"`
	Data string `json:"data" mapstructure:"data"`
}

// Service stores uploads and returns the metadata the scorer consumes.
type Service struct {
	store   Store
	maxSize int64
	logger  *zap.Logger
}

// NewService returns a Service over store. maxSize <= 0 selects DefaultMaxSize.
func NewService(store Store, maxSize int64, logger *zap.Logger) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, maxSize: maxSize, logger: logger}
}

// MaxSize returns the decoded upload limit in bytes.
func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// Save decodes and stores an upload.
func (s *Service) Save(ctx context.Context, up Upload) (scoring.FileMeta, error) {
	data, dataType, err := decodePayload(up.Data)
	if err != nil {
		return scoring.FileMeta{}, err
	}

	contentType := strings.TrimSpace(up.Type)
	if contentType == "" {
		contentType = dataType
	}

	return s.SaveBytes(ctx, up.Name, contentType, data)
}

// SaveBytes stores raw bytes under a sanitized, non-colliding name.
func (s *Service) SaveBytes(ctx context.Context, name, contentType string, data []byte) (scoring.FileMeta, error) {
	if len(data) == 0 {
		return scoring.FileMeta{}, ErrEmptyPayload
	}
	if int64(len(data)) > s.maxSize {
		return scoring.FileMeta{}, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), s.maxSize)
	}

	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	stored, err := s.create(ctx, SanitizeName(name), contentType, data)
	if err != nil {
		return scoring.FileMeta{}, err
	}

	size, err := s.store.Size(ctx, stored)
	if err != nil {
		return scoring.FileMeta{}, fmt.Errorf("stat stored file %q: %w", stored, err)
	}
	if size != int64(len(data)) {
		return scoring.FileMeta{}, fmt.Errorf("%w: %s has %d bytes, want %d", ErrSizeMismatch, stored, size, len(data))
	}

	s.logger.Info("upload stored",
		zap.String("file_name", stored),
		zap.String("location", s.store.Location(stored)),
		zap.Int64("size", size),
		zap.String("type", contentType),
	)

	return scoring.FileMeta{Name: stored, Size: size, Type: contentType}, nil
}

func (s *Service) create(ctx context.Context, base, contentType string, data []byte) (string, error) {
	for n := 0; n < maxNameAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := candidateName(base, n)
		err := s.store.Create(ctx, name, contentType, data)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, ErrExists) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoFreeName, base)
}

// decodePayload strips an optional data URL header and decodes base64 in any
// of the standard or URL-safe alphabets, padded or not.
func decodePayload(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)

	var mediaType string
	if strings.HasPrefix(payload, dataURLPrefix) {
		idx := strings.Index(payload, base64Marker)
		if idx < 0 {
			return nil, "", fmt.Errorf("%w: data URL is not base64", ErrDecode)
		}
		mediaType = strings.TrimSpace(strings.SplitN(payload[len(dataURLPrefix):idx], ";", 2)[0])
		payload = payload[idx+len(base64Marker):]
	}

	if payload == "" {
		return nil, "", ErrEmptyPayload
	}

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	for _, enc := range encodings {
		if data, err := enc.DecodeString(payload); err == nil {
			return data, mediaType, nil
		}
	}

	return nil, "", ErrDecode
}
