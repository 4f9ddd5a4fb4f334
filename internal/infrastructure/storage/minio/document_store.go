package minio

import (
	"bytes"
	"context"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

var ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid storage request")

// DocumentStore uploads rendered contract documents and hands back their
// public URL.
type DocumentStore struct {
	client *MinIOClient
	logger logging.Logger
}

func NewDocumentStore(client *MinIOClient, logger logging.Logger) *DocumentStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DocumentStore{client: client, logger: logger}
}

// Put uploads data under objectPath, replacing any existing object.
func (s *DocumentStore) Put(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	if objectPath == "" || len(data) == 0 {
		return "", ErrInvalidRequest
	}
	start := time.Now()
	info, err := s.client.client.PutObject(ctx, s.client.Bucket(), objectPath,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType:  contentType,
			CacheControl: "private, max-age=0",
		})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "upload failed")
	}
	s.logger.Debug("Document uploaded",
		logging.String("object", objectPath),
		logging.Int64("size", info.Size),
		logging.Duration("elapsed", time.Since(start)))
	return s.client.ObjectURL(objectPath), nil
}

//Personal.AI order the ending
