package storage

import (
	"context"
	"encoding/base64"

	"visualizer/internal/infra"
)

// Uploader stores an uploaded photo somewhere the image models can fetch it.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

// remoteFilename is the only name sent to the provider's file endpoint. Client
// supplied names are not forwarded.
const remoteFilename = "kitchen.jpg"

type fileUploader interface {
	UploadFile(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

// RemoteUploader pushes files to the model provider's file endpoint and falls
// back to an inline data URI when the upload is rejected.
type RemoteUploader struct {
	client fileUploader
	logger *infra.Logger
}

// NewRemoteUploader wires a RemoteUploader around a file-upload client.
func NewRemoteUploader(client fileUploader, logger *infra.Logger) *RemoteUploader {
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &RemoteUploader{client: client, logger: logger}
}

// Upload implements Uploader. It only fails when ctx is done.
func (u *RemoteUploader) Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if u.client != nil {
		url, err := u.client.UploadFile(ctx, remoteFilename, data, contentType)
		if err == nil {
			return url, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		u.logger.Warn().Err(err).Int("bytes", len(data)).Msg("file upload failed, inlining image as data uri")
	}
	return DataURI(data, contentType), nil
}

var _ Uploader = (*RemoteUploader)(nil)

// DataURI encodes data as a base64 data URI.
func DataURI(data []byte, contentType string) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
