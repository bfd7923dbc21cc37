// Package netx holds the plain-HTTP helpers the CLI needs outside gRPC.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// DefaultContentType is sent when the caller does not know the image type.
const DefaultContentType = "application/octet-stream"

// UploadToS3PresignedURL PUTs body to a presigned object-store URL. Any 2xx
// answer is success; otherwise the status and response body are returned in
// the error.
func UploadToS3PresignedURL(ctx context.Context, client *http.Client, url, contentType string, body []byte) error {
	if client == nil {
		client = http.DefaultClient
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}

// DetectContentType sniffs the first bytes of data; unknown data maps to
// DefaultContentType.
func DetectContentType(data []byte) string {
	ct := http.DetectContentType(data)
	if ct == "" {
		return DefaultContentType
	}
	return ct
}
