// Package netx performs the plain-HTTP leg of media uploads: PUTting bytes
// to presigned object-storage URLs handed out by the gateway.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultClient is used by PutPresigned; tests may replace it.
var DefaultClient = &http.Client{Timeout: 2 * time.Minute}

// PutPresigned uploads body to a presigned URL with the given content type.
// Any non-2xx status is reported together with (a prefix of) the response body.
func PutPresigned(ctx context.Context, url string, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	resp, err := DefaultClient.Do(req)
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
