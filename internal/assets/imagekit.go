// Package assets talks to the external image host. The rest of the
// system treats it as "store a file, get back a URL" and never looks at
// the image bytes.
package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// UploadResult is the durable reference returned by the asset host
type UploadResult struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
	Name   string `json:"name"`
}

// ImageKit uploads base64 image payloads to the ImageKit REST API
type ImageKit struct {
	privateKey string
	uploadURL  string
	folder     string
	client     *http.Client
}

func NewImageKit(privateKey, uploadURL, folder string) *ImageKit {
	return &ImageKit{
		privateKey: privateKey,
		uploadURL:  uploadURL,
		folder:     folder,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload sends a base64 payload and returns the hosted file reference.
// A data-URL prefix ("data:image/png;base64,...") is stripped first.
func (ik *ImageKit) Upload(ctx context.Context, payload string) (*UploadResult, error) {
	if idx := strings.Index(payload, ";base64,"); idx != -1 && strings.HasPrefix(payload, "data:image") {
		payload = payload[idx+len(";base64,"):]
	}

	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	fileName := fmt.Sprintf("%d_blog_image", time.Now().UnixMilli())

	fields := map[string]string{
		"file":     payload,
		"fileName": fileName,
		"folder":   ik.folder,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to build upload form: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ik.uploadURL, strings.NewReader(body.String()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(ik.privateKey, "")

	resp, err := ik.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("asset host returned %d: %s", resp.StatusCode, detail)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %v", err)
	}

	return &result, nil
}
