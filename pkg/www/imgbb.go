package www

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// DefaultImgBBURL is the ImgBB upload endpoint.
const DefaultImgBBURL = "https://api.imgbb.com/1/upload"

// ImgBB uploads images to ImgBB. Get an API key at https://api.imgbb.com/.
type ImgBB struct {
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// BaseURL defaults to DefaultImgBBURL.
	BaseURL string
	// Key is the API key.
	Key string
}

// ImgBBImage describes an uploaded image.
type ImgBBImage struct {
	URL        string `json:"url"`
	DisplayURL string `json:"display_url"`
	DeleteURL  string `json:"delete_url"`
}

// Upload posts the image at path and returns its hosted location.
func (i *ImgBB) Upload(ctx context.Context, path string) (*ImgBBImage, error) {
	if i.Key == "" {
		return nil, errors.New("an ImgBB API key is required")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return nil, errors.Errorf("building upload form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, errors.Errorf("building upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, errors.Errorf("building upload form: %w", err)
	}
	baseURL := i.BaseURL
	if baseURL == "" {
		baseURL = DefaultImgBBURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"?key="+i.Key, &body)
	if err != nil {
		return nil, errors.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	client := i.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Errorf("uploading %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("upload of %s returned %s", path, resp.Status)
	}
	var parsed struct {
		Data    ImgBBImage `json:"data"`
		Success bool       `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Errorf("decoding upload response: %w", err)
	}
	if !parsed.Success {
		return nil, errors.New("upload was not successful")
	}
	return &parsed.Data, nil
}
