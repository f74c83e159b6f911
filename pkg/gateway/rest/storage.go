package rest

import (
	"context"
	"io"
	"net/url"
	"strings"
)

// Storage uploads into one public bucket of the storage API.
type Storage struct {
	backend *Backend
	bucket  string
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func (s *Storage) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	resp, err := s.backend.r(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "false").
		SetHeader("cache-control", "max-age=3600").
		SetBody(body).
		Post("/storage/v1/object/" + url.PathEscape(s.bucket) + "/" + escapePath(path))
	if err != nil {
		return err
	}
	if !resp.IsSuccessState() {
		return apiError(resp)
	}
	return nil
}

func (s *Storage) PublicURL(path string) string {
	return s.backend.url + "/storage/v1/object/public/" + url.PathEscape(s.bucket) + "/" + escapePath(path)
}
