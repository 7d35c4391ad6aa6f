// Package storage defines the object store used for car images and tour
// videos, plus the object path conventions both media flows share.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ImagePrefix = "uploads"
	TourPrefix  = "virtual-tours"
)

// ErrObjectExists is returned by Put when Upsert is false and the path is
// already taken.
var ErrObjectExists = errors.New("object already exists")

// Object is a binary about to be written.
type Object struct {
	Body        io.Reader
	Size        int64
	ContentType string
	Upsert      bool
}

// ObjectStore stores binaries and hands out their public URLs.
type ObjectStore interface {
	Put(ctx context.Context, bucket, objectPath string, obj Object) (string, error)
	Delete(ctx context.Context, bucket, objectPath string) error
	PublicURL(bucket, objectPath string) string
	Ping(ctx context.Context) error
}

// ImagePath builds uploads/<random>-<unixms>.<ext>. Paths are never reused.
func ImagePath(ext string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	return fmt.Sprintf("%s/%s-%d.%s", ImagePrefix, random, now.UnixMilli(), normalizeExt(ext))
}

// TourVideoPath is fixed per car so a new upload replaces the old video.
func TourVideoPath(carID, ext string) string {
	return fmt.Sprintf("%s/%s-virtual-tour.%s", TourPrefix, carID, normalizeExt(ext))
}

// PathFromURL rebuilds an object path from the last segment of a public URL
// under prefix. It returns "" when the URL has no usable segment.
func PathFromURL(rawURL, prefix string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	segment := path.Base(strings.TrimRight(p, "/"))
	if segment == "" || segment == "." || segment == "/" {
		return ""
	}
	if decoded, err := url.PathUnescape(segment); err == nil {
		segment = decoded
	}
	return prefix + "/" + segment
}

// Extension picks the file extension from the original name, falling back
// to the mime subtype (image/png -> png).
func Extension(fileName, contentType string) string {
	if ext := strings.TrimPrefix(path.Ext(strings.TrimSpace(fileName)), "."); ext != "" {
		return normalizeExt(ext)
	}
	return normalizeExt(Subtype(contentType))
}

// Subtype returns the part of a mime type after the slash, without params.
func Subtype(contentType string) string {
	ct := strings.TrimSpace(strings.ToLower(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if i := strings.Index(ct, "/"); i >= 0 {
		return ct[i+1:]
	}
	return ""
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	switch ext {
	case "":
		return "bin"
	case "jpeg":
		return "jpg"
	case "quicktime":
		return "mov"
	}
	return ext
}
