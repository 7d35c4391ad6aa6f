package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
)

// multipartMemory is how much of a form is buffered before spilling to disk.
const multipartMemory = 8 << 20

// Upload is a single file part pulled out of a multipart request. The
// caller owns File and must close it.
type Upload struct {
	File        multipart.File
	FileName    string
	ContentType string
	Size        int64
}

func (u *Upload) Close() error {
	if u == nil || u.File == nil {
		return nil
	}
	return u.File.Close()
}

// ReadUpload parses the multipart body and returns the named file part.
// maxBytes bounds the whole request body.
func ReadUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*Upload, error) {
	if maxBytes > 0 {
		// room for the other form fields and part headers
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is too large")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "no file provided").
			WithDetails(map[string]any{"field": field})
	}

	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType, err = sniffContentType(file)
		if err != nil {
			file.Close()
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable file")
		}
	}

	return &Upload{
		File:        file,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	}, nil
}

// FormValue returns a trimmed, length-bounded text field from a parsed form.
func FormValue(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.FormValue(key), maxLen)
}

func sniffContentType(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
