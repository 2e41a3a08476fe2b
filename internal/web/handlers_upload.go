package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/dashbored/internal/core"
)

// errNoFile is returned when a multipart upload has no "file" part (FILE004).
var errNoFile = errors.New("no file provided")

// multipartOverhead is the slack allowed on top of the upload size limit for
// multipart boundaries and headers.
const multipartOverhead = 1 << 20

// uploadRequest is the JSON upload body. Contents is a
// "<header>,<base64 payload>" envelope, as produced by a browser data URL.
type uploadRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
	Contents string `json:"contents" validate:"required"`
}

// handleFormUpload accepts the dashboard's upload form and redirects to the
// new dataset.
func (s *Server) handleFormUpload(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.readMultipart(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	id, err := s.service.Upload(r.Context(), filename, data)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	http.Redirect(w, r, "/?dataset="+url.QueryEscape(id), http.StatusSeeOther)
}

// handleAPIUpload accepts multipart form data or a JSON envelope.
func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	var (
		id  string
		err error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		id, err = s.uploadEnvelope(w, r)
	} else {
		var (
			filename string
			data     []byte
		)
		filename, data, err = s.readMultipart(w, r)
		if err == nil {
			id, err = s.service.Upload(r.Context(), filename, data)
		}
	}
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]string{"dataset": id})
}

func (s *Server) uploadEnvelope(w http.ResponseWriter, r *http.Request) (string, error) {
	// Base64 inflates the payload by a third.
	limit := s.service.MaxUploadSize()/3*4 + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req uploadRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		return "", bodyError(err)
	}
	if err := s.validate.Struct(req); err != nil {
		return "", validationError(err)
	}
	return s.service.UploadEnvelope(r.Context(), req.Filename, req.Contents)
}

// readMultipart reads the "file" part of a multipart upload.
func (s *Server) readMultipart(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	maxSize := s.service.MaxUploadSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return "", nil, bodyError(err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, data, nil
}

// bodyError classifies a body read failure as oversize or malformed.
func bodyError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large") {
		return fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
	}
	return fmt.Errorf("%w: %v", errInvalidRequest, err)
}
