package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"sort"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// dataPart names the multipart field carrying the JSON input.
const dataPart = "data"

// DefaultMaxMultipartMemory is the in-memory budget for parsing uploads.
const DefaultMaxMultipartMemory = 32 << 20

// Uploader stores one attachment and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, resource, filename, contentType string, body io.Reader) (string, error)
}

// decodeInput reads a JSON body or a multipart form, then validates the result.
func decodeInput[In any](s *Server, r *http.Request, resource string, binder AttachmentBinder[In]) (In, error) {
	var in In

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		var err error
		if in, err = decodeMultipart(s, r, resource, binder); err != nil {
			return in, err
		}
	} else if err := decodeJSON(r.Body, &in); err != nil {
		return in, err
	}

	if err := s.validateInput(in); err != nil {
		return in, err
	}
	return in, nil
}

func decodeJSON(body io.Reader, dst any) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("body", "request body is required")
		}
		return domain.NewValidationError("body", "malformed JSON: "+err.Error())
	}
	return nil
}

func decodeMultipart[In any](s *Server, r *http.Request, resource string, binder AttachmentBinder[In]) (In, error) {
	var in In

	if err := r.ParseMultipartForm(s.maxMultipartMemory); err != nil {
		return in, domain.NewValidationError("body", "malformed multipart form: "+err.Error())
	}
	form := r.MultipartForm
	defer func() { _ = form.RemoveAll() }()

	if err := decodeDataPart(form, &in); err != nil {
		return in, err
	}

	fields := fileFields(form)
	if len(fields) == 0 {
		return in, nil
	}
	if s.uploader == nil {
		return in, fmt.Errorf("upload %s files: %w", resource, domain.ErrAttachmentsDisabled)
	}

	var accepted []string
	if binder != nil {
		accepted = binder.AttachmentFields()
	}
	verr := &domain.ValidationError{}
	for _, field := range fields {
		if !slices.Contains(accepted, field) {
			verr.Add(field, "does not accept files")
		}
	}
	if len(verr.Fields) > 0 {
		return in, verr
	}

	// Reject bad input before anything reaches the object store.
	if err := s.validateInput(binder.BindAttachments(in, pendingURLs(form, fields))); err != nil {
		return in, err
	}

	urls := make(map[string][]string, len(fields))
	for _, field := range fields {
		for _, fh := range form.File[field] {
			u, err := s.upload(r.Context(), resource, fh)
			if err != nil {
				return in, err
			}
			urls[field] = append(urls[field], u)
		}
	}

	return binder.BindAttachments(in, urls), nil
}

// decodeDataPart accepts the JSON input as either a plain value or a file part.
func decodeDataPart(form *multipart.Form, dst any) error {
	if vals := form.Value[dataPart]; len(vals) > 0 {
		if err := json.Unmarshal([]byte(vals[0]), dst); err != nil {
			return domain.NewValidationError(dataPart, "malformed JSON: "+err.Error())
		}
		return nil
	}
	if files := form.File[dataPart]; len(files) > 0 {
		f, err := files[0].Open()
		if err != nil {
			return fmt.Errorf("open data part: %w", err)
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(dst); err != nil {
			return domain.NewValidationError(dataPart, "malformed JSON: "+err.Error())
		}
		return nil
	}
	return domain.NewValidationError(dataPart, "part is required")
}

// pendingURLs stands in for the upload results so that input validation
// sees attachment fields as filled.
func pendingURLs(form *multipart.Form, fields []string) map[string][]string {
	out := make(map[string][]string, len(fields))
	for _, field := range fields {
		for _, fh := range form.File[field] {
			out[field] = append(out[field], "https://pending.invalid/"+url.PathEscape(fh.Filename))
		}
	}
	return out
}

// fileFields lists the file fields other than the data part, sorted.
func fileFields(form *multipart.Form) []string {
	fields := make([]string, 0, len(form.File))
	for name := range form.File {
		if name != dataPart {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}

func (s *Server) upload(ctx context.Context, resource string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open %q: %w", fh.Filename, err)
	}
	defer f.Close()

	u, err := s.uploader.Upload(ctx, resource, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", fh.Filename, err)
	}
	return u, nil
}
