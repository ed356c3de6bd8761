package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/domain"
	"github.com/kailas-cloud/placebook/internal/domain/blog"
	"github.com/kailas-cloud/placebook/internal/domain/place"
	"github.com/kailas-cloud/placebook/internal/domain/user"
	"github.com/kailas-cloud/placebook/internal/repository/memory"
	"github.com/kailas-cloud/placebook/internal/usecase/entity"
	healthuc "github.com/kailas-cloud/placebook/internal/usecase/health"
	searchuc "github.com/kailas-cloud/placebook/internal/usecase/search"
)

// --- Stubs ---

type stubSearcher struct {
	out     searchuc.Outcome
	err     error
	queries []string
	usage   func(u *domain.TaggingUsage) // simulates the tagger chain
}

func (s *stubSearcher) Search(ctx context.Context, query string) (searchuc.Outcome, error) {
	s.queries = append(s.queries, query)
	if s.usage != nil {
		s.usage(domain.UsageFromContext(ctx))
	}
	return s.out, s.err
}

type stubHealth struct {
	report healthuc.Report
}

func (s stubHealth) Check(_ context.Context) healthuc.Report { return s.report }

type fakeUploader struct {
	mu      sync.Mutex
	uploads []string
}

func (f *fakeUploader) Upload(_ context.Context, resource, filename, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename+":"+string(data))
	return fmt.Sprintf("https://cdn.test/%s/%d-%s", resource, len(f.uploads), filename), nil
}

type panickingCRUD struct{}

func (panickingCRUD) Create(context.Context, blog.Input) (blog.View, error) { panic("boom") }
func (panickingCRUD) Get(context.Context, string) (blog.View, error)        { panic("boom") }
func (panickingCRUD) List(context.Context) ([]blog.View, error)             { panic("boom") }
func (panickingCRUD) Update(context.Context, string, blog.Input) (blog.View, error) {
	panic("boom")
}
func (panickingCRUD) Delete(context.Context, string) error { panic("boom") }

// --- Harness ---

func newTestHandler(t *testing.T, opts Options, extra ...Resource) http.Handler {
	t.Helper()
	repo := memory.New()

	places := entity.New[place.Input, place.Document, place.View](repo, place.Kind{})
	blogs := entity.New[blog.Input, blog.Document, blog.View](repo, blog.Kind{})
	users := entity.New[user.Input, user.Document, user.View](repo, user.Kind{})

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	resources := append([]Resource{
		NewResource[place.Input, place.View]("places", places).WithAttachments(place.Kind{}),
		NewResource[blog.Input, blog.View]("blogs", blogs).WithAttachments(blog.Kind{}),
		NewResource[user.Input, user.View]("users", users),
	}, extra...)

	return NewServer(opts, resources...).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type filePart struct {
	field, name, content string
}

func doMultipart(t *testing.T, h http.Handler, method, path, data string, files ...filePart) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if data != "" {
		require.NoError(t, mw.WriteField(dataPart, data))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, http.NoBody)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
