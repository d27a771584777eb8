package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saatgomi1/secondsense/app/controller"
	"github.com/saatgomi1/secondsense/app/router"
	"github.com/saatgomi1/secondsense/models"
	"github.com/saatgomi1/secondsense/repository"
	"github.com/saatgomi1/secondsense/service"
)

const partialText = "Garment Type: Jacket\nBrand: Nike\nSize: M\nColor: Red\nFabric: 100% wool"

type fakeDescriber struct {
	text string
	err  error
}

func (f *fakeDescriber) Describe(ctx context.Context, jpegImage []byte) (string, error) {
	return f.text, f.err
}

type fakeDrive struct {
	uploads []string
}

func (f *fakeDrive) UploadFile(ctx context.Context, folderID, name, mimeType string, data []byte) (string, error) {
	f.uploads = append(f.uploads, name)
	return "drive-" + name, nil
}

type testServer struct {
	handler http.Handler
	drive   *fakeDrive
}

func newTestServer(t *testing.T, describer service.DescriptionServiceInterface) *testServer {
	t.Helper()
	formService := service.NewFormService(service.NewImageCompositor(90), describer, repository.NewMemorySessionRepository())
	drive := &fakeDrive{}
	exportService := service.NewExportService(drive, "folder-1")
	sheetService := service.NewSheetService("http://localhost:8080", "")

	mux := http.NewServeMux()
	router.SetupRoutes(mux, &router.Controllers{
		Session: controller.NewSessionController(formService, 8<<20),
		Export:  controller.NewExportController(formService, exportService, sheetService),
	})
	return &testServer{handler: mux, drive: drive}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type upload struct {
	name string
	data []byte
}

func uploadRequest(t *testing.T, field string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/sessions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, v interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) models.SessionView {
	t.Helper()
	var view models.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func fieldValue(view models.SessionView, name string) string {
	for _, f := range view.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func createSession(t *testing.T, srv *testServer) models.SessionView {
	t.Helper()
	rec := srv.do(t, uploadRequest(t, controller.UploadField,
		upload{name: "front.png", data: pngBytes(t, 4, 4, color.White)},
		upload{name: "back.PNG", data: pngBytes(t, 2, 3, color.Black)},
	))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeView(t, rec)
}

func TestCreateSession(t *testing.T) {
	srv := newTestServer(t, &fakeDescriber{text: partialText})

	view := createSession(t, srv)

	assert.NotEmpty(t, view.ID)
	assert.False(t, view.Confirmed)
	assert.Equal(t, "/sessions/"+view.ID+"/image", view.ImageURL)
	assert.Equal(t, "Jacket", fieldValue(view, models.FieldGarmentType))
	assert.Equal(t, models.NotAvailable, fieldValue(view, models.FieldBrand))

	require.Len(t, view.Prompts, 3)
	assert.Equal(t, "Input Brand", view.Prompts[0].Label)
	assert.Equal(t, "Input Additional Characteristics", view.Prompts[1].Label)
	assert.Equal(t, models.FieldGarmentQuality, view.Prompts[2].Field)
}

func TestCreateSessionRejectsBadUploads(t *testing.T) {
	tests := []struct {
		name    string
		request func(t *testing.T) *http.Request
		status  int
	}{
		{
			name: "wrong field name",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "photos", upload{name: "a.png", data: pngBytes(t, 1, 1, color.White)})
			},
			status: http.StatusBadRequest,
		},
		{
			name: "unsupported extension",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, controller.UploadField, upload{name: "a.gif", data: []byte("GIF89a")})
			},
			status: http.StatusBadRequest,
		},
		{
			name: "undecodable image",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, controller.UploadField, upload{name: "a.jpg", data: []byte("not an image")})
			},
			status: http.StatusBadRequest,
		},
		{
			name: "not multipart",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader("{}"))
			},
			status: http.StatusBadRequest,
		},
		{
			name: "wrong method",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/sessions", nil)
			},
			status: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeDescriber{text: partialText})
			rec := srv.do(t, tt.request(t))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateSessionDescriptionFailure(t *testing.T) {
	srv := newTestServer(t, &fakeDescriber{err: errors.New("quota exceeded")})

	rec := srv.do(t, uploadRequest(t, controller.UploadField, upload{name: "a.png", data: pngBytes(t, 2, 2, color.White)}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetAndDeleteSession(t *testing.T) {
	srv := newTestServer(t, &fakeDescriber{text: partialText})
	view := createSession(t, srv)

	rec := srv.do(t, httptest.NewRequest(http.MethodGet, "/sessions/"+view.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, view.ID, decodeView(t, rec).ID)

	rec = srv.do(t, httptest.NewRequest(http.MethodDelete, "/sessions/"+view.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/sessions/"+view.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSessionUnknownID(t *testing.T) {
	srv := newTestServer(t, &fakeDescriber{text: partialText})

	rec := srv.do(t, httptest.NewRequest(http.MethodGet, "/sessions/not-a-uuid", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/sessions/0b5e6f9c-1d44-4a53-9a3c-3f1f0b1b7a10", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStageAndConfirm(t *testing.T) {
	srv := newTestServer(t, &fakeDescriber{text: partialText})
	view := createSession(t, srv)

	rec := srv.do(t, jsonRequest(t, http.MethodPut, "/sessions/"+view.ID+"/inputs", map[string]string{"brand": "Zara"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	staged := decodeView(t, rec)
	assert.Equal(t, models.NotAvailable, fieldValue(staged, models.FieldBrand))
	assert.Equal(t, "Zara", staged.Pending["brand"])

	rec = srv.do(t, jsonRequest(t, http.MethodPost, "/sessions/"+view.ID+"/confirm", map[string]string{"garment_quality": "Good"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	confirmed := decodeView(t, rec)
	assert.True(t, confirmed.Confirmed)
	assert.Empty(t, confirmed.Prompts)
	assert.Equal(t, "Zara", fieldValue(confirmed, models.FieldBrand))
	assert.Equal(t, models.NotAvailable, fieldValue(confirmed, models.FieldAdditionalCharacteristics))
	assert.Equal(t, "Good", fieldValue(confirmed, models.FieldGarmentQuality))

	rec = srv.do(t, jsonRequest(t, http.MethodPost, "/sessions/"+view.ID+"/confirm", map[string]string{}))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestConfirmWithEmptyBody(t *testing.T) {
	srv := newTestServer(t, &fakeDescriber{text: partialText})
	view := createSession(t, srv)

	rec := srv.do(t, httptest.NewRequest(http.MethodPost, "/sessions/"+view.ID+"/confirm", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decodeView(t, rec).Confirmed)
}

func TestStageInputsRejectsResolvedAndUnknownFields(t *testing.T) {
	srv := newTestServer(t, &fakeDescriber{text: partialText})
	view := createSession(t, srv)

	rec := srv.do(t, jsonRequest(t, http.MethodPut, "/sessions/"+view.ID+"/inputs", map[string]string{"size": "XL"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, jsonRequest(t, http.MethodPut, "/sessions/"+view.ID+"/inputs", map[string]string{"colour": "Blue"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, httptest.NewRequest(http.MethodPut, "/sessions/"+view.ID+"/inputs", strings.NewReader("{broken")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddField(t *testing.T) {
	srv := newTestServer(t, &fakeDescriber{text: partialText})
	view := createSession(t, srv)

	rec := srv.do(t, jsonRequest(t, http.MethodPost, "/sessions/"+view.ID+"/fields", models.AddFieldRequest{Name: "Price", Value: "12 EUR"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeView(t, rec)
	assert.Equal(t, "Price", updated.Fields[len(updated.Fields)-1].Name)
	assert.Equal(t, "12 EUR", updated.Fields[len(updated.Fields)-1].Value)

	rec = srv.do(t, jsonRequest(t, http.MethodPost, "/sessions/"+view.ID+"/fields", models.AddFieldRequest{Name: "price"}))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, jsonRequest(t, http.MethodPost, "/sessions/"+view.ID+"/fields", models.AddFieldRequest{Name: "  "}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetImage(t *testing.T) {
	srv := newTestServer(t, &fakeDescriber{text: partialText})
	view := createSession(t, srv)

	for _, size := range []string{"", "thumb", "medium", "full"} {
		t.Run("size="+size, func(t *testing.T) {
			rec := srv.do(t, httptest.NewRequest(http.MethodGet, view.ImageURL+"?size="+size, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Body.Bytes())
		})
	}
}

func TestSessionIDHeaderFallback(t *testing.T) {
	srv := newTestServer(t, &fakeDescriber{text: partialText})
	view := createSession(t, srv)

	req := httptest.NewRequest(http.MethodGet, "/sessions/", nil)
	req.Header.Set(controller.SessionIDHeader, view.ID)
	rec := srv.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, view.ID, decodeView(t, rec).ID)
}

func TestPingAndUnknownRoute(t *testing.T) {
	srv := newTestServer(t, &fakeDescriber{text: partialText})

	rec := srv.do(t, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/sessions/abc/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
