package hiev

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdevine/face-neutronprobe-hiev/internal/config"
	"github.com/gdevine/face-neutronprobe-hiev/internal/naming"
)

// capturedUpload records what the fake HIEv server received
type capturedUpload struct {
	token    string
	fileName string
	content  string
	form     map[string][]string
}

// newFakeHIEv spins up an in-process HIEv that accepts api_create posts
// carrying the expected token and records them.
func newFakeHIEv(t *testing.T, expectToken string, uploads *[]capturedUpload) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Post("/data_files/api_create", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("auth_token") != expectToken {
			render.Status(req, http.StatusUnauthorized)
			render.JSON(w, req, map[string]string{"error": "Invalid authentication token"})
			return
		}

		require.NoError(t, req.ParseMultipartForm(32<<20))

		file, header, err := req.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, err := io.ReadAll(file)
		require.NoError(t, err)

		*uploads = append(*uploads, capturedUpload{
			token:    req.URL.Query().Get("auth_token"),
			fileName: header.Filename,
			content:  string(content),
			form:     req.MultipartForm.Value,
		})

		render.Status(req, http.StatusOK)
		render.JSON(w, req, map[string]interface{}{"file_id": len(*uploads)})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func clientFor(serverURL, token string) *Client {
	return NewClient(config.HIEvConfig{
		BaseURL:       serverURL,
		APIKey:        token,
		UploadTimeout: 10 * time.Second,
	})
}

func writeUploadFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestClientUploadRaw(t *testing.T) {
	var uploads []capturedUpload
	server := newFakeHIEv(t, "secret-token", &uploads)
	client := clientFor(server.URL, "secret-token")

	path := writeUploadFile(t, "FACE_AUTO_RA_NEUTRON_R_20180515.txt", "probe readings")
	md := RawMetadata(naming.DateRange{Start: "2018-05-15 00:00:00", End: "2018-05-15 23:59:59"})

	err := client.Upload(context.Background(), path, md)
	require.NoError(t, err)

	require.Len(t, uploads, 1)
	got := uploads[0]
	assert.Equal(t, "FACE_AUTO_RA_NEUTRON_R_20180515.txt", got.fileName)
	assert.Equal(t, "probe readings", got.content)
	assert.Equal(t, []string{"31"}, got.form["experiment_id"])
	assert.Equal(t, []string{"RAW"}, got.form["type"])
	assert.Equal(t, []string{"vinod.kumar@uws.edu.au"}, got.form["creator_email"])
	assert.Equal(t, []string{"2018-05-15 00:00:00"}, got.form["start_time"])
	assert.Equal(t, []string{"2018-05-15 23:59:59"}, got.form["end_time"])
	assert.Equal(t, []string{`"Neutron Probe","Soil Moisture"`}, got.form["label_names"])
	assert.Empty(t, got.form["parent_filenames[]"])
}

func TestClientUploadDerived(t *testing.T) {
	var uploads []capturedUpload
	server := newFakeHIEv(t, "secret-token", &uploads)
	client := clientFor(server.URL, "secret-token")

	path := writeUploadFile(t, "FACE_AUTO_RA_NEUTRON_L1_20180515.csv", "ring,depth\n1,25\n")
	md := DerivedMetadata(
		naming.DateRange{Start: "2018-05-15 00:00:00", End: "2018-05-15 23:59:59"},
		"FACE_AUTO_RA_NEUTRON_R_20180515.txt",
	)

	err := client.Upload(context.Background(), path, md)
	require.NoError(t, err)

	require.Len(t, uploads, 1)
	got := uploads[0]
	assert.Equal(t, []string{"PROCESSED"}, got.form["type"])
	assert.Equal(t, []string{"g.devine@uws.edu.au"}, got.form["creator_email"])
	assert.Equal(t,
		[]string{"Teresa Gimeno, teresa.gimeno@bc3research.org"},
		got.form["contributor_names[]"])
	assert.Equal(t,
		[]string{"FACE_AUTO_RA_NEUTRON_R_20180515.txt", "FACE_SCRIPT_NEUTRON_TXT-TO-CSV.zip"},
		got.form["parent_filenames[]"])
}

func TestClientUploadBadToken(t *testing.T) {
	var uploads []capturedUpload
	server := newFakeHIEv(t, "good-token", &uploads)
	client := clientFor(server.URL, "wrong-token")

	path := writeUploadFile(t, "FACE_AUTO_RA_NEUTRON_R_20180515.txt", "x")
	md := RawMetadata(naming.DateRange{Start: "2018-05-15 00:00:00", End: "2018-05-15 23:59:59"})

	err := client.Upload(context.Background(), path, md)
	require.Error(t, err)

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, http.StatusUnauthorized, uploadErr.StatusCode)
	assert.Contains(t, uploadErr.Detail, "Invalid authentication token")
	assert.NotContains(t, uploadErr.Error(), "wrong-token")
	assert.Empty(t, uploads)
}

func TestClientUploadServerError(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/data_files/api_create", func(w http.ResponseWriter, req *http.Request) {
		render.Status(req, http.StatusInternalServerError)
		render.JSON(w, req, map[string]string{"error": "database unavailable"})
	})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	client := clientFor(server.URL, "token")
	path := writeUploadFile(t, "FACE_AUTO_RA_NEUTRON_R_20180515.txt", "x")
	md := RawMetadata(naming.DateRange{Start: "2018-05-15 00:00:00", End: "2018-05-15 23:59:59"})

	err := client.Upload(context.Background(), path, md)
	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, http.StatusInternalServerError, uploadErr.StatusCode)
	assert.Contains(t, uploadErr.Detail, "database unavailable")
}

func TestClientUploadUnreachableServer(t *testing.T) {
	client := NewClient(config.HIEvConfig{
		BaseURL:       "http://127.0.0.1:1", // nothing listens here
		APIKey:        "secret-key-5150",
		UploadTimeout: 2 * time.Second,
	})

	path := writeUploadFile(t, "FACE_AUTO_RA_NEUTRON_R_20180515.txt", "x")
	md := RawMetadata(naming.DateRange{Start: "2018-05-15 00:00:00", End: "2018-05-15 23:59:59"})

	err := client.Upload(context.Background(), path, md)
	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, 0, uploadErr.StatusCode)

	// Transport errors embed the request URL; the token rides that URL
	// and must be redacted out of the detail.
	assert.NotContains(t, uploadErr.Detail, "secret-key-5150")
	assert.Contains(t, uploadErr.Detail, "/data_files/api_create")
}

func TestClientUploadMissingFile(t *testing.T) {
	var uploads []capturedUpload
	server := newFakeHIEv(t, "token", &uploads)
	client := clientFor(server.URL, "token")

	md := RawMetadata(naming.DateRange{Start: "2018-05-15 00:00:00", End: "2018-05-15 23:59:59"})
	err := client.Upload(context.Background(), filepath.Join(t.TempDir(), "absent.txt"), md)

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Empty(t, uploads)
}

func TestClientUploadInvalidMetadata(t *testing.T) {
	var uploads []capturedUpload
	server := newFakeHIEv(t, "token", &uploads)
	client := clientFor(server.URL, "token")

	path := writeUploadFile(t, "FACE_AUTO_RA_NEUTRON_R_20180515.txt", "x")
	md := RawMetadata(naming.DateRange{}) // missing start/end times

	err := client.Upload(context.Background(), path, md)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "StartTime")
	assert.Empty(t, uploads, "invalid metadata must not reach the server")
}

func TestClientUploadCancelledContext(t *testing.T) {
	var uploads []capturedUpload
	server := newFakeHIEv(t, "token", &uploads)
	client := clientFor(server.URL, "token")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeUploadFile(t, "FACE_AUTO_RA_NEUTRON_R_20180515.txt", "x")
	md := RawMetadata(naming.DateRange{Start: "2018-05-15 00:00:00", End: "2018-05-15 23:59:59"})

	err := client.Upload(ctx, path, md)
	assert.Error(t, err)
}
