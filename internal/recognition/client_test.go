package recognition

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognizePlate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/recognize", r.URL.Path)

		var req recognizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		require.NoError(t, err)
		assert.Equal(t, "frame", string(image))

		json.NewEncoder(w).Encode(recognizeResponse{Plate: "51A-12345", Status: "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	plate, err := client.RecognizePlate(context.Background(), []byte("frame"))
	require.NoError(t, err)
	assert.Equal(t, "51A-12345", plate)
}

func TestRecognizePlateNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.RecognizePlate(context.Background(), []byte("frame"))
	assert.Error(t, err)
}

func TestRecognizePlateEmptyPlate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(recognizeResponse{Status: "no_plate"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.RecognizePlate(context.Background(), []byte("frame"))
	assert.Error(t, err)
}

func TestRecognizePlateUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	_, err := client.RecognizePlate(context.Background(), []byte("frame"))
	assert.Error(t, err)
}
