package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Recognizer resolves a license plate from a captured frame.
type Recognizer interface {
	RecognizePlate(ctx context.Context, image []byte) (string, error)
}

type recognizeRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type recognizeResponse struct {
	Plate  string `json:"plate"`
	Status string `json:"status"`
}

// Client talks to the external plate recognition service over HTTP.
type Client struct {
	serverURL  string
	httpClient *http.Client
}

func NewClient(serverURL string, timeout time.Duration) *Client {
	return &Client{
		serverURL:  serverURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// RecognizePlate submits the image and returns the recognized plate text.
// Any transport failure, non-200 status or empty plate is an error; the
// caller decides how to degrade.
func (c *Client) RecognizePlate(ctx context.Context, image []byte) (string, error) {
	body, err := json.Marshal(recognizeRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode recognition request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/recognize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build recognition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognition service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recognition service returned status %d", resp.StatusCode)
	}

	var result recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode recognition response: %w", err)
	}
	if result.Plate == "" {
		return "", fmt.Errorf("recognition service returned no plate")
	}
	return result.Plate, nil
}
