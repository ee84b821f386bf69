// Package transcribe adapts the AssemblyAI REST API into a single blocking
// transcription call: upload the audio bytes, create a transcript job, poll
// until it settles.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const assemblyAIBaseURL = "https://api.assemblyai.com"

type Client interface {
	Transcribe(ctx context.Context, audioData []byte) (string, error)
}

type assemblyAIClient struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
}

func NewAssemblyAIClient(apiKey string) Client {
	return newAssemblyAIClient(apiKey, assemblyAIBaseURL)
}

func newAssemblyAIClient(apiKey, baseURL string) *assemblyAIClient {
	return &assemblyAIClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		pollInterval: 2 * time.Second,
	}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL string `json:"audio_url"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

func (c *assemblyAIClient) Transcribe(ctx context.Context, audioData []byte) (string, error) {
	if len(audioData) == 0 {
		return "", nil
	}

	uploadURL, err := c.upload(ctx, audioData)
	if err != nil {
		return "", err
	}

	id, err := c.createTranscript(ctx, uploadURL)
	if err != nil {
		return "", err
	}

	for {
		tr, err := c.getTranscript(ctx, id)
		if err != nil {
			return "", err
		}
		switch tr.Status {
		case "completed":
			return tr.Text, nil
		case "error":
			return "", fmt.Errorf("transcription failed: %s", tr.Error)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *assemblyAIClient) upload(ctx context.Context, audioData []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v2/upload", bytes.NewReader(audioData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var result uploadResponse
	if err := c.do(req, &result); err != nil {
		return "", fmt.Errorf("uploading audio: %w", err)
	}
	return result.UploadURL, nil
}

func (c *assemblyAIClient) createTranscript(ctx context.Context, audioURL string) (string, error) {
	jsonBody, err := json.Marshal(transcriptRequest{AudioURL: audioURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v2/transcript", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var result transcriptResponse
	if err := c.do(req, &result); err != nil {
		return "", fmt.Errorf("creating transcript: %w", err)
	}
	return result.ID, nil
}

func (c *assemblyAIClient) getTranscript(ctx context.Context, id string) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v2/transcript/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)

	var result transcriptResponse
	if err := c.do(req, &result); err != nil {
		return nil, fmt.Errorf("polling transcript: %w", err)
	}
	return &result, nil
}

func (c *assemblyAIClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("STT API error: %s - %s", resp.Status, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
