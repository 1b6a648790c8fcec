package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 60 * time.Second

// HTTPClient extracts text through the external document-parsing service.
type HTTPClient struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// NewHTTPClient constructs an extraction client for the external service.
func NewHTTPClient(apiKey, model, url string) (*HTTPClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("DMXAPI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("DMXAPI_PDF_MODEL is required")
	}
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("extraction URL is required")
	}
	return &HTTPClient{
		apiKey: apiKey,
		model:  model,
		url:    url,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

type extractRequest struct {
	Model             string `json:"model"`
	Input             string `json:"input"`
	PDFPassword       string `json:"pdf_pwd"`
	PageStart         int    `json:"page_start"`
	PageCount         int    `json:"page_count"`
	ParseMode         string `json:"parse_mode"`
	DPI               int    `json:"dpi"`
	ApplyDocumentTree int    `json:"apply_document_tree"`
	TableFlavor       string `json:"table_flavor"`
	GetImage          string `json:"get_image"`
	MarkdownDetails   int    `json:"markdown_details"`
	PageDetails       int    `json:"page_details"`
}

type extractResponse struct {
	Result *struct {
		Markdown string `json:"markdown"`
	} `json:"result"`
	Content string `json:"content"`
	Text    string `json:"text"`
}

// Extract submits the document and returns the extracted markdown text.
func (c *HTTPClient) Extract(ctx context.Context, document []byte) (string, error) {
	reqBody := extractRequest{
		Model:             c.model,
		Input:             base64.StdEncoding.EncodeToString(document),
		PageStart:         0,
		PageCount:         1000,
		ParseMode:         "auto",
		DPI:               144,
		ApplyDocumentTree: 1,
		TableFlavor:       "html",
		GetImage:          "none",
		MarkdownDetails:   1,
		PageDetails:       1,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("PDF parsing timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("PDF parsing failed (%d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed extractResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode extraction response: %w", err)
	}
	switch {
	case parsed.Result != nil && parsed.Result.Markdown != "":
		return parsed.Result.Markdown, nil
	case parsed.Content != "":
		return parsed.Content, nil
	default:
		return parsed.Text, nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
