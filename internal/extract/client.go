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

	"go.uber.org/zap"

	"profile-hub/internal/domain"
)

const maxResponseBytes = 2 << 20

// ErrEmptyExtraction se devuelve cuando el servicio responde sin datos.
var ErrEmptyExtraction = errors.New("extractor returned no data")

// HTTPClient envia el documento al servicio externo de extraccion y devuelve los
// campos de perfil que encontro.
type HTTPClient struct {
	url    string
	apiKey string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPClient devuelve nil si no hay URL configurada.
func NewHTTPClient(url, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		url:    strings.TrimRight(url, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (c *HTTPClient) Extract(ctx context.Context, doc domain.UploadedDocument, content []byte) (json.RawMessage, error) {
	reqBody := extractRequest{
		DocumentID:    doc.ID,
		FileName:      doc.FileName,
		MimeType:      doc.MimeType,
		ContentBase64: base64.StdEncoding.EncodeToString(content),
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("extractor error status",
			zap.Int("status", resp.StatusCode),
			zap.String("document_id", doc.ID),
			zap.ByteString("body", truncate(respBody, 512)),
		)
		return nil, fmt.Errorf("extractor http error: status=%d", resp.StatusCode)
	}

	var er extractResponse
	if err := json.Unmarshal(respBody, &er); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if er.Error != nil {
		return nil, fmt.Errorf("extractor api error: %s", er.Error.Message)
	}
	data := bytes.TrimSpace(er.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ErrEmptyExtraction
	}
	if err := ValidateProfileData(data); err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

type extractRequest struct {
	DocumentID    string `json:"document_id"`
	FileName      string `json:"file_name"`
	MimeType      string `json:"mime_type"`
	ContentBase64 string `json:"content_base64"`
}

type extractResponse struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
