package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// documentTemplate wraps the rendered plan markup in a printable page.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 24px; }
h1 { font-size: 20px; }
table.outfit-plan { border-collapse: collapse; width: 100%%; }
table.outfit-plan th, table.outfit-plan td { border: 1px solid #ccc; padding: 8px; text-align: left; vertical-align: top; }
table.outfit-plan th { background: #f4f4f4; }
a { color: #0a58ca; text-decoration: none; }
</style>
</head>
<body>
<h1>%s</h1>
%s
</body>
</html>`

type PDFRenderServiceProvider interface {
	RenderDocument(ctx context.Context, title string, bodyHTML string) ([]byte, error)
}

// GotenbergService exports documents through a headless chromium rendering
// service (Gotenberg-compatible API). One outbound call per invocation, no
// retries; the caller owns timeouts via ctx.
type GotenbergService struct {
	BaseURL string
	Client  *http.Client
}

func NewGotenbergService() *GotenbergService {
	return &GotenbergService{
		BaseURL: GetEnv("PDF_RENDER_URL", "http://localhost:3000"),
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GotenbergService) RenderDocument(ctx context.Context, title string, bodyHTML string) ([]byte, error) {
	document := fmt.Sprintf(documentTemplate, title, bodyHTML)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	filePart, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to build render form: %v", err)
	}
	if _, err := filePart.Write([]byte(document)); err != nil {
		return nil, fmt.Errorf("failed to build render form: %v", err)
	}
	// A4 portrait with narrow margins
	formFields := map[string]string{
		"paperWidth":   "8.27",
		"paperHeight":  "11.69",
		"marginTop":    "0.5",
		"marginBottom": "0.5",
		"marginLeft":   "0.4",
		"marginRight":  "0.4",
	}
	for field, value := range formFields {
		if err := writer.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("failed to build render form: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build render form: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.BaseURL+"/forms/chromium/convert/html", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create render request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach render service: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("render service returned status %d: %s", resp.StatusCode, string(respBody))
	}
	pdfBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered document: %v", err)
	}
	return pdfBytes, nil
}
