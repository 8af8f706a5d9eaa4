package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dmitrijs2005/docproc/internal/client/models"
)

type credentialsBody struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

func (c *HTTPClient) ObtainToken(ctx context.Context, username string, password []byte) (*models.TokenPair, error) {
	r, err := jsonRequest(http.MethodPost, "/token/", "/token/",
		credentialsBody{Username: username, Password: string(password)})
	if err != nil {
		return nil, err
	}

	var pair models.TokenPair
	if err := c.do(ctx, r, &pair); err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, fmt.Errorf("POST /token/: response has no access token")
	}
	return &pair, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, email string, password []byte) error {
	r, err := jsonRequest(http.MethodPost, "/register/", "/register/",
		credentialsBody{Username: username, Email: email, Password: string(password)})
	if err != nil {
		return err
	}
	return c.do(ctx, r, nil)
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, request{method: http.MethodGet, route: "/user/", path: "/user/"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) LoginLegacy(ctx context.Context, email string, password []byte) (*models.LegacyLogin, error) {
	r, err := jsonRequest(http.MethodPost, "/auth/login/", "/auth/login/",
		credentialsBody{Email: email, Password: string(password)})
	if err != nil {
		return nil, err
	}

	var out models.LegacyLogin
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("POST /auth/login/: response has no token")
	}
	return &out, nil
}

// documentPage is the paginated list shape some backend deployments return.
type documentPage struct {
	Results []models.Document `json:"results"`
}

func (c *HTTPClient) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, route: "/documents/", path: "/documents/"}, &raw); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var page documentPage
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("GET /documents/: decode page: %w", err)
		}
		return nonNil(page.Results), nil
	}

	var docs []models.Document
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &docs); err != nil {
			return nil, fmt.Errorf("GET /documents/: decode list: %w", err)
		}
	}
	return nonNil(docs), nil
}

func (c *HTTPClient) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	var d models.Document
	r := request{method: http.MethodGet, route: "/documents/:id/", path: fmt.Sprintf("/documents/%d/", id)}
	if err := c.do(ctx, r, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UploadDocument posts a multipart form with the "file" part and an optional
// "title" field.
func (c *HTTPClient) UploadDocument(ctx context.Context, filename string, file io.Reader, title string) (*models.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if title != "" {
		if err := mw.WriteField("title", title); err != nil {
			return nil, fmt.Errorf("POST /documents/upload/: write title: %w", err)
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("POST /documents/upload/: create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("POST /documents/upload/: read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("POST /documents/upload/: close form: %w", err)
	}

	r := request{
		method:      http.MethodPost,
		route:       "/documents/upload/",
		path:        "/documents/upload/",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}

	var d models.Document
	if err := c.do(ctx, r, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *HTTPClient) ProcessDocument(ctx context.Context, id int64) (*models.Document, error) {
	var d models.Document
	r := request{method: http.MethodPost, route: "/documents/:id/process/", path: fmt.Sprintf("/documents/%d/process/", id)}
	if err := c.do(ctx, r, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *HTTPClient) UpdateExtractedField(ctx context.Context, id int64, value string, validated bool) (*models.ExtractedField, error) {
	body := struct {
		Value       string `json:"value"`
		IsValidated bool   `json:"is_validated"`
	}{value, validated}

	r, err := jsonRequest(http.MethodPut, "/extracted_data/:id/", fmt.Sprintf("/extracted_data/%d/", id), body)
	if err != nil {
		return nil, err
	}

	f := models.ExtractedField{ID: id, Value: value, IsValidated: validated}
	if err := c.do(ctx, r, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) Stats(ctx context.Context) (*models.Stats, error) {
	var s models.Stats
	if err := c.do(ctx, request{method: http.MethodGet, route: "/stats/", path: "/stats/"}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Ping reports whether the backend origin answers at all. Any HTTP response,
// including 4xx/5xx, counts as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	r := request{method: http.MethodGet, route: "/", path: "/"}
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(r, 0, start)
		return c.mapError(ctx, r, err)
	}
	defer resp.Body.Close()
	c.observe(r, resp.StatusCode, start)
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return nil
}

func nonNil(docs []models.Document) []models.Document {
	if docs == nil {
		return []models.Document{}
	}
	return docs
}
