package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/common"
)

const maxErrorBody = 64 << 10

// RESTTransport talks JSON over HTTP to the remote API.
type RESTTransport struct {
	base   *url.URL
	client *http.Client
	tenant string
	token  string
}

var _ Transport = (*RESTTransport)(nil)

func NewRESTTransport(baseURL string, opts ...Option) (*RESTTransport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: unsupported scheme", baseURL)
	}

	o := buildOptions(opts)
	client := o.httpClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RESTTransport{base: u, client: client, tenant: o.tenant, token: o.accessToken}, nil
}

func (t *RESTTransport) Do(ctx context.Context, req Request, out any) error {
	op := req.op()
	if err := ctx.Err(); err != nil {
		return err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return &TransportError{Kind: KindUnknown, Op: op, Err: err}
	}

	u := t.base.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return &TransportError{Kind: KindUnknown, Op: op, Err: err}
	}
	hreq.Header.Set("Accept", "application/json")
	if contentType != "" {
		hreq.Header.Set("Content-Type", contentType)
	}
	if req.IdempotencyKey != "" {
		hreq.Header.Set(common.IdempotencyKeyHeaderName, req.IdempotencyKey)
	}
	t.setAuth(hreq)

	resp, err := t.client.Do(hreq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Kind: KindUnavailable, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(op, resp.StatusCode, raw)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Kind: KindUnavailable, Op: op, Err: err}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Kind: KindDecode, Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// Ping reports the API root reachable when it answers with any status below
// 500. Authorization problems surface on real calls.
func (t *RESTTransport) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.base.String(), nil)
	if err != nil {
		return &TransportError{Kind: KindUnknown, Op: "ping", Err: err}
	}
	t.setAuth(hreq)

	resp, err := t.client.Do(hreq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Kind: KindUnavailable, Op: "ping", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode >= http.StatusInternalServerError {
		return &TransportError{Kind: KindUnavailable, Op: "ping", StatusCode: resp.StatusCode}
	}
	return nil
}

func (t *RESTTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

func (t *RESTTransport) setAuth(r *http.Request) {
	if t.tenant != "" {
		r.Header.Set(common.TenantHeaderName, t.tenant)
	}
	if t.token != "" {
		r.Header.Set("Authorization", "Basic "+t.token)
	}
}

func encodeBody(req Request) (io.Reader, string, error) {
	if req.Upload != nil {
		return encodeMultipart(req.Upload.FileName, req.Upload.ContentType, req.Upload.Data)
	}
	if req.Body == nil {
		return nil, "", nil
	}
	raw, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode body: %w", err)
	}
	return bytes.NewReader(raw), "application/json", nil
}

func encodeMultipart(fileName, contentType string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
