// Package rest is the gateway driver for the hosted backend: PostgREST for
// rows, GoTrue for auth and the storage API for uploaded images.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	imrocreq "github.com/imroc/req/v3"

	"github.com/raids-lab/siteadmin/pkg/gateway"
)

const (
	restPrefix    = "/rest/v1/"
	objectMIME    = "application/vnd.pgrst.object+json"
	defaultBucket = "images"
)

type Config struct {
	URL     string
	AnonKey string
	Bucket  string
	Timeout time.Duration
}

type Backend struct {
	client  *imrocreq.Client
	url     string
	anonKey string
	auth    *Auth
	storage *Storage
}

func New(cfg Config) *Backend {
	base := strings.TrimRight(cfg.URL, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = defaultBucket
	}
	b := &Backend{
		client: imrocreq.C().
			SetBaseURL(base).
			SetCommonHeader("apikey", cfg.AnonKey).
			SetTimeout(timeout),
		url:     base,
		anonKey: cfg.AnonKey,
	}
	b.auth = &Auth{backend: b}
	b.storage = &Storage{backend: b, bucket: bucket}
	return b
}

func (b *Backend) Table(name string) gateway.RawTable { return &table{backend: b, name: name} }

func (b *Backend) Storage() gateway.Storage { return b.storage }

func (b *Backend) Auth() gateway.Auth { return b.auth }

// r starts a request authorized as the signed-in user, or anonymously.
func (b *Backend) r(ctx context.Context) *imrocreq.Request {
	token := b.auth.accessToken()
	if token == "" {
		token = b.anonKey
	}
	return b.client.R().SetContext(ctx).SetBearerAuthToken(token)
}

// Error is a non-2xx answer from the hosted backend.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend returned %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func apiError(resp *imrocreq.Response) error {
	var body struct {
		Code             any    `json:"code"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(resp.Bytes(), &body)
	e := &Error{Status: resp.StatusCode}
	if body.Code != nil {
		e.Code = fmt.Sprint(body.Code)
	}
	for _, m := range []string{body.Message, body.Msg, body.ErrorDescription, body.Error} {
		if m != "" {
			e.Message = m
			break
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

type table struct {
	backend *Backend
	name    string
}

func (t *table) path() string { return restPrefix + url.PathEscape(t.name) }

func orderParam(orders []gateway.Order) string {
	terms := make([]string, 0, len(orders))
	for _, o := range orders {
		dir := "asc"
		if o.Desc {
			dir = "desc"
		}
		terms = append(terms, o.Column+"."+dir)
	}
	return strings.Join(terms, ",")
}

func idFilter(id int64) string { return "eq." + strconv.FormatInt(id, 10) }

func (t *table) Select(ctx context.Context, dst any, orders ...gateway.Order) error {
	r := t.backend.r(ctx).SetQueryParam("select", "*")
	if len(orders) > 0 {
		r.SetQueryParam("order", orderParam(orders))
	}
	resp, err := r.Get(t.path())
	if err != nil {
		return err
	}
	if !resp.IsSuccessState() {
		return apiError(resp)
	}
	return json.Unmarshal(resp.Bytes(), dst)
}

func (t *table) Single(ctx context.Context, dst any) error {
	resp, err := t.backend.r(ctx).
		SetHeader("Accept", objectMIME).
		SetQueryParam("select", "*").
		SetQueryParam("limit", "1").
		Get(t.path())
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotAcceptable {
		return gateway.ErrNoRows
	}
	if !resp.IsSuccessState() {
		return apiError(resp)
	}
	return json.Unmarshal(resp.Bytes(), dst)
}

func (t *table) Insert(ctx context.Context, row any) error {
	payload, err := insertPayload(row)
	if err != nil {
		return err
	}
	resp, err := t.backend.r(ctx).
		SetHeader("Prefer", "return=representation").
		SetBodyJsonMarshal(payload).
		Post(t.path())
	if err != nil {
		return err
	}
	if !resp.IsSuccessState() {
		return apiError(resp)
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(resp.Bytes(), &rows); err != nil {
		return fmt.Errorf("decode inserted row: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	return json.Unmarshal(rows[0], row)
}

func (t *table) Update(ctx context.Context, id int64, patch gateway.Patch) error {
	resp, err := t.backend.r(ctx).
		SetHeader("Prefer", "return=minimal").
		SetQueryParam("id", idFilter(id)).
		SetBodyJsonMarshal(patch).
		Patch(t.path())
	if err != nil {
		return err
	}
	if !resp.IsSuccessState() {
		return apiError(resp)
	}
	return nil
}

func (t *table) Delete(ctx context.Context, id int64) error {
	resp, err := t.backend.r(ctx).
		SetQueryParam("id", idFilter(id)).
		Delete(t.path())
	if err != nil {
		return err
	}
	if !resp.IsSuccessState() {
		return apiError(resp)
	}
	return nil
}

func (t *table) Count(ctx context.Context) (int64, error) {
	resp, err := t.backend.r(ctx).
		SetHeader("Prefer", "count=exact").
		SetQueryParam("select", "id").
		Head(t.path())
	if err != nil {
		return 0, err
	}
	if !resp.IsSuccessState() {
		return 0, apiError(resp)
	}
	return parseContentRange(resp.Header.Get("Content-Range"))
}

// parseContentRange reads the total from "0-9/42" or "*/0".
func parseContentRange(v string) (int64, error) {
	i := strings.LastIndexByte(v, '/')
	if i < 0 {
		return 0, fmt.Errorf("missing count in Content-Range %q", v)
	}
	n, err := strconv.ParseInt(v[i+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad count in Content-Range %q: %w", v, err)
	}
	return n, nil
}

const zeroTime = "0001-01-01T00:00:00Z"

// insertPayload drops the columns the store generates: a zero id and unset
// timestamps.
func insertPayload(row any) (map[string]any, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if id, ok := m["id"].(float64); ok && id == 0 {
		delete(m, "id")
	}
	for k, v := range m {
		if s, ok := v.(string); ok && strings.HasSuffix(k, "_at") && (s == "" || s == zeroTime) {
			delete(m, k)
		}
	}
	return m, nil
}
