package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/metrics"
)

// maxErrorBody limita cuánto del body de error se lee.
const maxErrorBody = 64 << 10

// apiError es la respuesta de error de GoTrue o PostgREST.
// GoTrue: {"code":422,"error_code":"email_exists","msg":"..."} o
// {"error":"invalid_grant","error_description":"..."}.
// PostgREST: {"code":"23505","message":"...","details":"...","hint":null}.
type apiError struct {
	Status    int             `json:"-"`
	Code      json.RawMessage `json:"code"`
	ErrorCode string          `json:"error_code"`
	ErrorName string          `json:"error"`
	Msg       string          `json:"msg"`
	Message   string          `json:"message"`
}

// Error no incluye el mensaje del provider: puede traer el email del usuario.
func (e *apiError) Error() string {
	code := e.ErrorCode
	if code == "" {
		code = e.ErrorName
	}
	if code == "" {
		code = e.pgCode()
	}
	return fmt.Sprintf("provider status %d (%s)", e.Status, code)
}

// pgCode devuelve el SQLSTATE de PostgREST ("23505"), o "" si el code es numérico.
func (e *apiError) pgCode() string {
	var s string
	if err := json.Unmarshal(e.Code, &s); err == nil {
		return s
	}
	return ""
}

func (e *apiError) clientError() bool { return e.Status >= 400 && e.Status < 500 }

func asAPIError(err error) (*apiError, bool) {
	var ae *apiError
	ok := errors.As(err, &ae)
	return ae, ok
}

// request describe una llamada al provider.
type request struct {
	op      string // etiqueta de métrica/log, ej: "auth.token"
	method  string
	path    string // relativo al base URL, con query si aplica
	key     string // apikey (anon o service_role)
	body    any
	headers map[string]string
}

// do ejecuta una llamada con timeout propio. Devuelve:
//   - *apiError si el provider respondió != 2xx
//   - errs.ErrTimeout si venció el deadline
//   - errs.ErrProvider para fallas de red/decodificación
//
// out puede ser nil, *json.RawMessage o cualquier struct decodificable.
func (g *Gateway) do(ctx context.Context, r request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.ProviderCallDuration.WithLabelValues(r.op, outcome).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if r.body != nil {
		b, merr := json.Marshal(r.body)
		if merr != nil {
			outcome = "error"
			return errs.E(r.op, errs.ErrProvider, merr)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, g.baseURL+r.path, body)
	if err != nil {
		outcome = "error"
		return errs.E(r.op, errs.ErrProvider, err)
	}
	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := g.opts.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
			return errs.E(r.op, errs.ErrTimeout, err)
		}
		outcome = "error"
		return errs.E(r.op, errs.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "http_" + strconv.Itoa(resp.StatusCode/100) + "xx"
		ae := &apiError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = json.Unmarshal(raw, ae)
		return ae
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		b, rerr := io.ReadAll(resp.Body)
		if rerr != nil {
			outcome = deadlineOutcome(rerr)
			return g.readErr(r.op, rerr)
		}
		*raw = b
		return nil
	}
	if derr := json.NewDecoder(resp.Body).Decode(out); derr != nil {
		outcome = deadlineOutcome(derr)
		return g.readErr(r.op, derr)
	}
	return nil
}

func (g *Gateway) readErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.E(op, errs.ErrTimeout, err)
	}
	return errs.E(op, errs.ErrProvider, fmt.Errorf("decode response: %w", err))
}

func deadlineOutcome(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}

// upstream normaliza cualquier error que no sea ya un *errs.Error.
func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if errs.KindOf(err) != errs.KindUnknown {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.E(op, errs.ErrTimeout, err)
	}
	return errs.E(op, errs.ErrProvider, err)
}

func trimBase(u string) string { return strings.TrimRight(strings.TrimSpace(u), "/") }
