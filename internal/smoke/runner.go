// Package smoke runs shallow reachability checks against a running backend
// and prints one pass/fail line per check.
package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agentfree/sessionkit/internal/buildinfo"
	"github.com/agentfree/sessionkit/internal/logging"
	"github.com/agentfree/sessionkit/internal/netx"
	"github.com/google/uuid"
)

// Outcome classifies a finished check.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeError   Outcome = "error"
)

// Result is what one check produced.
type Result struct {
	Check      Check
	Outcome    Outcome
	StatusCode int
	Body       []byte
	Err        error
	Elapsed    time.Duration
}

// Summary collects the results of a run.
type Summary struct {
	RunID   string
	Results []Result
}

func (s Summary) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// Runner executes checks one after the other.
type Runner struct {
	baseURL     string
	frontendURL string
	timeout     time.Duration
	checks      []Check
	client      *http.Client
	out         io.Writer
	logger      logging.Logger
	color       bool
	userAgent   string

	grpcAddr string
	probe    HealthProber
}

type Option func(*Runner)

// WithTimeout bounds each request. Zero or negative leaves the default.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithChecks(c ...Check) Option {
	return func(r *Runner) { r.checks = c }
}

func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) { r.client = c }
}

func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithColor wraps success and failure lines in ANSI colors.
func WithColor(on bool) Option {
	return func(r *Runner) { r.color = on }
}

func WithFrontendURL(u string) Option {
	return func(r *Runner) { r.frontendURL = u }
}

// WithGRPCHealth adds a grpc.health.v1 probe of addr after the HTTP checks.
func WithGRPCHealth(addr string, p HealthProber) Option {
	return func(r *Runner) {
		r.grpcAddr = addr
		r.probe = p
	}
}

func NewRunner(baseURL string, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		baseURL:     strings.TrimRight(baseURL, "/"),
		frontendURL: "http://localhost:3000",
		timeout:     5 * time.Second,
		checks:      DefaultChecks,
		client:      &http.Client{},
		out:         out,
		logger:      logging.Discard(),
		userAgent:   buildinfo.UserAgent("smoke"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.grpcAddr != "" && r.probe == nil {
		r.probe = GRPCHealthProbe
	}
	r.logger = r.logger.With("module", "smoke")
	return r
}

// Run executes every check in order and never stops early. Failures are
// reported in the output and the summary, not as errors.
func (r *Runner) Run(ctx context.Context) Summary {
	sum := Summary{RunID: uuid.NewString()}
	logger := r.logger.With("run_id", sum.RunID)

	r.printf("🧪 Testing Agent Free Backend API...\n\n")

	for _, c := range r.checks {
		r.printf("Testing %s...\n", c.Name)
		res := r.runCheck(ctx, logger, c)
		r.report(res)
		r.printf("\n")
		sum.Results = append(sum.Results, res)
	}

	if r.grpcAddr != "" {
		res := r.runProbe(ctx, logger)
		r.printf("\n")
		sum.Results = append(sum.Results, res)
	}

	r.footer()

	logger.Info(ctx, "smoke run finished",
		"success", sum.Count(OutcomeSuccess),
		"failed", sum.Count(OutcomeFailed),
		"error", sum.Count(OutcomeError))
	return sum
}

func (r *Runner) runCheck(ctx context.Context, logger logging.Logger, c Check) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	requestID := uuid.NewString()
	h := http.Header{}
	h.Set("User-Agent", r.userAgent)
	h.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := netx.Get(ctx, r.client, r.baseURL+c.Path, h)
	res := Result{Check: c, Elapsed: time.Since(start)}

	switch {
	case err != nil:
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("request timeout after %s", r.timeout)
		}
		res.Outcome, res.Err = OutcomeError, err
	case resp.StatusCode == http.StatusOK:
		res.Outcome, res.StatusCode, res.Body = OutcomeSuccess, resp.StatusCode, resp.Body
	default:
		res.Outcome, res.StatusCode, res.Body = OutcomeFailed, resp.StatusCode, resp.Body
	}

	logger.Debug(ctx, "check finished",
		"check", c.Name,
		"request_id", requestID,
		"outcome", res.Outcome,
		"status", res.StatusCode,
		"elapsed", res.Elapsed)
	return res
}

func (r *Runner) report(res Result) {
	name := res.Check.Name

	switch res.Outcome {
	case OutcomeSuccess:
		r.printf("%s\n", r.green(fmt.Sprintf("✅ %s: SUCCESS (%d)", name, res.StatusCode)))
		if res.Check.Path == HealthPath {
			service, version := healthFields(res.Body)
			r.printf("   Service: %s\n", service)
			r.printf("   Version: %s\n", version)
		}
	case OutcomeFailed:
		r.printf("%s\n", r.red(fmt.Sprintf("❌ %s: FAILED (%d)", name, res.StatusCode)))
		r.printf("   Error: %s\n", errorBody(res.Body))
	default:
		r.printf("%s\n", r.red(fmt.Sprintf("❌ %s: ERROR - %s", name, res.Err)))
	}
}

func (r *Runner) footer() {
	r.printf("🎯 API Testing Complete!\n")
	r.printf("\n📋 Next Steps:\n")
	r.printf("1. Start the frontend: cd mui && npm start\n")
	r.printf("2. Open browser: %s\n", r.frontendURL)
	r.printf("3. Test the complete application\n")
	r.printf("\n🔗 Backend API: %s\n", r.baseURL)
	r.printf("📊 Health Check: %s%s\n", r.baseURL, HealthPath)
}

// healthFields pulls service and version out of a health body. Missing or
// non-JSON values read as "unknown".
func healthFields(body []byte) (string, string) {
	var h struct {
		Service any `json:"service"`
		Version any `json:"version"`
	}
	_ = json.Unmarshal(body, &h)
	return fieldString(h.Service), fieldString(h.Version)
}

func fieldString(v any) string {
	switch x := v.(type) {
	case nil:
		return "unknown"
	case string:
		return x
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// errorBody renders a failure body as compact JSON. Bodies that are not JSON
// are printed as a JSON string.
func errorBody(body []byte) string {
	var buf bytes.Buffer
	if json.Valid(body) && json.Compact(&buf, body) == nil {
		return buf.String()
	}
	b, _ := json.Marshal(string(body))
	return string(b)
}

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

func (r *Runner) green(s string) string {
	if !r.color {
		return s
	}
	return ansiGreen + s + ansiReset
}

func (r *Runner) red(s string) string {
	if !r.color {
		return s
	}
	return ansiRed + s + ansiReset
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
