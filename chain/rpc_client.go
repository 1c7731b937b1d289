package chain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"walrus-extend/tool"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RPCRequest RPC request structure
type RPCRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// RPCResponse RPC response structure
type RPCResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	ID      interface{}     `json:"id"`
}

// RPCError RPC error structure
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Logger is a simple logging interface
type Logger interface {
	Printf(format string, v ...interface{})
}

type defaultLogger struct{}

func (defaultLogger) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithLogger sets a custom logger
func WithLogger(logger Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout bounds every RPC call
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRateLimit throttles outgoing calls; limit <= 0 disables throttling
func WithRateLimit(limit float64, burst int) ClientOption {
	return func(c *Client) {
		if limit <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// Client Sui full node JSON-RPC client
type Client struct {
	rpcURL  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  Logger

	calls atomic.Int64
}

// NewClient creates a JSON-RPC client for the given full node URL
func NewClient(rpcURL string, opts ...ClientOption) *Client {
	c := &Client{
		rpcURL:  rpcURL,
		timeout: 30 * time.Second,
		limiter: rate.NewLimiter(rate.Limit(20), 10),
		logger:  defaultLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RPCURL returns the node URL
func (c *Client) RPCURL() string {
	return c.rpcURL
}

// CallCount number of RPC calls issued so far
func (c *Client) CallCount() int64 {
	return c.calls.Load()
}

// call executes one JSON-RPC method and decodes the result into out
func (c *Client) call(ctx context.Context, method string, out interface{}, params ...interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	request := RPCRequest{
		Jsonrpc: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	}

	response, err := c.rpcCall(ctx, request)
	if err != nil {
		return err
	}
	if response.Error != nil {
		return response.Error
	}
	if out == nil {
		return nil
	}
	if len(response.Result) == 0 || string(response.Result) == "null" {
		return fmt.Errorf("%s: empty result", method)
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], response.Result...)
		return nil
	}
	if err := json.Unmarshal(response.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// rpcCall execute RPC call
func (c *Client) rpcCall(ctx context.Context, request RPCRequest) (*RPCResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.calls.Add(1)
	respBytes, err := tool.PostUrl(ctx, c.rpcURL, request, nil)
	if err != nil {
		c.logger.Printf("⚠️  rpc %s against %s failed: %v", request.Method, c.rpcURL, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("rpc call %s timeout: %w", request.Method, err)
		}
		return nil, fmt.Errorf("rpc call %s failed: %w", request.Method, err)
	}

	var response RPCResponse
	if err := json.Unmarshal(respBytes, &response); err != nil {
		return nil, fmt.Errorf("failed to parse rpc response: %w", err)
	}

	return &response, nil
}
