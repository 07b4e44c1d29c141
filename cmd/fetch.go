package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/gqlc/gqlcs/compiler"
	"github.com/gqlc/gqlcs/introspection"
	"github.com/gqlc/gqlcs/scalar"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// AcquisitionError is returned when the schema source cannot be read or fetched.
type AcquisitionError struct {
	Source string
	Err    error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("gqlcs: could not acquire schema from %s: %s", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *AcquisitionError) Unwrap() error { return e.Err }

// acquire reads the schema source named by cfg and detects its form.
func (c *CommandLine) acquire(ctx context.Context, cfg *config) (src []byte, form compiler.Form, err error) {
	defer func() {
		if err != nil {
			err = &AcquisitionError{Source: cfg.Source, Err: err}
		}
	}()

	u, perr := url.Parse(cfg.Source)
	if perr != nil || u.Host == "" {
		zap.L().Named("cmd").Info("reading local file", zap.String("name", cfg.Source))

		src, err = afero.ReadFile(c.fs, cfg.Source)
		return src, compiler.Detect(cfg.Source), err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	headers := toHeader(cfg.Headers)
	switch u.Scheme {
	case "http", "https":
		if isSchemaFile(u.Path) {
			src, err = c.get(ctx, u, headers)
			return src, compiler.Detect(cfg.Source), err
		}

		src, err = c.introspect(ctx, u, headers)
		return src, compiler.Introspection, err
	case "ws", "wss":
		src, err = c.introspectWS(ctx, u, headers)
		return src, compiler.Introspection, err
	}
	return nil, compiler.SDL, fmt.Errorf("unsupported scheme: %s", u.Scheme)
}

var schemaFileExts = []string{".graphql", ".gql", ".graphqls", ".json"}

// isSchemaFile reports whether a URL path names a schema file rather than an endpoint.
func isSchemaFile(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, e := range schemaFileExts {
		if ext == e {
			return true
		}
	}
	return false
}

func toHeader(pairs []scalar.Pair) http.Header {
	h := make(http.Header, len(pairs))
	for _, p := range pairs {
		h.Add(p.Key, p.Val)
	}
	return h
}

// get downloads a remote schema file.
func (c *CommandLine) get(ctx context.Context, u *url.URL, headers http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header = headers

	zap.L().Named("cmd").Info("fetching remote file", zap.String("name", u.String()), zap.Any("headers", headers))
	return c.do(req)
}

// introspect POSTs the introspection query to a GraphQL endpoint.
func (c *CommandLine) introspect(ctx context.Context, endpoint *url.URL, headers http.Header) ([]byte, error) {
	body, err := json.Marshal(introspection.NewRequest())
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header = headers.Clone()
	req.Header.Set("Content-Type", "application/json")

	zap.L().Named("cmd").Info("fetching types via introspection", zap.String("endpoint", endpoint.String()), zap.Any("headers", headers))
	return c.do(req)
}

func (c *CommandLine) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected response status: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// graphqlWS is the subprotocol of subscriptions-transport-ws.
const graphqlWS = "graphql-ws"

// Message types of the graphql-ws protocol.
const (
	gqlConnectionInit      = "connection_init"
	gqlConnectionAck       = "connection_ack"
	gqlConnectionError     = "connection_error"
	gqlConnectionKeepAlive = "ka"
	gqlConnectionTerminate = "connection_terminate"
	gqlStart               = "start"
	gqlData                = "data"
	gqlError               = "error"
	gqlComplete            = "complete"
)

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const introspectionID = "1"

// introspectWS runs the introspection query over a graphql-ws connection
// and returns the payload of the first data message.
func (c *CommandLine) introspectWS(ctx context.Context, endpoint *url.URL, headers http.Header) ([]byte, error) {
	log := zap.L().Named("cmd")
	log.Info("fetching types via introspection", zap.String("endpoint", endpoint.String()), zap.Any("headers", headers))

	conn, _, err := c.dialer.DialContext(ctx, endpoint.String(), headers)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}

	payload, err := json.Marshal(introspection.NewRequest())
	if err != nil {
		return nil, err
	}

	if err = conn.WriteJSON(wsMessage{Type: gqlConnectionInit, Payload: json.RawMessage(`{}`)}); err != nil {
		return nil, err
	}
	if err = conn.WriteJSON(wsMessage{ID: introspectionID, Type: gqlStart, Payload: payload}); err != nil {
		return nil, err
	}

	var data []byte
	for {
		var msg wsMessage
		if err = conn.ReadJSON(&msg); err != nil {
			return nil, err
		}

		switch msg.Type {
		case gqlConnectionAck, gqlConnectionKeepAlive:
		case gqlConnectionError, gqlError:
			return nil, fmt.Errorf("%s: %s", msg.Type, msg.Payload)
		case gqlData:
			if data == nil {
				data = msg.Payload
			}
		case gqlComplete:
			if data == nil {
				return nil, fmt.Errorf("operation completed without data")
			}

			terminate := wsMessage{Type: gqlConnectionTerminate}
			if err := conn.WriteJSON(terminate); err != nil {
				log.Debug("could not terminate connection", zap.Error(err))
			}
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return data, nil
		default:
			log.Debug("ignoring message", zap.String("type", msg.Type))
		}
	}
}
