// Package natstransport carries subscription requests and responses over NATS.
package natstransport

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/skywave/onebusaway-siri/correlation"
	"github.com/skywave/onebusaway-siri/internal/logging"
	"github.com/skywave/onebusaway-siri/internal/natsutil"
	"github.com/skywave/onebusaway-siri/types"
	"github.com/skywave/onebusaway-siri/wire"
)

// Registrar is the part of siri.Manager the transport drives.
type Registrar interface {
	RegisterBatch(req *types.ClientRequest, doc *types.SubscriptionRequest) error
	HandleResponse(resp *types.SubscriptionResponse)
}

// Config configures subjects used by the Client.
type Config struct {
	// RequestSubject is used when a ClientRequest has no TargetURL.
	RequestSubject string `yaml:"requestSubject"`

	// ResponseSubject is where producers send subscription responses. It is
	// set as the reply subject of every published request.
	ResponseSubject string `yaml:"responseSubject"`

	// QueueGroup, when set, load-balances responses across clients sharing a registrar.
	QueueGroup string `yaml:"queueGroup"`
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	logger types.Logger
}

// WithLogger sets a logger.
func WithLogger(logger types.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// Client publishes subscription requests and feeds responses back to a Registrar.
type Client struct {
	conn      *nats.Conn
	registrar Registrar
	cfg       Config
	logger    types.Logger

	mu     sync.Mutex
	sub    *nats.Subscription
	closed bool
}

// NewClient creates a transport client.
//
// Parameters:
//   - conn: NATS connection
//   - registrar: Usually a *siri.Manager
//   - cfg: Subjects; ResponseSubject is required
//   - opts: Optional logger
//
// Returns:
//   - *Client: Client ready for Subscribe; call Listen to receive responses
//   - error: types.ErrNATSConnectionRequired or types.ErrInvalidConfig
func NewClient(conn *nats.Conn, registrar Registrar, cfg Config, opts ...Option) (*Client, error) {
	if conn == nil {
		return nil, types.ErrNATSConnectionRequired
	}
	if registrar == nil {
		return nil, fmt.Errorf("%w: registrar is required", types.ErrInvalidConfig)
	}
	if cfg.ResponseSubject == "" {
		return nil, fmt.Errorf("%w: response subject is required", types.ErrInvalidConfig)
	}

	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = logging.NewNop()
	}

	return &Client{
		conn:      conn,
		registrar: registrar,
		cfg:       cfg,
		logger:    options.logger,
	}, nil
}

// Subscribe registers the request's subscriptions as pending and publishes it.
//
// Descriptors without a subscription identifier get a generated one first.
// Subject resolution and encoding happen before registration, so a request
// that cannot be sent leaves nothing pending. When registration fails (for
// example on a module type conflict) nothing is published. When publishing
// fails the entries stay pending and expire.
//
// Parameters:
//   - ctx: Bounds the flush that confirms the server received the request
//   - req: Request envelope; req.Payload is the subscription document
//
// Returns:
//   - error: types.ErrClosed, types.ErrNilRequest, registration or publish error
func (c *Client) Subscribe(ctx context.Context, req *types.ClientRequest) error {
	if c.isClosed() {
		return types.ErrClosed
	}
	if req == nil || req.Payload == nil {
		return types.ErrNilRequest
	}

	if n := correlation.AssignIdentifiers(req.Payload); n > 0 {
		c.logger.Debug("assigned subscription identifiers", "count", n)
	}

	subject := req.TargetURL
	if subject == "" {
		subject = c.cfg.RequestSubject
	}
	if subject == "" {
		return fmt.Errorf("%w: no target subject for subscription request", types.ErrInvalidConfig)
	}

	data, err := wire.EncodeRequest(req)
	if err != nil {
		return err
	}

	if err := c.registrar.RegisterBatch(req, req.Payload); err != nil {
		return err
	}

	msg := nats.NewMsg(subject)
	msg.Reply = c.cfg.ResponseSubject
	msg.Data = data

	if err := c.conn.PublishMsg(msg); err != nil {
		return c.wrapPublishError(subject, err)
	}
	if err := c.conn.FlushWithContext(ctx); err != nil {
		return c.wrapPublishError(subject, err)
	}

	c.logger.Debug("published subscription request",
		"subject", subject,
		"requestor", req.Payload.RequestorRef,
	)

	return nil
}

// Listen starts delivering responses from the response subject to the registrar.
//
// Returns:
//   - error: types.ErrClosed, types.ErrAlreadyListening or subscribe error
func (c *Client) Listen() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return types.ErrClosed
	}
	if c.sub != nil {
		return types.ErrAlreadyListening
	}

	var (
		sub *nats.Subscription
		err error
	)
	if c.cfg.QueueGroup != "" {
		sub, err = c.conn.QueueSubscribe(c.cfg.ResponseSubject, c.cfg.QueueGroup, c.handle)
	} else {
		sub, err = c.conn.Subscribe(c.cfg.ResponseSubject, c.handle)
	}
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.cfg.ResponseSubject, err)
	}
	c.sub = sub

	c.logger.Info("listening for subscription responses", "subject", c.cfg.ResponseSubject)

	return nil
}

// Close stops listening. Pending subscriptions are left to expire.
//
// Safe to call multiple times.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.sub == nil {
		return nil
	}

	err := c.sub.Unsubscribe()
	c.sub = nil
	if err != nil && !natsutil.IsConnectivityError(err) {
		return fmt.Errorf("unsubscribe from %s: %w", c.cfg.ResponseSubject, err)
	}

	return nil
}

func (c *Client) handle(msg *nats.Msg) {
	resp, err := wire.DecodeResponse(msg.Data)
	if err != nil {
		c.logger.Warn("dropping undecodable subscription response",
			"subject", msg.Subject,
			"error", err,
		)

		return
	}

	c.registrar.HandleResponse(resp)
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *Client) wrapPublishError(subject string, err error) error {
	if natsutil.IsConnectivityError(err) {
		return fmt.Errorf("%w: publish subscription request to %s: %w", types.ErrConnectivity, subject, err)
	}

	return fmt.Errorf("publish subscription request to %s: %w", subject, err)
}
