package intake

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/it-era/intake/internal/engine"
	"github.com/it-era/intake/internal/engine/classifier"
	"github.com/it-era/intake/internal/engine/flow"
	"github.com/it-era/intake/internal/engine/lexicon"
	"github.com/it-era/intake/internal/engine/ticket"
	"github.com/it-era/intake/internal/model"
	"github.com/it-era/intake/internal/notify"
	"github.com/it-era/intake/internal/notify/async"
	"github.com/it-era/intake/internal/notify/dedup"
	"github.com/it-era/intake/internal/notify/file"
	"github.com/it-era/intake/internal/notify/multi"
	"github.com/it-era/intake/internal/notify/stdout"
	"github.com/it-era/intake/internal/notify/webhook"
	"github.com/it-era/intake/internal/store"
)

// ErrEmptyMessage is returned by HandleMessage for a blank message.
var ErrEmptyMessage = model.ErrEmptyMessage

// Client is the conversational intake engine. Create once and reuse; safe
// for concurrent use across sessions. Turns within one session must be
// serialized by the caller.
type Client struct {
	engine     *engine.Engine
	classifier *classifier.Classifier
	store      store.Store
	sink       notify.Sink
}

// New assembles a Client. Sessions live in process memory unless WithRedis
// is given; notifications go nowhere unless a webhook or audit file is
// configured.
func New(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	lex := lexicon.Default()
	lex.ApplyWeights(o.weights)

	clsOpts := []classifier.Option{
		classifier.WithThreshold(o.threshold),
		classifier.WithDefaultCity(o.defaultCity),
	}
	if o.requireDomainTrigger {
		clsOpts = append(clsOpts, classifier.WithRequireDomainTrigger())
	}
	cls := classifier.New(lex, clsOpts...)

	fl := flow.New(flow.WithRestartCompleted(o.restartCompleted))

	genOpts := []ticket.Option{ticket.WithLeadPrefix(o.leadPrefix)}
	if o.ticketSuffix {
		genOpts = append(genOpts, ticket.WithSuffix())
	}
	gen := ticket.New(genOpts...)

	formatter := notify.NewFormatter(o.brand, o.phone, o.eta, notify.WithSiteURL(o.siteURL))

	st, err := newStore(o)
	if err != nil {
		return nil, fmt.Errorf("intake: %w", err)
	}

	sink, err := newSink(o)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("intake: %w", err)
	}

	engOpts := []engine.Option{}
	if sink != nil {
		engOpts = append(engOpts, engine.WithSink(sink))
	}

	return &Client{
		engine:     engine.New(st, cls, fl, gen, formatter, engOpts...),
		classifier: cls,
		store:      st,
		sink:       sink,
	}, nil
}

// HandleMessage runs one conversation turn. An empty sessionID starts a new
// session; the generated id is returned in the reply.
func (c *Client) HandleMessage(ctx context.Context, sessionID, message, location string) (Reply, error) {
	r, err := c.engine.HandleMessage(ctx, sessionID, message, model.Context{Location: location})
	if err != nil {
		return Reply{}, err
	}
	return replyFromModel(r), nil
}

// Classify scores a single message without touching any session state.
func (c *Client) Classify(message, location string) Result {
	return resultFromClassification(c.classifier.Classify(message, model.Context{Location: location}))
}

// Close releases the session store and flushes pending notifications.
func (c *Client) Close() error {
	var errs []error
	if c.sink != nil {
		errs = append(errs, c.sink.Close())
	}
	errs = append(errs, c.store.Close())
	return errors.Join(errs...)
}

func newStore(o options) (store.Store, error) {
	if o.redisAddr == "" {
		return store.New(store.DriverMemory)
	}
	client := redis.NewClient(&redis.Options{Addr: o.redisAddr})
	return store.New(store.DriverRedis,
		store.WithRedisClient(client),
		store.WithTTL(o.sessionTTL),
	)
}

// newSink builds the notification chain: webhook and/or audit file fanned
// out behind an async wrapper so escalation turns never block on delivery.
// The webhook channel is deduplicated so a visitor re-sending the same
// emergency pages once; the audit file still records every escalation.
func newSink(o options) (notify.Sink, error) {
	var sinks []notify.Sink
	if o.webhookURL != "" {
		sinks = append(sinks, dedup.New(webhook.New(o.webhookURL)))
	}
	if o.auditFile != "" {
		fs, err := file.New(o.auditFile)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fs)
	}
	if o.stdoutNotifications {
		sinks = append(sinks, stdout.New())
	}

	switch len(sinks) {
	case 0:
		return nil, nil
	case 1:
		return async.New(sinks[0]), nil
	default:
		return async.New(multi.New(sinks...)), nil
	}
}
