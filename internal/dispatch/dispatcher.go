// Package dispatch turns (operation, arguments, session token) triples from
// the conversational agent into validated, authenticated, transactional
// calls on the domain services.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/core/clock"
	"github.com/frahmantamala/hr-assistant/internal/core/events"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
	"github.com/frahmantamala/hr-assistant/internal/employee"
	"github.com/frahmantamala/hr-assistant/pkg/logger"
)

const DefaultTimeout = 10 * time.Second

type Resolver interface {
	Resolve(ctx context.Context, token string) (*employee.Employee, error)
}

// Sessions serializes the invocations of one session token.
type Sessions interface {
	Acquire(ctx context.Context, token string, employeeID int64) (release func(), err error)
}

type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type Options struct {
	// Timeout bounds a whole invocation, waiting for the session included.
	Timeout time.Duration
	// ReadRetries is how many more times a read-only operation runs after a
	// storage failure. Writes never run twice.
	ReadRetries int
}

// Call is the per-invocation state a handler sees.
type Call struct {
	Caller *employee.Employee
	Today  time.Time

	events []events.Event
}

// Emit queues an event to publish once the transaction has committed.
func (c *Call) Emit(e events.Event) {
	c.events = append(c.events, e)
}

type Result struct {
	Operation Operation `json:"operation"`
	Data      any       `json:"data"`
}

type Dispatcher struct {
	registry  *Registry
	resolver  Resolver
	sessions  Sessions
	tx        TransactionManager
	publisher events.Publisher
	clock     clock.Clock
	opts      Options
	logger    *slog.Logger
}

func New(
	registry *Registry,
	resolver Resolver,
	sessions Sessions,
	tx TransactionManager,
	publisher events.Publisher,
	clk clock.Clock,
	opts Options,
	logger *slog.Logger,
) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ReadRetries < 0 {
		opts.ReadRetries = 0
	}
	return &Dispatcher{
		registry:  registry,
		resolver:  resolver,
		sessions:  sessions,
		tx:        tx,
		publisher: publisher,
		clock:     clk,
		opts:      opts,
		logger:    logger,
	}
}

func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Invoke runs operation name with args on behalf of the employee linked to
// token. Every failure is an *internal.AppError. Nothing is written unless the
// whole operation succeeds, and events are published only after commit.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args Arguments, token string) (*Result, error) {
	started := time.Now()

	def, ok := d.registry.Lookup(name)
	if !ok {
		d.logger.Info("unknown operation requested", "operation", name, "client", internal.ClientFromContext(ctx))
		return nil, internal.NewUnknownOperationError(name)
	}
	log := logger.From(ctx).With("operation", string(def.Operation))

	if err := checkArguments(def.Parameters, args); err != nil {
		return nil, d.fail(log, err)
	}
	cmd, err := def.decode(args)
	if err != nil {
		return nil, d.fail(log, err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	call := &Call{Today: clock.Today(d.clock)}
	if def.RequiresAuth {
		caller, err := d.resolver.Resolve(ctx, token)
		if err != nil {
			return nil, d.fail(log, err)
		}
		call.Caller = caller
		log = log.With("employee_id", caller.ID)

		release, err := d.sessions.Acquire(ctx, token, caller.ID)
		if err != nil {
			return nil, d.fail(log, err)
		}
		defer release()
	}
	ctx = logger.Into(ctx, log)

	data, err := d.execute(ctx, def, call, cmd)
	if err != nil {
		return nil, d.fail(log, err)
	}

	for _, e := range call.events {
		if err := d.publisher.Publish(ctx, e); err != nil {
			log.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
		}
	}

	log.Info("operation completed", "duration_ms", time.Since(started).Milliseconds())
	return &Result{Operation: def.Operation, Data: data}, nil
}

// execute runs the handler in one transaction of the operation's kind.
// Read-only operations are retried on storage failures.
func (d *Dispatcher) execute(ctx context.Context, def Definition, call *Call, cmd Command) (any, error) {
	within := d.tx.WithinReadWrite
	attempts := 1
	if def.ReadOnly {
		within = d.tx.WithinReadOnly
		attempts += d.opts.ReadRetries
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		call.events = call.events[:0]

		var data any
		err = within(ctx, func(ctx context.Context) error {
			var herr error
			data, herr = def.handle(ctx, call, cmd)
			return herr
		})
		if err == nil {
			return data, nil
		}
		if !Translate(err).Retryable() || ctx.Err() != nil || attempt == attempts {
			break
		}
		logger.From(ctx).Warn("retrying read after storage failure", "attempt", attempt, "error", err)
	}
	return nil, err
}

func (d *Dispatcher) fail(log *slog.Logger, err error) error {
	appErr := Translate(err)
	if appErr.StatusCode >= 500 {
		log.Error("operation failed", "type", appErr.Type, "code", appErr.Code, "error", err)
	} else {
		log.Info("operation rejected", "type", appErr.Type, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}
	return appErr
}

// Translate maps any error raised below the dispatcher onto the typed error
// set. It is the only place storage failures become client-facing errors.
func Translate(err error) *internal.AppError {
	return store.ToAppError(err)
}
