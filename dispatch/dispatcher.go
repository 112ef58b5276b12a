// Package dispatch invokes message handlers resolved from a unit-of-work
// container for each logical message of an inbound transport message.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"reflect"
	"sync"

	"github.com/xraph/go-utils/log"
)

// ErrNoRoute is returned when a logical message has no handler contract.
var ErrNoRoute = errors.New("no handler route for message type")

// Builder is the part of a container the dispatcher needs.
type Builder interface {
	BuildAll(contract reflect.Type) iter.Seq2[any, error]
}

// Handler processes one logical message.
type Handler interface {
	Handle(ctx context.Context, message any) error
}

// TransportMessage is one inbound message carrying zero or more logical messages.
type TransportMessage struct {
	ID               string
	Headers          map[string]string
	Messages         []any
	Control          bool // control messages carry no logical payload
	HandlingDisabled bool
}

// Dispatcher routes logical messages to handler contracts.
type Dispatcher struct {
	logger log.Logger
	routes map[reflect.Type]reflect.Type
	mu     sync.RWMutex
}

// New creates a dispatcher. A nil logger is replaced by a no-op logger.
func New(logger log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	return &Dispatcher{
		logger: logger,
		routes: make(map[reflect.Type]reflect.Type),
	}
}

// Route sends messages of messageType to every handler built for handlerContract.
func (d *Dispatcher) Route(messageType, handlerContract reflect.Type) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.routes[messageType] = handlerContract
}

// RouteOf is the typed form of Route.
func RouteOf[M, H any](d *Dispatcher) {
	d.Route(reflect.TypeOf((*M)(nil)).Elem(), reflect.TypeOf((*H)(nil)).Elem())
}

// Dispatch runs the handlers for every logical message in msg, in order.
// The builder is normally a child container scoped to this message; the
// caller owns its disposal.
func (d *Dispatcher) Dispatch(ctx context.Context, builder Builder, msg TransportMessage) error {
	if msg.HandlingDisabled {
		return nil
	}

	for _, message := range msg.Messages {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := d.dispatchOne(ctx, builder, message); err != nil {
			return fmt.Errorf("message %s: %w", msg.ID, err)
		}
	}

	if !msg.Control && len(msg.Messages) == 0 {
		d.logger.Warn("received an empty message, ignoring", log.String("message_id", msg.ID))
	}

	return nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, builder Builder, message any) error {
	messageType := reflect.TypeOf(message)

	d.mu.RLock()
	contract, ok := d.routes[messageType]
	d.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %v", ErrNoRoute, messageType)
	}

	handled := 0

	for instance, err := range builder.BuildAll(contract) {
		if err != nil {
			return err
		}

		handler, ok := instance.(Handler)
		if !ok {
			return fmt.Errorf("%T built for %s does not implement Handler", instance, contract)
		}

		if err := handler.Handle(ctx, message); err != nil {
			return err
		}
		handled++
	}

	d.logger.Debug("dispatched logical message",
		log.String("message_type", messageType.String()),
		log.Int("handlers", handled),
	)

	return nil
}
