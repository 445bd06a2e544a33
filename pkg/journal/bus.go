package journal

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	gochannel "github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
)

// Topic carries every session lifecycle event.
const Topic = "remotehand.events"

// Bus is the in-process pub/sub bus the journal rides on. The session
// engine publishes lifecycle events; consumers (the transcript recorder)
// subscribe through Subscribe.
type Bus struct {
	Router    *message.Router
	Publisher message.Publisher

	subscriber message.Subscriber
	runOnce    sync.Once
}

func NewBus() (*Bus, error) {
	logger := watermill.NopLogger{}
	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)

	r, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, errors.Wrap(err, "new watermill router")
	}
	return &Bus{
		Router:     r,
		Publisher:  pubsub,
		subscriber: pubsub,
	}, nil
}

// Subscribe attaches a handler to the event topic.
func (b *Bus) Subscribe(name string, handler func(*message.Message) error) {
	b.Router.AddConsumerHandler(name, Topic, b.subscriber, handler)
}

// Run blocks until ctx is canceled. Publishers must wait on
// Router.Running() first; the channel pub/sub drops events that arrive
// before the handlers subscribe.
func (b *Bus) Run(ctx context.Context) error {
	var runErr error
	b.runOnce.Do(func() {
		go func() {
			<-ctx.Done()
			_ = b.Router.Close()
		}()
		runErr = b.Router.Run(ctx)
	})
	return runErr
}
