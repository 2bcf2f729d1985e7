package tools

import (
	"github.com/tobyjaguar/rpgkernel/internal/envelope"
	"github.com/tobyjaguar/rpgkernel/internal/events"
	"github.com/tobyjaguar/rpgkernel/internal/kernel"
)

// EventsSubscribeArgs is events.subscribe's input (§6).
type EventsSubscribeArgs struct {
	Topics []string
}

// Subscription is a caller-held handle for one topic's subscriber channel,
// returned so it can later be used with events.Bus.Unsubscribe.
type Subscription struct {
	Topic string
	ID    int
	Ch    <-chan events.Event
}

// EventsSubscribeResult is events.subscribe's output: one subscription
// per requested topic (§6 "stream of {topic, payload} notifications").
type EventsSubscribeResult struct {
	Subscriptions []Subscription
}

// EventsSubscribe opens one subscription per requested topic on the
// kernel's event bus. The caller drains each Subscription.Ch for
// notifications; transport framing that turns these into an outbound
// stream is out of scope (§1).
func EventsSubscribe(ctx *kernel.Context, args EventsSubscribeArgs) (EventsSubscribeResult, string, error) {
	var result EventsSubscribeResult
	_, err := ctx.Audit.Wrap("events.subscribe", args, func() (any, error) {
		subs := make([]Subscription, 0, len(args.Topics))
		for _, topic := range args.Topics {
			id, ch := ctx.Bus.Subscribe(topic)
			subs = append(subs, Subscription{Topic: topic, ID: id, Ch: ch})
		}
		result = EventsSubscribeResult{Subscriptions: subs}
		topicNames := make([]string, 0, len(subs))
		for _, s := range subs {
			topicNames = append(topicNames, s.Topic)
		}
		return map[string]any{"topics": topicNames}, nil
	})
	if err != nil {
		text, envErr := envelopeForError(err)
		return EventsSubscribeResult{}, text, firstErr(err, envErr)
	}
	topicNames := make([]string, 0, len(result.Subscriptions))
	for _, s := range result.Subscriptions {
		topicNames = append(topicNames, s.Topic)
	}
	text, envErr := envelope.WithState("Subscribed.", map[string]any{"topics": topicNames})
	return result, text, envErr
}
