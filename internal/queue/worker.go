package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/streadway/amqp"
)

// Queue message outcomes reported to the Observer.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeRequeued  = "requeued"
	OutcomeDropped   = "dropped"
)

// Observer is notified once per handled delivery.
type Observer interface {
	ObserveQueueMessage(outcome string)
}

// Publisher is the part of *amqp.Channel used to send results.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Config holds worker settings.
type Config struct {
	URL          string
	RequestQueue string
	ResultQueue  string
	Concurrency  int
}

// Worker consumes analysis requests with Concurrency consumers, each on
// its own channel.
type Worker struct {
	cfg       Config
	processor *Processor
	observer  Observer
}

// NewWorker creates a Worker. observer may be nil.
func NewWorker(cfg Config, processor *Processor, observer Observer) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Worker{cfg: cfg, processor: processor, observer: observer}
}

// Run connects to the broker and consumes until ctx is canceled or the
// connection drops.
func (w *Worker) Run(ctx context.Context) error {
	conn, err := amqp.Dial(w.cfg.URL)
	if err != nil {
		return fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	defer func() { _ = conn.Close() }()

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, w.cfg.Concurrency)
	for i := range w.cfg.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.consume(consumerCtx, conn, i+1); err != nil {
				errs <- err
				cancel()
			}
		}()
	}
	log.Printf("[worker] %d consumers on %q", w.cfg.Concurrency, w.cfg.RequestQueue)

	var runErr error
	select {
	case <-ctx.Done():
	case amqpErr := <-closed:
		if amqpErr != nil {
			runErr = fmt.Errorf("connection closed: %w", amqpErr)
		}
	case runErr = <-errs:
	}

	cancel()
	wg.Wait()
	return runErr
}

func (w *Worker) consume(ctx context.Context, conn *amqp.Connection, id int) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error opening channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	for _, name := range []string{w.cfg.RequestQueue, w.cfg.ResultQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
	}
	// One unacked message per consumer so work spreads across workers.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(w.cfg.RequestQueue, fmt.Sprintf("screener-%d", id), false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("error consuming from %s: %w", w.cfg.RequestQueue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.Handle(ctx, ch, d)
		}
	}
}

// Handle processes one delivery, publishes its result and acknowledges it.
// Deliveries interrupted by shutdown are requeued; a result that cannot be
// published is requeued once and dropped on redelivery.
func (w *Worker) Handle(ctx context.Context, pub Publisher, d amqp.Delivery) {
	req, result, err := w.processor.Process(ctx, d.Body)
	if err != nil {
		log.Printf("[worker] request %s interrupted, requeueing: %v", req.ID, err)
		_ = d.Nack(false, true)
		w.observe(OutcomeRequeued)
		return
	}

	if err := w.publish(pub, w.replyQueue(d, req), result); err != nil {
		log.Printf("[worker] failed to publish result for %s: %v", req.ID, err)
		requeue := !d.Redelivered
		_ = d.Nack(false, requeue)
		if requeue {
			w.observe(OutcomeRequeued)
		} else {
			w.observe(OutcomeDropped)
		}
		return
	}

	_ = d.Ack(false)
	if result.Status == StatusCompleted {
		log.Printf("[worker] request %s scored %.2f", req.ID, result.Report.Result.Score)
		w.observe(OutcomeCompleted)
	} else {
		log.Printf("[worker] request %s failed: %s", req.ID, result.Error)
		w.observe(OutcomeFailed)
	}
}

func (w *Worker) replyQueue(d amqp.Delivery, req *Request) string {
	switch {
	case req.ReplyTo != "":
		return req.ReplyTo
	case d.ReplyTo != "":
		return d.ReplyTo
	default:
		return w.cfg.ResultQueue
	}
}

func (w *Worker) publish(pub Publisher, queue string, result *Result) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return pub.Publish("", queue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		CorrelationId: result.RequestID.String(),
		Timestamp:     result.Timestamp,
		Body:          body,
	})
}

func (w *Worker) observe(outcome string) {
	if w.observer != nil {
		w.observer.ObserveQueueMessage(outcome)
	}
}
