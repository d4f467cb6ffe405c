package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

// QueueName is the durable queue contact message notifications are sent to.
const QueueName = "contact_messages"

// MessageReceivedEvent is published whenever a visitor submits the contact form.
type MessageReceivedEvent struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Topic      string    `json:"topic"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares QueueName.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Printf("[rabbitmq] Connected, %s declared", QueueName)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

func declareQueue(ch *amqp.Channel) (amqp.Queue, error) {
	queue, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", QueueName, err)
	}
	return queue, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// PublishMessageReceived sends event to QueueName as persistent JSON.
func (c *Client) PublishMessageReceived(event MessageReceivedEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message event: %w", err)
	}

	err = c.channel.Publish(
		"",        // default exchange
		QueueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message event: %w", err)
	}
	return nil
}

// ConsumeMessageEvents delivers every event on QueueName to handler in a
// background goroutine. Deliveries are acked when handler returns nil and
// requeued otherwise. Bodies that are not valid events are dropped.
func (c *Client) ConsumeMessageEvents(handler func(MessageReceivedEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareQueue(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			handleDelivery(msg, handler)
		}
	}()
	return nil
}

// acknowledger is the part of amqp.Delivery the consumer loop needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handleDelivery(msg amqp.Delivery, handler func(MessageReceivedEvent) error) {
	processDelivery(msg.DeliveryTag, msg.Body, msg, handler)
}

func processDelivery(tag uint64, body []byte, ack acknowledger, handler func(MessageReceivedEvent) error) {
	var event MessageReceivedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("[rabbitmq] Dropping malformed delivery %d: %v", tag, err)
		if err := ack.Nack(false, false); err != nil {
			log.Printf("[rabbitmq] Error nacking delivery %d: %v", tag, err)
		}
		return
	}

	if err := handler(event); err != nil {
		log.Printf("[rabbitmq] Error processing delivery %d: %v", tag, err)
		if err := ack.Nack(false, true); err != nil {
			log.Printf("[rabbitmq] Error nacking delivery %d: %v", tag, err)
		}
		return
	}
	if err := ack.Ack(false); err != nil {
		log.Printf("[rabbitmq] Error acking delivery %d: %v", tag, err)
	}
}
