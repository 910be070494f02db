// Package events publishes learner lifecycle events to a RabbitMQ topic
// exchange so downstream consumers (notifications, analytics) can react to
// state changes without polling the API.
package events

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"
)

// Publisher wraps an AMQP connection and a declared topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher dials the broker and declares a durable topic exchange.
func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends a JSON envelope {"type": ..., "payload": ...} using the
// event type as the routing key on the topic exchange.
func (p *Publisher) Publish(eventType string, payload interface{}) error {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	log.Printf("[events] publishing %s", eventType)

	return p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Close shuts down the channel and connection. Safe to call once on exit.
func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
