package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// 決済は通ったのに在庫反映に失敗した注文を運用担当へ知らせる。
type Alerter interface {
	OrderUnreconciled(ctx context.Context, orderID int64, reason string) error
}

const unreconciledQueue = "orders.unreconciled"

type unreconciledMessage struct {
	OrderID int64     `json:"order_id"`
	Reason  string    `json:"reason"`
	At      time.Time `json:"at"`
}

// AMQPAlerterはRabbitMQのキューへ通知を流す。
type AMQPAlerter struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPAlerter(url string) (*AMQPAlerter, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if _, err := ch.QueueDeclare(unreconciledQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}

	return &AMQPAlerter{conn: conn, ch: ch}, nil
}

func (a *AMQPAlerter) OrderUnreconciled(ctx context.Context, orderID int64, reason string) error {
	body, err := json.Marshal(unreconciledMessage{
		OrderID: orderID,
		Reason:  reason,
		At:      time.Now(),
	})
	if err != nil {
		return err
	}

	return a.ch.PublishWithContext(ctx, "", unreconciledQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (a *AMQPAlerter) Close() {
	if a.ch != nil {
		a.ch.Close()
	}
	if a.conn != nil {
		a.conn.Close()
	}
}

// AMQP未設定の環境用。何もしない。
type NopAlerter struct{}

func (NopAlerter) OrderUnreconciled(ctx context.Context, orderID int64, reason string) error {
	return nil
}
