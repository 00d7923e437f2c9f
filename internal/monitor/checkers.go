package monitor

import (
	"context"
	"errors"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DatabaseChecker checks a SQL connection pool
type DatabaseChecker struct {
	name string
	db   Pinger
}

// NewDatabaseChecker creates a checker named "database" over db
func NewDatabaseChecker(db Pinger) *DatabaseChecker {
	return &DatabaseChecker{name: "database", db: db}
}

func (c *DatabaseChecker) Name() string { return c.name }

func (c *DatabaseChecker) Check(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// RedisChecker checks a Redis server with PING
type RedisChecker struct {
	client redis.UniversalClient
}

// NewRedisChecker creates a checker named "redis"
func NewRedisChecker(client redis.UniversalClient) *RedisChecker {
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// AMQPChecker opens and closes a broker connection
type AMQPChecker struct {
	url string
}

// NewAMQPChecker creates a checker named "amqp" for the broker at url
func NewAMQPChecker(url string) *AMQPChecker {
	return &AMQPChecker{url: url}
}

func (c *AMQPChecker) Name() string { return "amqp" }

func (c *AMQPChecker) Check(ctx context.Context) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(5 * time.Second)
	}
	timeout := time.Until(deadline)
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	conn, err := amqp.DialConfig(c.url, amqp.Config{
		Dial: func(network, addr string) (net.Conn, error) {
			d := net.Dialer{Timeout: timeout}
			conn, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// Bound the AMQP handshake; the library clears it once open
			if err := conn.SetDeadline(deadline); err != nil {
				conn.Close()
				return nil, err
			}
			return conn, nil
		},
		Heartbeat: 10 * time.Second,
	})
	if err != nil {
		return err
	}
	if conn.IsClosed() {
		return errors.New("amqp connection closed during handshake")
	}
	return conn.Close()
}
