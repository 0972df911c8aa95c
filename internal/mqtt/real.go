package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/dharmor/thermostat/internal/report"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	bufferCapacity = 32
)

// RealPublisher publishes to an actual MQTT broker. System events that
// cannot be delivered while disconnected are buffered and replayed on
// reconnect; status records are dropped instead, because a stale sample
// is worthless to the collector.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{buf: newRingBuffer(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("thermostat").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.WithError(err).Warn("mqtt connection lost")
		}).
		SetOnConnectHandler(func(paho.Client) {
			p.replayBuffered()
		})

	client := paho.NewClient(opts)
	p.client = client

	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// PublishStatus sends a status record to the broker. QoS 0, not
// retained; the next cadence tick supersedes it anyway.
func (p *RealPublisher) PublishStatus(rec report.Record) error {
	payload, err := FormatStatusPayload(rec)
	if err != nil {
		return fmt.Errorf("format status payload: %w", err)
	}
	if !p.client.IsConnected() {
		return fmt.Errorf("not connected, status record dropped")
	}

	token := p.client.Publish(TopicStatus, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PublishSystem sends a system lifecycle event to the broker. QoS 1,
// since startup/shutdown events should survive a flaky link, and
// buffered for replay if the broker is unreachable.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	if !p.client.IsConnected() {
		p.mu.Lock()
		p.buf.push(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
		p.mu.Unlock()
		return fmt.Errorf("not connected, system event buffered")
	}

	token := p.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// IsConnected reports whether the broker connection is active.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

func (p *RealPublisher) replayBuffered() {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Infof("mqtt reconnected, replaying %d buffered system events", len(msgs))
	for _, m := range msgs {
		token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(publishTimeout) || token.Error() != nil {
			log.WithError(token.Error()).Warn("mqtt replay failed")
			return
		}
	}
}
