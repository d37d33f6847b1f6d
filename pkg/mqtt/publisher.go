// Package mqtt forwards daemon events to an MQTT broker.
package mqtt

import (
	"context"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battcore/battcore/pkg/config"
	"github.com/battcore/battcore/pkg/events"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	qos            = 0
)

// client is the part of paho.Client the publisher needs.
type client interface {
	Connect() paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Publisher publishes every hub event to <topic>/<event name>.
type Publisher struct {
	client client
	topic  string
	log    *logrus.Logger
}

// New returns a publisher for cfg. It does not connect.
func New(cfg config.MQTTConfig, log *logrus.Logger) *Publisher {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "battcore-" + uuid.NewString()
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.OnConnect = func(paho.Client) {
		log.WithField("broker", cfg.Broker).Info("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.WithField("broker", cfg.Broker).Warnf("MQTT connection lost: %v", err)
	}

	return &Publisher{
		client: paho.NewClient(opts),
		topic:  cfg.Topic,
		log:    log,
	}
}

// Connect starts connecting to the broker. With connect retry on, paho keeps
// trying in the background after the first attempt times out.
func (p *Publisher) Connect() error {
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		p.log.Warn("MQTT broker not reachable yet, retrying in background")
		return nil
	}
	return pkgerrors.Wrap(token.Error(), "failed to connect to MQTT broker")
}

// Run publishes events from ch until ctx is done or ch is closed.
func (p *Publisher) Run(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			p.publish(ev)
		}
	}
}

func (p *Publisher) publish(ev events.Event) {
	topic := p.topic + "/" + ev.Name
	token := p.client.Publish(topic, qos, false, []byte(ev.Data))
	if !token.WaitTimeout(publishTimeout) {
		p.log.WithField("topic", topic).Warn("MQTT publish timed out")
		return
	}
	if err := token.Error(); err != nil {
		p.log.WithField("topic", topic).Errorf("MQTT publish failed: %v", err)
		return
	}
	p.log.WithField("topic", topic).Trace("event published")
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
