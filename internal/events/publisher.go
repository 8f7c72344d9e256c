package events

import (
	"encoding/json"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Event subjects published by this service
const (
	SubjectLeadCreated  = "crm.lead.created"
	SubjectLeadImported = "crm.lead.imported"
	SubjectLeadUpdated  = "crm.lead.updated"
)

// LeadCreatedEvent is published when a single lead is created
type LeadCreatedEvent struct {
	TenantID     string    `json:"tenantId"`
	LeadID       string    `json:"leadId"`
	MPANMPR      string    `json:"mpanMpr"`
	BusinessName string    `json:"businessName"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// LeadImportedEvent is published once per confirmed import batch
type LeadImportedEvent struct {
	TenantID  string    `json:"tenantId"`
	Inserted  int       `json:"inserted"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes CRM domain events to NATS. A failed connection
// degrades to a no-op publisher so event delivery never blocks request
// handling.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS and returns a publisher. On connection
// failure a disconnected publisher is returned instead of an error.
func NewPublisher(logger *logrus.Logger) *Publisher {
	log := logger.WithField("component", "events.publisher")

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("crm-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to NATS, events disabled")
		return &Publisher{conn: nil, logger: log}
	}

	log.WithField("url", natsURL).Info("Connected to NATS")
	return &Publisher{conn: conn, logger: log}
}

func (p *Publisher) publish(subject string, event interface{}) {
	if p.conn == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).WithField("subject", subject).Error("Failed to marshal event")
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Error("Failed to publish event")
	}
}

// PublishLeadCreated publishes a lead created event
func (p *Publisher) PublishLeadCreated(tenantID, leadID, mpanMPR, businessName, createdBy string) {
	p.publish(SubjectLeadCreated, LeadCreatedEvent{
		TenantID:     tenantID,
		LeadID:       leadID,
		MPANMPR:      mpanMPR,
		BusinessName: businessName,
		CreatedBy:    createdBy,
		Timestamp:    time.Now().UTC(),
	})
}

// PublishLeadImported publishes the aggregate outcome of an import batch
func (p *Publisher) PublishLeadImported(tenantID string, inserted, skipped, failed int) {
	p.publish(SubjectLeadImported, LeadImportedEvent{
		TenantID:  tenantID,
		Inserted:  inserted,
		Skipped:   skipped,
		Failed:    failed,
		Timestamp: time.Now().UTC(),
	})
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close drains and closes the NATS connection
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.WithError(err).Warn("Failed to drain NATS connection")
	}
}
