// Package jobs runs background work decoupled from the request/response
// lifecycle.
package jobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/honeynet-in/honeypot-backend/internal/models"
)

// Report is the payload delivered to the external evaluation endpoint when
// a session is judged ready for the final callback.
type Report struct {
	SessionID              string                       `json:"sessionId"`
	ScamDetected           bool                         `json:"scamDetected"`
	TotalMessagesExchanged int                          `json:"totalMessagesExchanged"`
	ExtractedIntelligence  models.ExtractedIntelligence `json:"extractedIntelligence"`
	AgentNotes             string                       `json:"agentNotes"`
}

// Alerter sends a short out-of-band notification to a human operator.
type Alerter interface {
	SendWhatsAppMessage(to, message string) error
}

// CallbackNotifier delivers evaluation reports in the background. Delivery
// is best-effort: failures are logged and never retried, and enqueueing
// never blocks the request that produced the report.
type CallbackNotifier struct {
	url           string
	client        *http.Client
	queue         chan Report
	stop          chan struct{}
	alerter       Alerter
	operatorPhone string
}

// NewCallbackNotifier creates a notifier for the given evaluation URL. The
// alerter is optional; pass nil to disable operator alerts.
func NewCallbackNotifier(url string, alerter Alerter, operatorPhone string) *CallbackNotifier {
	return &CallbackNotifier{
		url:           url,
		client:        &http.Client{Timeout: 15 * time.Second},
		queue:         make(chan Report, 64),
		stop:          make(chan struct{}),
		alerter:       alerter,
		operatorPhone: operatorPhone,
	}
}

// Start launches the delivery worker.
func (n *CallbackNotifier) Start() {
	go n.run()
	log.Println("Callback notifier started")
}

// Stop halts the delivery worker. Reports still in the queue are dropped.
func (n *CallbackNotifier) Stop() {
	close(n.stop)
	log.Println("Callback notifier stopped")
}

// Enqueue hands a report to the worker without blocking. When the queue is
// full the report is dropped and logged; the chat request never waits.
func (n *CallbackNotifier) Enqueue(report Report) {
	select {
	case n.queue <- report:
	default:
		log.Printf("⚠️  Callback queue full, dropping report for session %s", report.SessionID)
	}
}

func (n *CallbackNotifier) run() {
	for {
		select {
		case <-n.stop:
			return
		case report := <-n.queue:
			n.deliver(report)
		}
	}
}

func (n *CallbackNotifier) deliver(report Report) {
	if n.url != "" {
		if err := n.post(report); err != nil {
			log.Printf("❌ Evaluation callback failed for session %s: %v", report.SessionID, err)
		} else {
			log.Printf("✅ Evaluation callback delivered for session %s", report.SessionID)
		}
	}

	if n.alerter != nil && n.operatorPhone != "" {
		msg := fmt.Sprintf(
			"🚨 Honeypot session %s ready for review: scamDetected=%v, %d messages exchanged",
			report.SessionID, report.ScamDetected, report.TotalMessagesExchanged)
		if err := n.alerter.SendWhatsAppMessage(n.operatorPhone, msg); err != nil {
			log.Printf("❌ Operator alert failed for session %s: %v", report.SessionID, err)
		}
	}
}

func (n *CallbackNotifier) post(report Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("evaluation endpoint returned %d", resp.StatusCode)
	}
	return nil
}
