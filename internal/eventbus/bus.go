package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/seralo/convo/internal/models"
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// LoadConversationsEvent - UI requests the initial conversation load
type LoadConversationsEvent struct{}

func (e LoadConversationsEvent) UIEvent() {}

// SendMessageEvent - UI requests core to send the composed message
type SendMessageEvent struct {
	Content string
}

func (e SendMessageEvent) UIEvent() {}

// SelectConversationEvent - UI requests a conversation's full transcript
type SelectConversationEvent struct {
	ID int
}

func (e SelectConversationEvent) UIEvent() {}

// NewChatEvent - UI switches to the "new chat" view
type NewChatEvent struct{}

func (e NewChatEvent) UIEvent() {}

// StateUpdateEvent - Core pushes a state snapshot to UI
type StateUpdateEvent struct {
	Conversations []models.Conversation
	ActiveID      int
	Sending       bool
	Banner        string
}

func (e StateUpdateEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker implements circuit breaker pattern. Sends reach the
// bus from the event loop and from background fetch goroutines, so the
// breaker guards its own fields.
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen {
		// Check if we should transition to half-open
		if time.Since(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
		}
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = time.Now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker

	mu     sync.Mutex
	closed bool
}

func NewEventBus() *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, 100),
		coreToUI:       make(chan CoreEvent, 100),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	busError := EventBusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	eb.circuitBreaker.RecordFailure()

	if eb.errorCallback != nil {
		eb.errorCallback(busError)
	}
}

func (eb *EventBus) isClosed() bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	return eb.closed
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	if eb.isClosed() {
		return errors.New("event bus is closed")
	}
	if eb.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		eb.reportError("SendToCore", err)
		return err
	}

	select {
	case eb.uiToCore <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("UI to Core channel is full")
		eb.reportError("SendToCore", err)
		return err
	}
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	if eb.isClosed() {
		return errors.New("event bus is closed")
	}
	if eb.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		eb.reportError("SendToUI", err)
		return err
	}

	select {
	case eb.coreToUI <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("Core to UI channel is full")
		eb.reportError("SendToUI", err)
		return err
	}
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

// Close marks the bus closed. The channels are left open: a send
// completing in the background after shutdown gets an error back
// instead of panicking on a closed channel.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.closed = true
}
