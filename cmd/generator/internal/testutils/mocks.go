package testutils

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/drasi-project/price-feed-generator/cmd/generator/internal/generator"
	"github.com/drasi-project/price-feed-generator/pkg/models"
)

// MockClock advances instantly on Sleep and can fire a hook after each sleep,
// which tests use to cancel the driver loop at a precise point.
type MockClock struct {
	CurrentTime time.Time
	SleepCount  int
	AfterSleep  func(count int)
}

func (m *MockClock) Now() time.Time { return m.CurrentTime }

func (m *MockClock) Sleep(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
	m.SleepCount++
	if m.AfterSleep != nil {
		m.AfterSleep(m.SleepCount)
	}
}

// MockRand replays scripted draws. Each queue pops until one value is left,
// then keeps returning it, so loops never run dry.
type MockRand struct {
	Ints   []int
	Int63s []int64
	Floats []float64
	Norms  []float64
	Perms  [][]int
}

func (m *MockRand) Intn(n int) int       { return pop(&m.Ints) }
func (m *MockRand) Int63n(n int64) int64 { return pop(&m.Int63s) }
func (m *MockRand) Float64() float64     { return pop(&m.Floats) }
func (m *MockRand) NormFloat64() float64 { return pop(&m.Norms) }

// Perm replays scripted permutations, falling back to identity order.
func (m *MockRand) Perm(n int) []int {
	if len(m.Perms) > 0 {
		p := m.Perms[0]
		if len(m.Perms) > 1 {
			m.Perms = m.Perms[1:]
		}
		return p
	}
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func pop[T any](q *[]T) T {
	var zero T
	if len(*q) == 0 {
		return zero
	}
	v := (*q)[0]
	if len(*q) > 1 {
		*q = (*q)[1:]
	}
	return v
}

// MockEmitter records every observation it is handed.
type MockEmitter struct {
	Mu           sync.Mutex
	Observations []models.PriceObservation
	ShouldFail   bool
}

func (m *MockEmitter) Emit(ctx context.Context, obs models.PriceObservation) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Observations = append(m.Observations, obs)
	if m.ShouldFail {
		return errors.New("emit error")
	}
	return nil
}

// MockDoer satisfies generator.Doer with a scripted response or error.
type MockDoer struct {
	Response *http.Response
	Err      error
	Requests []*http.Request
}

func (m *MockDoer) Do(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

type MockKafkaWriter struct {
	Messages   []kafka.Message
	Mu         sync.Mutex
	ShouldFail bool
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.ShouldFail {
		return errors.New("kafka error")
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func (m *MockKafkaWriter) Close() error { return nil }

type MockKafkaConn struct {
	CreatedTopics []string
}

func (m *MockKafkaConn) Controller() (kafka.Broker, error) {
	return kafka.Broker{Host: "localhost", Port: 9092}, nil
}
func (m *MockKafkaConn) Close() error { return nil }
func (m *MockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	for _, t := range topics {
		m.CreatedTopics = append(m.CreatedTopics, t.Topic)
	}
	return nil
}
func (m *MockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	// Simulate "Ready" state immediately
	return []kafka.Partition{{ID: 0}}, nil
}

type MockKafkaDialer struct {
	ConnSpy *MockKafkaConn
}

func (m *MockKafkaDialer) DialContext(ctx context.Context, network, address string) (generator.KafkaConn, error) {
	if m.ConnSpy == nil {
		m.ConnSpy = &MockKafkaConn{}
	}
	return m.ConnSpy, nil
}
