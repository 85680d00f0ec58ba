package xinvalidate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBus 是进程内的消息总线实现，用于精确控制消息投递。
type memoryBus struct {
	mu         sync.Mutex
	handlers   map[string][]func([]byte)
	published  map[string][][]byte
	publishErr error
}

func newMemoryBus() *memoryBus {
	return &memoryBus{
		handlers:  make(map[string][]func([]byte)),
		published: make(map[string][][]byte),
	}
}

func (b *memoryBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	if b.publishErr != nil {
		err := b.publishErr
		b.mu.Unlock()
		return err
	}
	b.published[channel] = append(b.published[channel], payload)
	handlers := append([]func([]byte){}, b.handlers[channel]...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
	return nil
}

func (b *memoryBus) Subscribe(_ context.Context, channel string, handler func([]byte)) (func(), error) {
	b.mu.Lock()
	b.handlers[channel] = append(b.handlers[channel], handler)
	b.mu.Unlock()
	return func() {}, nil
}

func (b *memoryBus) publishedOn(channel string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte{}, b.published[channel]...)
}

func TestNewPublisher_WithNilClient_ReturnsError(t *testing.T) {
	_, err := NewPublisher(nil, "inst-1")
	assert.ErrorIs(t, err, ErrNilClient)
}

func TestNewPublisherWithBus_WithEmptyInstanceID_ReturnsError(t *testing.T) {
	_, err := NewPublisherWithBus(newMemoryBus(), "")
	assert.ErrorIs(t, err, ErrEmptyInstanceID)
}

func TestNewPublisherWithBus_WithEmptyChannel_ReturnsError(t *testing.T) {
	_, err := NewPublisherWithBus(newMemoryBus(), "inst-1", WithChannel(""))
	assert.ErrorIs(t, err, ErrEmptyChannel)
}

func TestPublisher_PublishEvict_SendsMessageOnChannel(t *testing.T) {
	bus := newMemoryBus()
	pub, err := NewPublisherWithBus(bus, "inst-1", WithChannel("test:invalidation"))
	require.NoError(t, err)

	require.NoError(t, pub.PublishEvict(context.Background(), "users", "42"))

	payloads := bus.publishedOn("test:invalidation")
	require.Len(t, payloads, 1)

	msg, err := Decode(payloads[0])
	require.NoError(t, err)
	assert.Equal(t, TypeEvict, msg.Type)
	assert.Equal(t, "inst-1", msg.SourceInstanceID)
	assert.Equal(t, "users", msg.CacheName)
	assert.Equal(t, "42", msg.Key())
}

func TestPublisher_PublishClear_SendsMessageOnDefaultChannel(t *testing.T) {
	bus := newMemoryBus()
	pub, err := NewPublisherWithBus(bus, "inst-1")
	require.NoError(t, err)

	require.NoError(t, pub.PublishClear(context.Background(), "users"))

	payloads := bus.publishedOn(DefaultChannel)
	require.Len(t, payloads, 1)

	msg, err := Decode(payloads[0])
	require.NoError(t, err)
	assert.Equal(t, TypeClear, msg.Type)
	assert.Nil(t, msg.CacheKey)
}

func TestPublisher_PublishEvict_WithEmptyCacheName_ReturnsError(t *testing.T) {
	pub, err := NewPublisherWithBus(newMemoryBus(), "inst-1")
	require.NoError(t, err)

	assert.ErrorIs(t, pub.PublishEvict(context.Background(), "", "42"), ErrEmptyCacheName)
	assert.ErrorIs(t, pub.PublishClear(context.Background(), ""), ErrEmptyCacheName)
}

func TestPublisher_PublishEvict_PropagatesBusError(t *testing.T) {
	bus := newMemoryBus()
	bus.publishErr = errors.New("connection reset")
	pub, err := NewPublisherWithBus(bus, "inst-1")
	require.NoError(t, err)

	assert.Error(t, pub.PublishEvict(context.Background(), "users", "42"))
}
