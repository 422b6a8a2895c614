package service

import (
	"sync"
	"time"

	"github.com/tapedeck/api/internal/dsp"
)

// BufferCache holds decoded sample buffers so sibling style jobs share
// one decode. Buffers are read-only after insertion; workers must not
// write through them. Entries expire lazily after the retention
// window; a worker that misses the cache re-decodes from the stored
// source bytes.
type BufferCache struct {
	mu      sync.RWMutex
	entries map[string]bufferEntry
	ttl     time.Duration
}

type bufferEntry struct {
	buf       *dsp.SampleBuffer
	expiresAt time.Time
}

func NewBufferCache(ttl time.Duration) *BufferCache {
	return &BufferCache{
		entries: make(map[string]bufferEntry),
		ttl:     ttl,
	}
}

func (c *BufferCache) Put(taskID string, buf *dsp.SampleBuffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[taskID] = bufferEntry{
		buf:       buf,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *BufferCache) Get(taskID string) (*dsp.SampleBuffer, bool) {
	c.mu.RLock()
	e, ok := c.entries[taskID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, taskID)
		c.mu.Unlock()
		return nil, false
	}
	return e.buf, true
}

func (c *BufferCache) Delete(taskID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, taskID)
}
