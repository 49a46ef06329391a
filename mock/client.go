// Package mock provides a scripted client.Client implementation for
// testing the statement execution core without a live server.
package mock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/featherdb/pgdriver/protocol"
)

// Client implements client.Client against a scripted inbound message
// queue. Configure with the With* builders, then inspect the frames the
// code under test sent.
type Client struct {
	// Behavior configuration
	sendErr    error
	receiveErr error
	inbound    []protocol.BackendMessage

	// Call tracking
	sendCalls    atomic.Int32
	receiveCalls atomic.Int32

	mu         sync.Mutex
	pos        int
	sentFrames []protocol.FrontendMessage
	sentBytes  [][]byte
}

// NewClient creates a new mock client with an empty script.
func NewClient() *Client {
	return &Client{}
}

// WithSendError configures the client to return an error on Send.
func (c *Client) WithSendError(err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendErr = err
	return c
}

// WithReceiveError configures the client to return an error on Receive
// once the scripted messages are exhausted.
func (c *Client) WithReceiveError(err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receiveErr = err
	return c
}

// WithInbound appends messages to the scripted inbound queue.
func (c *Client) WithInbound(msgs ...protocol.BackendMessage) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inbound = append(c.inbound, msgs...)
	return c
}

// Send implements client.Client, recording both the frame values and their
// encoded wire bytes.
func (c *Client) Send(ctx context.Context, msgs ...protocol.FrontendMessage) error {
	c.sendCalls.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendErr != nil {
		return c.sendErr
	}
	for _, msg := range msgs {
		c.sentFrames = append(c.sentFrames, msg)
		c.sentBytes = append(c.sentBytes, msg.Encode(nil))
	}
	return nil
}

// Receive implements client.Client, popping the next scripted message.
func (c *Client) Receive(ctx context.Context) (protocol.BackendMessage, error) {
	c.receiveCalls.Add(1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pos >= len(c.inbound) {
		if c.receiveErr != nil {
			return nil, c.receiveErr
		}
		return nil, fmt.Errorf("mock: no scripted inbound message at position %d", c.pos)
	}

	msg := c.inbound[c.pos]
	c.pos++
	return msg, nil
}

// SentFrames returns all frames sent through this client.
func (c *Client) SentFrames() []protocol.FrontendMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	frames := make([]protocol.FrontendMessage, len(c.sentFrames))
	copy(frames, c.sentFrames)
	return frames
}

// SentBytes returns the encoded wire bytes of every sent frame.
func (c *Client) SentBytes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := make([][]byte, len(c.sentBytes))
	copy(history, c.sentBytes)
	return history
}

// SendCallCount returns the number of Send calls.
func (c *Client) SendCallCount() int {
	return int(c.sendCalls.Load())
}

// ReceiveCallCount returns the number of Receive calls.
func (c *Client) ReceiveCallCount() int {
	return int(c.receiveCalls.Load())
}

// RemainingInbound returns the number of scripted messages not yet
// consumed.
func (c *Client) RemainingInbound() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inbound) - c.pos
}

// Reset clears the script, histories and call counts.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sendErr = nil
	c.receiveErr = nil
	c.inbound = nil
	c.pos = 0
	c.sentFrames = nil
	c.sentBytes = nil

	c.sendCalls.Store(0)
	c.receiveCalls.Store(0)
}
