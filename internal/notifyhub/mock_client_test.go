package notifyhub_test

import (
	"sync"

	"socialite/backend/internal/models"
)

// mockClient is an in-memory Client for hub tests. Its buffer size controls
// how the hub's non-blocking send behaves.
type mockClient struct {
	userID string
	Recv   chan models.Notification

	mu     sync.Mutex
	closed bool
}

func newMockClient(userID string, buffer int) *mockClient {
	return &mockClient{
		userID: userID,
		Recv:   make(chan models.Notification, buffer),
	}
}

func (c *mockClient) GetUserID() string { return c.userID }

func (c *mockClient) GetSendChannel() chan<- models.Notification { return c.Recv }

func (c *mockClient) Run() {}

func (c *mockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *mockClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
