// ABOUTME: Charm KV client wrapper for coaching state storage.
// ABOUTME: Provides thread-safe initialization and automatic cloud sync.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
)

const (
	DBName    = "coach"
	charmHost = "charm.2389.dev"

	StatePrefix    = "state:"
	SnapshotPrefix = "snapshot:"
)

// ErrReadOnly is returned for writes while another process holds the database lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Store is the subset of *kv.KV the client uses.
type Store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
	IsReadOnly() bool
	Close() error
}

var _ Store = (*kv.KV)(nil)

type Client struct {
	kv       Store
	autoSync bool
	mu       sync.RWMutex
}

// InitClient initializes the global Charm client.
// Thread-safe; can be called multiple times.
func InitClient() (*Client, error) {
	clientOnce.Do(func() {
		if os.Getenv("CHARM_HOST") == "" {
			if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
				clientErr = err
				return
			}
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = &Client{
			kv:       db,
			autoSync: true,
		}

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
}

// NewWithStore wraps an already opened store. Auto-sync starts disabled.
func NewWithStore(s Store) *Client {
	return &Client{kv: s}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// set stores a value with the given key. Callers hold c.mu.
func (c *Client) set(key string, data []byte) error {
	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	return c.kv.Set([]byte(key), data)
}

// delete removes a key. Callers hold c.mu.
func (c *Client) delete(key string) error {
	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	return c.kv.Delete([]byte(key))
}

// lookup returns the value stored at key, reporting false when absent. Callers hold c.mu.
func (c *Client) lookup(key string) ([]byte, bool, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, false, err
	}
	want := []byte(key)
	for _, k := range keys {
		if bytes.Equal(k, want) {
			val, err := c.kv.Get(k)
			if err != nil {
				return nil, false, err
			}
			return val, true, nil
		}
	}
	return nil, false, nil
}

// keysByPrefix returns every key starting with prefix. Callers hold c.mu.
func (c *Client) keysByPrefix(prefix string) ([]string, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	var out []string
	prefixBytes := []byte(prefix)
	for _, k := range keys {
		if bytes.HasPrefix(k, prefixBytes) {
			out = append(out, string(k))
		}
	}
	return out, nil
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
