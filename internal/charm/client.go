// ABOUTME: Charm KV client wrapper for the food and exercise log.
// ABOUTME: Provides thread-safe initialization, prefix lookup, and automatic cloud sync.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlog/internal/storage"
)

const (
	// DBName is the Charm KV database holding all fitlog data.
	DBName    = "fitlog"
	charmHost = "charm.2389.dev"

	FoodPrefix              = "food:"
	ExercisePrefix          = "exercise:"
	FoodEatenPrefix         = "food_eaten:"
	ExercisePerformedPrefix = "exercise_performed:"
)

// ErrReadOnly is returned by writes while another process holds the KV lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client stores catalog and log entries as JSON values under type-prefixed
// keys. It implements storage.Repository.
type Client struct {
	kv       *kv.KV
	autoSync bool
	mu       sync.RWMutex
	logger   *log.Logger
}

// Compile-time check that Client implements storage.Repository.
var _ storage.Repository = (*Client)(nil)

// InitClient initializes the global Charm client.
// Thread-safe; can be called multiple times.
func InitClient() (*Client, error) {
	clientOnce.Do(func() {
		// Set server before opening KV
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
			logger:   log.Default(),
		}

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			if err := db.Sync(); err != nil {
				globalClient.logger.Warn("initial charm sync failed", "err", err)
			}
		}
	})

	return globalClient, clientErr
}

// GetClient returns the global client, initializing if needed.
func GetClient() (*Client, error) {
	return InitClient()
}

// SetLogger replaces the logger used for sync and decode warnings.
func (c *Client) SetLogger(logger *log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if logger != nil {
		c.logger = logger
	}
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

// The helpers below expect the caller to hold c.mu.

// syncIfEnabled calls Sync if autoSync is enabled.
func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		if err := c.kv.Sync(); err != nil {
			c.logger.Warn("charm sync failed", "err", err)
		}
	}
}

// put stores a value with the given key.
func (c *Client) put(key string, data []byte) error {
	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Set([]byte(key), data); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// remove deletes a key.
func (c *Client) remove(key string) error {
	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Delete([]byte(key)); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// scan returns every key under prefix with its value.
func (c *Client) scan(prefix string) (map[string][]byte, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	results := make(map[string][]byte)
	prefixBytes := []byte(prefix)
	for _, key := range keys {
		if !bytes.HasPrefix(key, prefixBytes) {
			continue
		}
		val, err := c.kv.Get(key)
		if err != nil {
			return nil, err
		}
		results[string(key)] = val
	}
	return results, nil
}

// lookup resolves an ID or unique ID prefix under typePrefix to its key and value.
func (c *Client) lookup(typePrefix, idOrPrefix string) (string, []byte, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return "", nil, err
	}
	key, err := matchKey(keys, typePrefix, idOrPrefix)
	if err != nil {
		return "", nil, err
	}
	val, err := c.kv.Get([]byte(key))
	if err != nil {
		return "", nil, err
	}
	return key, val, nil
}

// exists reports whether key is present.
func (c *Client) exists(key string) (bool, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return false, err
	}
	for _, k := range keys {
		if string(k) == key {
			return true, nil
		}
	}
	return false, nil
}

// matchKey finds the single key under typePrefix whose ID starts with idOrPrefix.
func matchKey(keys [][]byte, typePrefix, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", storage.ErrNotFound)
	}

	searchPrefix := []byte(typePrefix + strings.ToLower(idOrPrefix))
	var matches []string
	for _, key := range keys {
		if bytes.HasPrefix(key, searchPrefix) {
			matches = append(matches, string(key))
			if len(matches) > 1 {
				return "", fmt.Errorf("%w: %s", storage.ErrAmbiguousPrefix, idOrPrefix)
			}
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, idOrPrefix)
	}
	return matches[0], nil
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// decodeAll unmarshals every value in key order, logging and skipping
// entries that fail.
func decodeAll[T any](logger *log.Logger, values map[string][]byte) []*T {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	results := make([]*T, 0, len(values))
	for _, key := range keys {
		v, err := unmarshalJSON[T](values[key])
		if err != nil {
			logger.Warn("skipping undecodable entry", "key", key, "err", err)
			continue
		}
		results = append(results, v)
	}
	return results
}

// marshalJSON is a helper to marshal data to JSON.
func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// extractID extracts the ID portion from a prefixed key.
func extractID(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}
