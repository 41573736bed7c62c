// ABOUTME: Repository implementation over Charm KV with type-prefixed keys.
// ABOUTME: state:<user> holds the TrainingState; snapshot:<user>:<week> holds each WeeklySnapshot.
package charm

import (
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
)

var _ storage.Repository = (*Client)(nil)

func stateKey(userID string) string {
	return StatePrefix + url.QueryEscape(userID)
}

func snapshotPrefix(userID string) string {
	return SnapshotPrefix + url.QueryEscape(userID) + ":"
}

// Weeks are zero-padded so keys sort in week order.
func snapshotKey(userID string, week int) string {
	return fmt.Sprintf("%s%06d", snapshotPrefix(userID), week)
}

// CreateState stores the state of a new user.
func (c *Client) CreateState(s *models.TrainingState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok, err := c.lookup(stateKey(s.UserID)); err != nil {
		return fmt.Errorf("create state: %w", err)
	} else if ok {
		return fmt.Errorf("create state %s: %w", s.UserID, storage.ErrStateExists)
	}

	if err := c.putJSON(stateKey(s.UserID), s); err != nil {
		return fmt.Errorf("create state: %w", err)
	}
	c.syncIfEnabled()
	return nil
}

// GetState retrieves a user's state.
func (c *Client) GetState(userID string) (*models.TrainingState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.getState(userID)
}

func (c *Client) getState(userID string) (*models.TrainingState, error) {
	data, ok, err := c.lookup(stateKey(userID))
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("state %s: %w", userID, storage.ErrNotFound)
	}
	s, err := unmarshalJSON[models.TrainingState](data)
	if err != nil {
		return nil, fmt.Errorf("get state: unmarshal: %w", err)
	}
	return s, nil
}

// SaveState overwrites an existing user's state.
func (c *Client) SaveState(s *models.TrainingState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.saveState(s); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

func (c *Client) saveState(s *models.TrainingState) error {
	if _, ok, err := c.lookup(stateKey(s.UserID)); err != nil {
		return fmt.Errorf("save state: %w", err)
	} else if !ok {
		return fmt.Errorf("state %s: %w", s.UserID, storage.ErrNotFound)
	}
	if err := c.putJSON(stateKey(s.UserID), s); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// SaveWeek writes the snapshot, then the state. If the state write fails the
// snapshot is removed again, so a retry can record the same week.
func (c *Client) SaveWeek(s *models.TrainingState, snap *models.WeeklySnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.insertSnapshot(snap); err != nil {
		return fmt.Errorf("save week %d: %w", snap.Week, err)
	}
	if err := c.saveState(s); err != nil {
		_ = c.delete(snapshotKey(snap.UserID, snap.Week))
		return fmt.Errorf("save week %d: %w", snap.Week, err)
	}
	c.syncIfEnabled()
	return nil
}

func (c *Client) insertSnapshot(snap *models.WeeklySnapshot) error {
	key := snapshotKey(snap.UserID, snap.Week)
	if _, ok, err := c.lookup(key); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	} else if ok {
		return fmt.Errorf("snapshot %s week %d: %w", snap.UserID, snap.Week, storage.ErrWeekExists)
	}
	if err := c.putJSON(key, snap); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves one week of a user's history.
func (c *Client) GetSnapshot(userID string, week int) (*models.WeeklySnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok, err := c.lookup(snapshotKey(userID, week))
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("snapshot %s week %d: %w", userID, week, storage.ErrNotFound)
	}
	snap, err := unmarshalJSON[models.WeeklySnapshot](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots retrieves a user's snapshots oldest first.
func (c *Client) ListSnapshots(userID string, limit int) ([]*models.WeeklySnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listSnapshots(userID, limit)
}

func (c *Client) listSnapshots(userID string, limit int) ([]*models.WeeklySnapshot, error) {
	keys, err := c.keysByPrefix(snapshotPrefix(userID))
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	slices.Sort(keys)
	if limit > 0 {
		keys = models.Tail(keys, limit)
	}

	snaps := make([]*models.WeeklySnapshot, 0, len(keys))
	for _, k := range keys {
		data, err := c.kv.Get([]byte(k))
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		snap, err := unmarshalJSON[models.WeeklySnapshot](data)
		if err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// ListUsers returns every user id with a stored state.
func (c *Client) ListUsers() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.keysByPrefix(StatePrefix)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]string, 0, len(keys))
	for _, k := range keys {
		id, err := url.QueryUnescape(strings.TrimPrefix(k, StatePrefix))
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, id)
	}
	slices.Sort(users)
	return users, nil
}

// DeleteUser removes a user's state and history.
func (c *Client) DeleteUser(userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok, err := c.lookup(stateKey(userID)); err != nil {
		return fmt.Errorf("delete user: %w", err)
	} else if !ok {
		return fmt.Errorf("delete user %s: %w", userID, storage.ErrNotFound)
	}

	keys, err := c.keysByPrefix(snapshotPrefix(userID))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	for _, k := range append(keys, stateKey(userID)) {
		if err := c.delete(k); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
	}
	c.syncIfEnabled()
	return nil
}

// GetAllData retrieves a user's state and full history for export.
func (c *Client) GetAllData(userID string) (*storage.ExportData, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, err := c.getState(userID)
	if err != nil {
		return nil, err
	}
	snaps, err := c.listSnapshots(userID, 0)
	if err != nil {
		return nil, err
	}
	return storage.NewExportData(s, snaps), nil
}

// ImportData restores a user from an export file.
func (c *Client) ImportData(data *storage.ExportData) error {
	if data.State == nil {
		return fmt.Errorf("import: missing state")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok, err := c.lookup(stateKey(data.State.UserID)); err != nil {
		return fmt.Errorf("import: %w", err)
	} else if ok {
		return fmt.Errorf("import %s: %w", data.State.UserID, storage.ErrStateExists)
	}

	for _, snap := range data.Snapshots {
		if err := c.insertSnapshot(snap); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	if err := c.putJSON(stateKey(data.State.UserID), data.State); err != nil {
		return fmt.Errorf("import state: %w", err)
	}
	c.syncIfEnabled()
	return nil
}

func (c *Client) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return c.set(key, data)
}
