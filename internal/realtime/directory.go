// Package realtime pushes created-record events to every live connection
// belonging to the owning user. Delivery is best-effort, at-most-once per
// connection, with no replay for connections that are offline at publish
// time.
package realtime

import "sync"

// Directory maps a user identity to the set of connections currently bound
// to it. A connection is bound once its user announces itself and dropped
// implicitly on disconnect. The directory is injected wherever fan-out is
// needed; there is no ambient singleton.
type Directory struct {
	mu    sync.RWMutex
	byUser map[int64]map[*Client]struct{}
	users  map[*Client]int64
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		byUser: make(map[int64]map[*Client]struct{}),
		users:  make(map[*Client]int64),
	}
}

// Bind registers a connection under a user identity. Rebinding to a new
// identity moves the connection; binding the same pair twice is a no-op.
func (d *Directory) Bind(c *Client, userID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.users[c]; ok {
		if prev == userID {
			return
		}
		d.removeLocked(c, prev)
	}

	set, ok := d.byUser[userID]
	if !ok {
		set = make(map[*Client]struct{})
		d.byUser[userID] = set
	}
	set[c] = struct{}{}
	d.users[c] = userID
}

// Drop removes a connection's binding, if any.
func (d *Directory) Drop(c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if userID, ok := d.users[c]; ok {
		d.removeLocked(c, userID)
	}
}

func (d *Directory) removeLocked(c *Client, userID int64) {
	if set, ok := d.byUser[userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(d.byUser, userID)
		}
	}
	delete(d.users, c)
}

// Connections returns a snapshot of the connections bound to userID.
func (d *Directory) Connections(userID int64) []*Client {
	d.mu.RLock()
	defer d.mu.RUnlock()

	set := d.byUser[userID]
	if len(set) == 0 {
		return nil
	}
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// UserOf returns the identity a connection is bound to, if any.
func (d *Directory) UserOf(c *Client) (int64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	userID, ok := d.users[c]
	return userID, ok
}
