package core

// members is the set of clients currently subscribed to one room.
type members map[*Client]struct{}

// add inserts a client. Returns true if newly added.
func (m members) add(c *Client) bool {
	if _, exists := m[c]; exists {
		return false
	}
	m[c] = struct{}{}
	return true
}

// remove deletes a client. Returns true if removed.
func (m members) remove(c *Client) bool {
	if _, exists := m[c]; !exists {
		return false
	}
	delete(m, c)
	return true
}

// broadcast sends ev to every member except skip and returns how many
// deliveries were dropped because a client's buffer was full.
func (m members) broadcast(ev *Event, skip *Client) int {
	dropped := 0
	for c := range m {
		if c == skip {
			continue
		}
		if !deliver(c, ev) {
			dropped++
		}
	}
	return dropped
}

func deliver(c *Client, ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		// Drop if slow consumer.
		return false
	}
}
