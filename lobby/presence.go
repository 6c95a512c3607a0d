package lobby

import (
	"sort"
	"sync"
)

// Presence tracks which users currently occupy a lobby
type Presence struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewPresence() *Presence {
	return &Presence{active: make(map[string]struct{})}
}

func (p *Presence) IsActive(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.active[userID]
	return ok
}

// Activate marks a user active, returning false if they already were
func (p *Presence) Activate(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.active[userID]; ok {
		return false
	}
	p.active[userID] = struct{}{}
	return true
}

func (p *Presence) Deactivate(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.active, userID)
}

func (p *Presence) DeactivateMany(userIDs []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range userIDs {
		delete(p.active, id)
	}
}

func (p *Presence) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = make(map[string]struct{})
}

// Snapshot returns the active users in sorted order
func (p *Presence) Snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.active))
	for id := range p.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
