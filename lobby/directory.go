package lobby

import (
	"sync"

	"puttbot/models"
)

type buttonKey struct {
	channelID string
	variant   models.Variant
}

// StartButton is a posted start affordance
type StartButton struct {
	ChannelID string
	Variant   models.Variant
	MessageID string
}

// Directory holds the pending lobby of each variant and the start buttons
// currently posted, at most one per channel and variant.
type Directory struct {
	mu      sync.Mutex
	pending map[models.Variant]*Lobby
	buttons map[buttonKey]string
}

func NewDirectory() *Directory {
	return &Directory{
		pending: make(map[models.Variant]*Lobby),
		buttons: make(map[buttonKey]string),
	}
}

// Claim makes l the pending lobby of its variant. It fails if another lobby holds the slot.
func (d *Directory) Claim(variant models.Variant, l *Lobby) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if current, ok := d.pending[variant]; ok && current != l {
		return false
	}
	d.pending[variant] = l
	return true
}

// Release frees the slot if l still holds it
func (d *Directory) Release(variant models.Variant, l *Lobby) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending[variant] == l {
		delete(d.pending, variant)
	}
}

func (d *Directory) Pending(variant models.Variant) *Lobby {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending[variant]
}

// PendingLobbies returns every pending lobby
func (d *Directory) PendingLobbies() []*Lobby {
	d.mu.Lock()
	defer d.mu.Unlock()
	lobbies := make([]*Lobby, 0, len(d.pending))
	for _, v := range models.Variants {
		if l, ok := d.pending[v]; ok {
			lobbies = append(lobbies, l)
		}
	}
	return lobbies
}

// AddButton registers a posted start button. It fails if one is already registered for the pair.
func (d *Directory) AddButton(channelID string, variant models.Variant, messageID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := buttonKey{channelID, variant}
	if _, ok := d.buttons[key]; ok {
		return false
	}
	d.buttons[key] = messageID
	return true
}

func (d *Directory) HasButton(channelID string, variant models.Variant) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.buttons[buttonKey{channelID, variant}]
	return ok
}

// TakeButton unregisters the button posted as messageID, reporting whether it was registered
func (d *Directory) TakeButton(channelID string, variant models.Variant, messageID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := buttonKey{channelID, variant}
	if d.buttons[key] != messageID {
		return false
	}
	delete(d.buttons, key)
	return true
}

// DrainButtons unregisters every button and returns them
func (d *Directory) DrainButtons() []StartButton {
	d.mu.Lock()
	defer d.mu.Unlock()
	buttons := make([]StartButton, 0, len(d.buttons))
	for key, msgID := range d.buttons {
		buttons = append(buttons, StartButton{ChannelID: key.channelID, Variant: key.variant, MessageID: msgID})
	}
	d.buttons = make(map[buttonKey]string)
	return buttons
}
