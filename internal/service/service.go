package service

import (
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Broadcaster pushes realtime updates to connected barista screens.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// AddonSelection picks an addon and how many of it go on a line.
type AddonSelection struct {
	AddonID  uint `json:"addon_id"`
	Quantity int  `json:"quantity"`
}

func addonIDs(selections []AddonSelection) []uint {
	ids := make([]uint, 0, len(selections))
	for _, s := range selections {
		ids = append(ids, s.AddonID)
	}
	return ids
}
