package services

import (
	"time"

	"github.com/ghuser/livebid/services/auction/domain/models"
)

type lot struct {
	id            string
	title         string
	startingPrice float64
}

var defaultLots = []lot{
	{"item-1", "Vintage Rolex Submariner", 5000},
	{"item-2", "Limited Art Print", 200},
	{"item-3", "Rare Comic #1", 1000},
}

// DefaultLots returns the demo catalogue. The first lot closes duration
// after start and each following lot closes stagger later.
func DefaultLots(start time.Time, duration, stagger time.Duration) []*models.Item {
	items := make([]*models.Item, 0, len(defaultLots))
	for i, l := range defaultLots {
		end := start.Add(duration + time.Duration(i)*stagger)
		items = append(items, models.NewItem(l.id, l.title, l.startingPrice, end))
	}
	return items
}
