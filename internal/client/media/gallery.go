package media

import "github.com/dmitrijs2005/gophtimeline/internal/client/models"

// Gallery is an ordered media list with unique ids. It is not safe for
// concurrent use.
type Gallery struct {
	items []models.MediaDescriptor
}

func NewGallery(items ...models.MediaDescriptor) *Gallery {
	g := &Gallery{}
	g.Add(items...)
	return g
}

// Add appends items whose id is not already present and returns how many
// were added.
func (g *Gallery) Add(items ...models.MediaDescriptor) int {
	n := 0
	for _, it := range items {
		if it.ID == "" || g.Contains(it.ID) {
			continue
		}
		g.items = append(g.items, it.Clone())
		n++
	}
	return n
}

// Remove drops id from the gallery. Remote media is left untouched.
func (g *Gallery) Remove(id string) bool {
	for i, it := range g.items {
		if it.ID == id {
			g.items = append(g.items[:i], g.items[i+1:]...)
			return true
		}
	}
	return false
}

func (g *Gallery) Contains(id string) bool {
	_, ok := g.Get(id)
	return ok
}

func (g *Gallery) Get(id string) (models.MediaDescriptor, bool) {
	for _, it := range g.items {
		if it.ID == id {
			return it.Clone(), true
		}
	}
	return models.MediaDescriptor{}, false
}

func (g *Gallery) IDs() []string {
	ids := make([]string, 0, len(g.items))
	for _, it := range g.items {
		ids = append(ids, it.ID)
	}
	return ids
}

// Items returns a copy of the gallery.
func (g *Gallery) Items() []models.MediaDescriptor {
	out := make([]models.MediaDescriptor, len(g.items))
	for i, it := range g.items {
		out[i] = it.Clone()
	}
	return out
}

func (g *Gallery) Len() int { return len(g.items) }
