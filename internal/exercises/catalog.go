package exercises

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Catalog keeps a local copy of the exercise list in sync with a Store.
// The list stays in the order the store returned it (by name), with
// locally added entries appended at the end.
type Catalog struct {
	store Store

	mutex     sync.Mutex
	exercises []Exercise
}

func NewCatalog(store Store) *Catalog {
	return &Catalog{
		store:     store,
		exercises: []Exercise{},
	}
}

func (c *Catalog) Fetch(ctx context.Context) ([]Exercise, error) {
	exercises, err := c.store.List(ctx)
	if err != nil {
		log.Errorf("catalog, fetch exercises: %s", err)
		return nil, fmt.Errorf("fetch exercises: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.exercises = append(make([]Exercise, 0, len(exercises)), exercises...)

	return c.snapshot(), nil
}

func (c *Catalog) Add(ctx context.Context, name, category string) (Exercise, error) {
	added, err := c.store.Add(ctx, name, category)
	if err != nil {
		log.Errorf("catalog, add exercise [%s]: %s", name, err)
		return Exercise{}, fmt.Errorf("add exercise: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.exercises = append(c.exercises, *added)

	return *added, nil
}

func (c *Catalog) Update(ctx context.Context, id int, name, category string) error {
	updated := Exercise{
		ID:       id,
		Name:     name,
		Category: category,
	}
	if err := c.store.Update(ctx, updated); err != nil {
		log.Errorf("catalog, update exercise %d: %s", id, err)
		return fmt.Errorf("update exercise: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	for i := range c.exercises {
		if c.exercises[i].ID == id {
			c.exercises[i] = updated
			break
		}
	}

	return nil
}

func (c *Catalog) Delete(ctx context.Context, id int) error {
	if err := c.store.Delete(ctx, id); err != nil {
		log.Errorf("catalog, delete exercise %d: %s", id, err)
		return fmt.Errorf("delete exercise: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	kept := c.exercises[:0]
	for _, e := range c.exercises {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	c.exercises = kept

	return nil
}

// Exercises returns a copy of the locally held list.
func (c *Catalog) Exercises() []Exercise {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.snapshot()
}

func (c *Catalog) Find(id int) (Exercise, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, e := range c.exercises {
		if e.ID == id {
			return e, true
		}
	}
	return Exercise{}, false
}

func (c *Catalog) snapshot() []Exercise {
	return append(make([]Exercise, 0, len(c.exercises)), c.exercises...)
}
