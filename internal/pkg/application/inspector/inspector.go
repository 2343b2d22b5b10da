package inspector

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/diwise/explorable/internal/pkg/fixtures"
	"github.com/diwise/explorable/pkg/explorable"
	"github.com/diwise/explorable/pkg/ngsild"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
)

type Lister interface {
	ListExplorables(ctx context.Context) []Summary
}

type Retriever interface {
	RetrieveExplorable(ctx context.Context, name string) (explorable.Explorer, error)
}

type PropertyReader interface {
	ReadProperty(ctx context.Context, name, property string) (any, error)
}

type PropertyWriter interface {
	WriteProperty(ctx context.Context, name, property string, value any) error
}

type Dumper interface {
	DumpExplorable(ctx context.Context, name string) (*explorable.Tree, error)
	ExplorableTree(ctx context.Context, name string, recursive bool) (*explorable.Tree, error)
}

type EntityRenderer interface {
	ExplorableEntity(ctx context.Context, name string, decorators ...ngsild.EntityDecoratorFunc) (*ngsild.Entity, error)
}

type Inspector interface {
	Lister
	Retriever
	PropertyReader
	PropertyWriter
	Dumper
	EntityRenderer
}

// Summary describes a catalogued explorable without reading any of its values.
type Summary struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Properties []string `json:"properties"`
	Count      int      `json:"count"`
}

// Catalog holds named explorable instances and implements Inspector over them.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]explorable.Explorer

	// access serializes every read and write that reaches an entity, since
	// reads may compute and cache values.
	access sync.Mutex
}

func NewCatalog() *Catalog {
	return &Catalog{
		entries: map[string]explorable.Explorer{},
	}
}

// Add stores entity under name, or under a generated name if name is empty,
// and returns the name used.
func (c *Catalog) Add(name string, entity explorable.Explorer) (string, error) {
	if entity == nil || explorable.IsNil(entity) || entity.ExplorableView() == nil {
		return "", fmt.Errorf("cannot add %s: %w", name, explorable.ErrNotExplorable)
	}

	if name == "" {
		name = uuid.NewString()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; ok {
		return "", NewAlreadyExistsError(name)
	}

	c.entries[name] = entity
	return name, nil
}

func (c *Catalog) ListExplorables(ctx context.Context) []Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summaries := make([]Summary, 0, len(c.entries))
	for name, entity := range c.entries {
		v := entity.ExplorableView()
		summaries = append(summaries, Summary{
			Name:       name,
			Type:       v.TypeName(),
			Properties: v.Names(),
			Count:      v.Len(),
		})
	}

	slices.SortFunc(summaries, func(a, b Summary) int {
		return strings.Compare(a.Name, b.Name)
	})

	return summaries
}

func (c *Catalog) RetrieveExplorable(ctx context.Context, name string) (explorable.Explorer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entity, ok := c.entries[name]
	if !ok {
		return nil, NewNotFoundError(name)
	}

	return entity, nil
}

func (c *Catalog) ReadProperty(ctx context.Context, name, property string) (any, error) {
	entity, err := c.RetrieveExplorable(ctx, name)
	if err != nil {
		return nil, err
	}

	c.access.Lock()
	defer c.access.Unlock()

	return entity.ExplorableView().Get(property)
}

func (c *Catalog) WriteProperty(ctx context.Context, name, property string, value any) error {
	entity, err := c.RetrieveExplorable(ctx, name)
	if err != nil {
		return err
	}

	c.access.Lock()
	defer c.access.Unlock()

	err = entity.ExplorableView().Set(property, value)
	if err != nil {
		return err
	}

	logging.GetFromContext(ctx).Info("property written",
		slog.String("name", name),
		slog.String("property", property),
	)

	return nil
}

func (c *Catalog) ExplorableTree(ctx context.Context, name string, recursive bool) (*explorable.Tree, error) {
	entity, err := c.RetrieveExplorable(ctx, name)
	if err != nil {
		return nil, err
	}

	c.access.Lock()
	defer c.access.Unlock()

	return entity.ExplorableView().ToTree(recursive)
}

// ExplorableEntity renders the named explorable as an NGSI-LD entity. Its id
// defaults to urn:ngsi-ld:<type>:<name>.
func (c *Catalog) ExplorableEntity(ctx context.Context, name string, decorators ...ngsild.EntityDecoratorFunc) (*ngsild.Entity, error) {
	entity, err := c.RetrieveExplorable(ctx, name)
	if err != nil {
		return nil, err
	}

	entityType := entity.ExplorableView().Schema().Type().Name()
	decorators = append([]ngsild.EntityDecoratorFunc{
		ngsild.ID(fmt.Sprintf("urn:ngsi-ld:%s:%s", entityType, name)),
	}, decorators...)

	c.access.Lock()
	defer c.access.Unlock()

	return ngsild.FromExplorable(entity, decorators...)
}

// DumpExplorable never fails for a catalogued name. Properties that cannot be
// read show up as error strings in the returned tree.
func (c *Catalog) DumpExplorable(ctx context.Context, name string) (*explorable.Tree, error) {
	entity, err := c.RetrieveExplorable(ctx, name)
	if err != nil {
		return nil, err
	}

	c.access.Lock()
	defer c.access.Unlock()

	return entity.ExplorableView().DumpContext(ctx), nil
}

// Seed adds the explorables described in cfg to the catalog.
func Seed(ctx context.Context, c *Catalog, cfg *Config) error {
	log := logging.GetFromContext(ctx)

	for _, ec := range cfg.Explorables {
		entity, err := fixtures.New(ec.Kind, ec.Values)
		if err != nil {
			return fmt.Errorf("failed to create explorable %s: %w", ec.Name, err)
		}

		name, err := c.Add(ec.Name, entity)
		if err != nil {
			return err
		}

		log.Debug("added explorable to catalog",
			slog.String("name", name),
			slog.String("kind", ec.Kind),
			slog.Any("entity", entity.ExplorableView()),
		)
	}

	return nil
}
