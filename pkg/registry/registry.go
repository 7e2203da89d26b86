// Package registry maps type ids to object factories. Each object family
// (codec, table factory, storage provider) registers its implementations
// under a family name; the options framework resolves "id" strings through
// a Registry when loading customizable fields.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/edouarda/rocksdb-cloud/pkg/errors"
	"github.com/edouarda/rocksdb-cloud/pkg/logger"
	"github.com/edouarda/rocksdb-cloud/pkg/metrics"
	"github.com/edouarda/rocksdb-cloud/pkg/options"
)

// Factory builds a fresh, unconfigured object for one type id.
type Factory func(id string) (options.Customizable, error)

// Registry manages object factories keyed by family and type id. It
// implements options.ObjectFactory, so it can be carried on a ConfigOptions
// session directly.
type Registry struct {
	factories map[string]map[string]Factory
	mu        sync.RWMutex
	logger    *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates an empty object registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]map[string]Factory),
		logger:    logger.Get().With(zap.String("component", "object_registry")),
	}
}

// Register adds a factory for the given family and type id.
func (r *Registry) Register(objType, id string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	family, ok := r.factories[objType]
	if !ok {
		family = make(map[string]Factory)
		r.factories[objType] = family
	}
	if _, exists := family[id]; exists {
		return errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("object %s/%s already registered", objType, id))
	}

	family[id] = factory
	r.logger.Info("object factory registered",
		zap.String("type", objType), zap.String("id", id))
	return nil
}

// NewObject builds a fresh object of the given family whose type id matches
// id exactly. An unknown id is a not-supported error so that tolerant
// sessions can skip it.
func (r *Registry) NewObject(objType, id string) (options.Customizable, error) {
	r.mu.RLock()
	factory, exists := r.factories[objType][id]
	r.mu.RUnlock()

	if !exists {
		metrics.ObjectFailures.WithLabelValues(objType, "unknown_id").Inc()
		return nil, errors.NotSupported(
			fmt.Sprintf("no factory for %s object", objType), id)
	}

	object, err := factory(id)
	if err != nil {
		metrics.ObjectFailures.WithLabelValues(objType, "factory_error").Inc()
		return nil, errors.Wrap(err, errors.ErrorTypeDependency,
			fmt.Sprintf("failed to create %s object %s", objType, id))
	}

	metrics.ObjectsCreated.WithLabelValues(objType, id).Inc()
	return object, nil
}

// Has checks whether a factory is registered for the family and id.
func (r *Registry) Has(objType, id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[objType][id]
	return exists
}

// List returns the sorted type ids registered under a family.
func (r *Registry) List(objType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.factories[objType]))
	for id := range r.factories[objType] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Types returns the sorted family names with at least one factory.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for objType := range r.factories {
		types = append(types, objType)
	}
	sort.Strings(types)
	return types
}

// Clear removes all registered factories (mainly for testing).
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = make(map[string]map[string]Factory)
}

// Global registry functions

// Register adds a factory to the global registry.
func Register(objType, id string, factory Factory) error {
	return globalRegistry.Register(objType, id, factory)
}

// MustRegister adds a factory to the global registry and panics on conflict.
// Intended for package init blocks.
func MustRegister(objType, id string, factory Factory) {
	if err := globalRegistry.Register(objType, id, factory); err != nil {
		panic(err)
	}
}

// NewObject builds an object from the global registry.
func NewObject(objType, id string) (options.Customizable, error) {
	return globalRegistry.NewObject(objType, id)
}

// Has checks the global registry for a factory.
func Has(objType, id string) bool {
	return globalRegistry.Has(objType, id)
}

// List returns the global registry's type ids for a family.
func List(objType string) []string {
	return globalRegistry.List(objType)
}

// Types returns the global registry's family names.
func Types() []string {
	return globalRegistry.Types()
}

// Default returns the global registry instance.
func Default() *Registry {
	return globalRegistry
}
