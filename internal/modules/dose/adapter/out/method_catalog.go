package out

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"doser/internal/modules/dose/domain"
	doseout "doser/internal/modules/dose/port/out"
	apperrors "doser/internal/platform/errors"
)

type methodFile struct {
	Methods []methodEntry `yaml:"methods"`
}

type methodEntry struct {
	Key      string `yaml:"key"`
	Name     string `yaml:"name"`
	Onset    string `yaml:"onset"`
	Duration string `yaml:"duration"`
}

// MethodCatalog serves the built-in ingestion methods plus any defined in
// a YAML file. File entries replace built-ins that share their key.
type MethodCatalog struct {
	methods []domain.IngestionMethod
}

func NewBuiltinMethodCatalog() *MethodCatalog {
	return &MethodCatalog{methods: domain.BuiltinMethods()}
}

// NewFileMethodCatalog reads extra methods from path. A missing file
// yields the built-ins only.
func NewFileMethodCatalog(path string) (doseout.MethodCatalog, error) {
	catalog := NewBuiltinMethodCatalog()
	if path == "" {
		return catalog, nil
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog, nil
		}
		return nil, fmt.Errorf("read methods file: %w", err)
	}
	if err := catalog.merge(payload); err != nil {
		return nil, fmt.Errorf("methods file %s: %w", path, err)
	}
	return catalog, nil
}

func (c *MethodCatalog) merge(payload []byte) error {
	decoded := methodFile{}
	if err := yaml.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("unmarshal methods: %w", err)
	}
	for _, entry := range decoded.Methods {
		method, err := entry.toDomain()
		if err != nil {
			return err
		}
		if idx := c.index(method.Key); idx >= 0 {
			c.methods[idx] = method
			continue
		}
		c.methods = append(c.methods, method)
	}
	return nil
}

func (e methodEntry) toDomain() (domain.IngestionMethod, error) {
	key := normalizeKey(e.Key)
	onset, err := parseDuration(e.Onset)
	if err != nil {
		return domain.IngestionMethod{}, fmt.Errorf("method %q onset: %w", key, err)
	}
	duration, err := parseDuration(e.Duration)
	if err != nil {
		return domain.IngestionMethod{}, fmt.Errorf("method %q duration: %w", key, err)
	}
	method := domain.IngestionMethod{Key: key, Name: strings.TrimSpace(e.Name), Onset: onset, Duration: duration}
	if err := method.Validate(); err != nil {
		return domain.IngestionMethod{}, err
	}
	return method, nil
}

func (c *MethodCatalog) Lookup(_ context.Context, key string) (domain.IngestionMethod, error) {
	if idx := c.index(normalizeKey(key)); idx >= 0 {
		return c.methods[idx], nil
	}
	return domain.IngestionMethod{}, fmt.Errorf("%q: %w", key, apperrors.ErrUnknownMethod)
}

func (c *MethodCatalog) List(_ context.Context) ([]domain.IngestionMethod, error) {
	out := make([]domain.IngestionMethod, len(c.methods))
	copy(out, c.methods)
	return out, nil
}

func (c *MethodCatalog) index(key string) int {
	for i, m := range c.methods {
		if m.Key == key {
			return i
		}
	}
	return -1
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}
