package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	doseout "doser/internal/modules/dose/adapter/out"
	"doser/internal/modules/dose/domain"
	apperrors "doser/internal/platform/errors"
)

func writeMethods(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "methods.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write methods file: %v", err)
	}
	return path
}

func TestBuiltinCatalogLookup(t *testing.T) {
	t.Parallel()
	catalog := doseout.NewBuiltinMethodCatalog()
	m, err := catalog.Lookup(context.Background(), " Dry-Herb ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if m != domain.DryHerb {
		t.Fatalf("unexpected method %+v", m)
	}
	if _, err := catalog.Lookup(context.Background(), "smoke-signal"); !errors.Is(err, apperrors.ErrUnknownMethod) {
		t.Fatalf("expected unknown method error, got %v", err)
	}
}

func TestFileCatalogAddsAndOverridesMethods(t *testing.T) {
	t.Parallel()
	path := writeMethods(t, `methods:
  - key: vape
    name: Vape
    onset: 5m
    duration: 90m
  - key: edible
    name: Strong Edible
    onset: 1h30m
    duration: 8h
`)
	catalog, err := doseout.NewFileMethodCatalog(path)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	methods, err := catalog.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(methods) != len(domain.BuiltinMethods())+1 {
		t.Fatalf("expected one extra method, got %d", len(methods))
	}
	edible, err := catalog.Lookup(context.Background(), "edible")
	if err != nil {
		t.Fatalf("lookup edible: %v", err)
	}
	if edible.Name != "Strong Edible" || edible.Onset != 90*time.Minute || edible.Duration != 8*time.Hour {
		t.Fatalf("override not applied: %+v", edible)
	}
	vape, err := catalog.Lookup(context.Background(), "VAPE")
	if err != nil {
		t.Fatalf("lookup vape: %v", err)
	}
	if vape.Onset != 5*time.Minute || vape.Duration != 90*time.Minute {
		t.Fatalf("unexpected vape %+v", vape)
	}
}

func TestFileCatalogMissingFileFallsBackToBuiltins(t *testing.T) {
	t.Parallel()
	catalog, err := doseout.NewFileMethodCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	methods, _ := catalog.List(context.Background())
	if len(methods) != len(domain.BuiltinMethods()) {
		t.Fatalf("expected builtins only, got %d", len(methods))
	}
}

func TestFileCatalogRejectsInvalidEntries(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"negative onset": "methods:\n  - key: x\n    name: X\n    onset: -5m\n    duration: 1h\n",
		"bad duration":   "methods:\n  - key: x\n    name: X\n    onset: 5m\n    duration: soon\n",
		"missing name":   "methods:\n  - key: x\n    onset: 5m\n",
		"not yaml":       "methods: [",
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := doseout.NewFileMethodCatalog(writeMethods(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
