package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/oakwood-commons/zkx/internal/formatter"
	"github.com/oakwood-commons/zkx/internal/store"
	"github.com/oakwood-commons/zkx/pkg/loader"
)

const demoToken = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
	"eyJzdWIiOiJiaWxsaW5nLXN2YyIsImlzcyI6InpreC1kZW1vIiwiZXhwIjoxOTI0OTkyMDAwfQ.c2lnbmF0dXJl"

// demoTree is the tree served by --memory without --seed.
func demoTree() *store.Memory {
	return store.NewMemory().
		Seed("/zookeeper/quota", nil).
		Seed("/app/config", []byte(`{"name":"billing","replicas":3,"regions":["eu-west-1","us-east-1"],"debug":false}`)).
		Seed("/app/features", []byte("checkout:\n  enabled: true\n  rollout: 25\nsearch:\n  enabled: false\n")).
		Seed("/app/limits.toml", []byte("[http]\nmax_conns = 512\ntimeout = \"30s\"\n")).
		Seed("/app/token", []byte(demoToken)).
		Seed("/services/api/instances/i-0001", []byte(`{"host":"10.0.1.12","port":8080}`)).
		Seed("/services/api/instances/i-0002", []byte(`{"host":"10.0.1.13","port":8080}`)).
		Seed("/services/api/leader", []byte("i-0001")).
		Seed("/binary", []byte{0x00, 0x01, 0xfe, 0xff})
}

// offlineTree returns the demo tree, or a tree built from the document at
// path when one is given.
func offlineTree(path string) (*store.Memory, error) {
	if path == "" {
		return demoTree(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	root, _, err := loader.LoadPayload(data)
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("seed file %s: top level must be a mapping, got %T", path, root)
	}
	mem := store.NewMemory()
	if err := seedMap(mem, "", obj); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return mem, nil
}

// seedMap turns mappings into nodes. Strings are stored as-is and other
// scalars or lists as JSON. Keys are sorted so the listing order is stable.
func seedMap(mem *store.Memory, parent string, obj map[string]any) error {
	names := make([]string, 0, len(obj))
	for k := range obj {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("invalid node name %q under %q", name, parent+"/")
		}
		p := parent + "/" + name
		switch v := obj[name].(type) {
		case map[string]any:
			mem.Seed(p, nil)
			if err := seedMap(mem, p, v); err != nil {
				return err
			}
		case nil:
			mem.Seed(p, nil)
		case string:
			mem.Seed(p, []byte(v))
		default:
			b, err := formatter.MarshalJSON(v, "")
			if err != nil {
				return fmt.Errorf("encode %s: %w", p, err)
			}
			mem.Seed(p, b)
		}
	}
	return nil
}
