package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/edgerouter/edgerouter/routing"
)

// rawSpec mirrors routing.Spec's wire shape. Hooks are never present in
// a serialized document (routing.Spec's RewriteRequest/RewriteResponse
// fields are left nil); only LoadHook, called separately, can attach
// those to a Spec.
type rawSpec struct {
	Target          interface{} `json:"target" yaml:"target"`
	Priority        *int        `json:"priority,omitempty" yaml:"priority,omitempty"`
	Hostnames       []string    `json:"hostnames,omitempty" yaml:"hostnames,omitempty"`
	Secure          bool        `json:"secure,omitempty" yaml:"secure,omitempty"`
	WebSocket       bool        `json:"webSocket,omitempty" yaml:"webSocket,omitempty"`
	IgnoreProxiedIP bool        `json:"ignoreProxiedIP,omitempty" yaml:"ignoreProxiedIP,omitempty"`
	ContentType     string      `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	EnableCORS      bool        `json:"enableCors,omitempty" yaml:"enableCors,omitempty"`
	AllowedCIDRs    []string    `json:"allowedCidrs,omitempty" yaml:"allowedCidrs,omitempty"`
}

func (r rawSpec) toTarget() (routing.Target, error) {
	switch t := r.Target.(type) {
	case string:
		if strings.HasPrefix(t, "file:") {
			return routing.Target{Kind: routing.TargetFile, File: strings.TrimPrefix(t, "file:")}, nil
		}
		return routing.Target{Kind: routing.TargetRemote, Remote: t}, nil
	case []interface{}:
		pool := make([]string, 0, len(t))
		for _, v := range t {
			s, ok := v.(string)
			if !ok {
				return routing.Target{}, fmt.Errorf("pool target entries must be strings, got %T", v)
			}
			pool = append(pool, s)
		}
		return routing.Target{Kind: routing.TargetPool, Pool: pool}, nil
	default:
		return routing.Target{}, fmt.Errorf("unsupported target value %v (%T)", r.Target, r.Target)
	}
}

func (r rawSpec) toEntry(pattern string) (routing.Entry, error) {
	target, err := r.toTarget()
	if err != nil {
		return routing.Entry{}, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	spec := &routing.Spec{
		Pattern:         pattern,
		Target:          target,
		Priority:        r.Priority,
		Hostnames:       r.Hostnames,
		Secure:          r.Secure,
		WebSocket:       r.WebSocket,
		IgnoreProxiedIP: r.IgnoreProxiedIP,
		ContentType:     r.ContentType,
		EnableCORS:      r.EnableCORS,
		AllowedCIDRs:    r.AllowedCIDRs,
	}
	return routing.Entry{Pattern: pattern, Spec: spec}, nil
}

// orderedEntries accumulates (pattern, Entry) pairs in a stable order,
// supporting upsert-by-pattern: a later insertion of an existing
// pattern replaces its Spec in place rather than moving it to the end,
// per the route table's insertion-order tie-break contract.
type orderedEntries struct {
	order []string
	byKey map[string]routing.Entry
}

func newOrderedEntries() *orderedEntries {
	return &orderedEntries{byKey: make(map[string]routing.Entry)}
}

func (o *orderedEntries) upsert(e routing.Entry) {
	if _, exists := o.byKey[e.Pattern]; !exists {
		o.order = append(o.order, e.Pattern)
	}
	o.byKey[e.Pattern] = e
}

func (o *orderedEntries) entries() []routing.Entry {
	result := make([]routing.Entry, 0, len(o.order))
	for _, k := range o.order {
		result = append(result, o.byKey[k])
	}
	return result
}

// decodeJSONOrdered reads a JSON object whose keys are route patterns,
// preserving the source key order — encoding/json's Unmarshal into a
// map would discard it, so an object is walked token-by-token instead.
func decodeJSONOrdered(r io.Reader, into *orderedEntries) error {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("route document: expected a top-level JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		pattern, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("route document: non-string key %v", keyTok)
		}

		var raw rawSpec
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("route document: pattern %q: %w", pattern, err)
		}

		entry, err := raw.toEntry(pattern)
		if err != nil {
			return err
		}
		into.upsert(entry)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func decodeYAMLOrdered(data []byte, into *orderedEntries) error {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	for _, item := range doc {
		pattern, ok := item.Key.(string)
		if !ok {
			return fmt.Errorf("route bundle: non-string key %v", item.Key)
		}

		b, err := yaml.Marshal(item.Value)
		if err != nil {
			return err
		}
		var raw rawSpec
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("route bundle: pattern %q: %w", pattern, err)
		}

		entry, err := raw.toEntry(pattern)
		if err != nil {
			return err
		}
		into.upsert(entry)
	}
	return nil
}

// LoadRoutes reads the primary route document at pathFile, then merges
// every bundle found directly under pathsDir (sorted by file name,
// `.yaml`/`.yml` decoded as YAML and everything else as JSON), later
// entries overriding earlier ones on pattern collision. A missing
// pathFile or pathsDir is tolerated as "no routes from that source".
func LoadRoutes(pathFile, pathsDir string) ([]routing.Entry, error) {
	acc := newOrderedEntries()

	if f, err := os.Open(pathFile); err == nil {
		defer f.Close()
		if err := decodeJSONOrdered(f, acc); err != nil {
			return nil, fmt.Errorf("loader: %s: %w", pathFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("loader: %s: %w", pathFile, err)
	}

	names, err := bundleFileNames(pathsDir)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		full := filepath.Join(pathsDir, name)
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w", full, err)
		}

		if ext := strings.ToLower(filepath.Ext(name)); ext == ".yaml" || ext == ".yml" {
			if err := decodeYAMLOrdered(data, acc); err != nil {
				return nil, fmt.Errorf("loader: %s: %w", full, err)
			}
		} else {
			if err := decodeJSONOrdered(strings.NewReader(string(data)), acc); err != nil {
				return nil, fmt.Errorf("loader: %s: %w", full, err)
			}
		}
	}

	return acc.entries(), nil
}

func bundleFileNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loader: %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
