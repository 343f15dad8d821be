// Package loader implements the out-of-core collaborators the proxy
// consumes as already-parsed inputs: the route document and its
// `./paths/*` bundles, the TLS certificate directory tree, the static
// error-response store, and compiled hook plugins. None of this
// package is on the request hot path; everything it produces is handed
// to the core as an in-memory snapshot at startup.
package loader

import (
	"fmt"
	"plugin"

	"github.com/edgerouter/edgerouter/filters"
)

// HookPlugin is the symbol a compiled .so hook plugin must export, in
// the same spirit as the teacher's `InitFilter([]string) (filters.Spec,
// error)` convention — but returning this proxy's simpler two-hook
// pair instead of a named filter spec, since route specs attach hooks
// directly rather than through a registry.
//
// A plugin may implement either or both rewrite directions; a nil
// return for a hook means "this plugin does not provide it".
type HookPlugin func(opts map[string]interface{}) (filters.RequestRewriter, filters.ResponseRewriter, error)

// hookSymbolName is the exported symbol every hook plugin must define:
//
//	var InitHook loader.HookPlugin = func(opts map[string]interface{}) (filters.RequestRewriter, filters.ResponseRewriter, error) { ... }
const hookSymbolName = "InitHook"

// LoadHook opens a compiled hook plugin at path and invokes its
// InitHook symbol with opts, returning whichever request/response
// rewriters it provides.
func LoadHook(path string, opts map[string]interface{}) (filters.RequestRewriter, filters.ResponseRewriter, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loader: opening plugin %s: %w", path, err)
	}

	sym, err := p.Lookup(hookSymbolName)
	if err != nil {
		return nil, nil, fmt.Errorf("loader: plugin %s has no %s symbol: %w", path, hookSymbolName, err)
	}

	init, ok := sym.(*HookPlugin)
	if !ok {
		if fn, ok := sym.(func(map[string]interface{}) (filters.RequestRewriter, filters.ResponseRewriter, error)); ok {
			return fn(opts)
		}
		return nil, nil, fmt.Errorf("loader: plugin %s symbol %s has unexpected type %T", path, hookSymbolName, sym)
	}

	return (*init)(opts)
}
