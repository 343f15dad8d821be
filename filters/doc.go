// Copyright 2015 Zalando SE
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package filters defines the two hook points a route can plug into:
RequestRewriter, run once before the proxied request leaves for the
upstream, and ResponseRewriter, run once after the upstream response is
received but before it is returned to the client.

Unlike a full filter chain, a route carries at most one of each hook,
matching the route spec's rewriteRequest/rewriteResponse fields. Both
hooks see a Context carrying the inbound request, the outbound (or sent)
upstream request, and, for the response hook, the upstream's response.

Hooks are header-mutation-only: they must not read or replace a response
body. A non-nil error from the response hook is treated as an upstream
failure (502) by the dispatcher; a non-nil error from the request hook is
logged and the request is still sent. Since route specs loaded from the
serialized route document can't carry functions, hooks are attached to a
routing.Spec in code, for example from a compiled Go plugin loaded with
loader.LoadHook; the route document has no field that names a hook.
*/
package filters
