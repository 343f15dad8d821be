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

package filters

import (
	"fmt"
	"net/url"
)

// Redirect returns a ResponseRewriter that overwrites the upstream
// response with a redirect to location, carrying the given status code.
// A relative location is resolved against the original request's scheme
// and host.
func Redirect(code int, location string) (ResponseRewriter, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("redirect hook: invalid location %q: %w", location, err)
	}

	return ResponseRewriterFunc(func(ctx Context) error {
		target := *u
		if target.Host == "" {
			target.Scheme = ctx.Request().URL.Scheme
			target.Host = ctx.Request().Host
		}

		resp := ctx.Response()
		resp.StatusCode = code
		resp.Header.Set("Location", target.String())
		return nil
	}), nil
}
