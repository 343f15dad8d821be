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

import "strings"

// SetRequestHeader returns a RequestRewriter that adds a single header to
// the outbound upstream request, also setting the request's Host field
// when key is "Host" (case-insensitive), mirroring the teacher's
// requestHeader filter.
func SetRequestHeader(key, value string) RequestRewriter {
	return RequestRewriterFunc(func(ctx Context) error {
		req := ctx.UpstreamRequest()
		if strings.EqualFold(key, "host") {
			req.Host = value
		}
		req.Header.Add(key, value)
		return nil
	})
}

// SetResponseHeader returns a ResponseRewriter that adds a single header
// to the downstream response, mirroring the teacher's responseHeader
// filter.
func SetResponseHeader(key, value string) ResponseRewriter {
	return ResponseRewriterFunc(func(ctx Context) error {
		ctx.Response().Header.Add(key, value)
		return nil
	})
}
