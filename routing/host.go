package routing

import (
	edgenet "github.com/edgerouter/edgerouter/net"
)

func hostMatches(hostnames []string, host string) bool {
	host = edgenet.HostOnly(host)
	for _, h := range hostnames {
		if edgenet.HostOnly(h) == host {
			return true
		}
	}
	return false
}
