package encoding

import (
	"fmt"
	"strings"
)

// RouteHop is one hop of an outgoing Lightning part's route.
// See spec.md §3 - Part.route.
type RouteHop struct {
	NodeA          string // hex-encoded 33-byte compressed pubkey
	NodeB          string // hex-encoded 33-byte compressed pubkey
	ShortChannelId string // empty when unknown
}

// EncodeRoute renders hops as the compact text column described in
// spec.md §4.A: "nodeA:nodeB:shortChannelId?;..." with an empty string for
// an empty route and an empty slot for an absent shortChannelId.
func EncodeRoute(hops []RouteHop) string {
	if len(hops) == 0 {
		return ""
	}
	parts := make([]string, len(hops))
	for i, h := range hops {
		parts[i] = h.NodeA + ":" + h.NodeB + ":" + h.ShortChannelId
	}
	return strings.Join(parts, ";")
}

// DecodeRoute parses the compact text column back into hops. An empty
// string decodes to a nil slice and a nil error.
func DecodeRoute(s string) ([]RouteHop, error) {
	if s == "" {
		return nil, nil
	}
	segments := strings.Split(s, ";")
	hops := make([]RouteHop, 0, len(segments))
	for _, seg := range segments {
		fields := strings.Split(seg, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("route: malformed hop segment %q: expected nodeA:nodeB:shortChannelId", seg)
		}
		hops = append(hops, RouteHop{NodeA: fields[0], NodeB: fields[1], ShortChannelId: fields[2]})
	}
	return hops, nil
}
