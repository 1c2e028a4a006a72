// Package simulator drives a social-graph write workload against a storage.Storage:
// each agent registers a person, befriends a supernode and a few friends of
// supernodes, and commits, until the run is cancelled.
package simulator

import "github.com/tiglabs/graphkv/concept"

var (
	Person     = concept.Type{Prefix: concept.PrefixEntity, ID: 0}
	Friendship = concept.Type{Prefix: concept.PrefixRelation, ID: 0}
	Friend     = concept.Type{Prefix: concept.PrefixRole, ID: 0}
	Name       = concept.AttributeType{ID: 0, ValueType: concept.ValueTypeLong}
)

// DefaultSupernodes are the names of the popular persons. Repeated names are
// picked proportionally more often.
var DefaultSupernodes = []uint64{
	0xADE1A1DE, 0xADE1A1DE, 0xADE1A1DE, 0xADE1A1DE, 0xADE1A1DE,
	0xBAA1, 0xBAA1, 0xBAA1, 0xBAA1,
	0xB0BB1E, 0xB0BB1E, 0xB0BB1E,
	0xDEBB1E, 0xDEBB1E, 0xDEBB1E,
	0x01AF, 0x01AF,
	0xC0FFEE, 0xC0FFEE,
	0x0DDBA11,
	0xB01DFACE,
}

func nameOf(v uint64) concept.Attribute {
	return concept.Attribute{Type: Name, Value: v}
}

func names(values []uint64) []concept.Attribute {
	rv := make([]concept.Attribute, len(values))
	for i, v := range values {
		rv[i] = nameOf(v)
	}
	return rv
}

// unique drops repeated names, keeping first occurrences in order.
func unique(attrs []concept.Attribute) []concept.Attribute {
	seen := make(map[concept.Attribute]struct{}, len(attrs))
	rv := attrs[:0:0]
	for _, a := range attrs {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		rv = append(rv, a)
	}
	return rv
}
