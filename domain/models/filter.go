package models

import (
	"fmt"
	"strings"
)

// Filter selects records by region, state, status and client type.
// An empty dimension places no restriction; dimensions combine with AND.
type Filter struct {
	Regions     []string
	States      []string
	Statuses    []string
	ClientTypes []string
}

func (f Filter) IsEmpty() bool {
	return len(f.Regions) == 0 && len(f.States) == 0 && len(f.Statuses) == 0 && len(f.ClientTypes) == 0
}

func (f Filter) String() string {
	if f.IsEmpty() {
		return "all records"
	}
	parts := []string{}
	add := func(name string, values []string) {
		if len(values) > 0 {
			parts = append(parts, fmt.Sprintf("%s=%s", name, strings.Join(values, ",")))
		}
	}
	add("region", f.Regions)
	add("state", f.States)
	add("status", f.Statuses)
	add("client_type", f.ClientTypes)
	return strings.Join(parts, "; ")
}
