package report

import (
	"fmt"
	"strings"

	"stockdesk/internal/domain"
)

// Catalog is the ordered set of reports the server and CLI expose.
type Catalog struct {
	defs  []Definition
	byKey map[string]Definition
}

// NewCatalog indexes defs by key. Keys must be unique.
func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		key := d.Info().Key
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate report %q", key)
		}
		c.byKey[key] = d
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// List returns every report's info in catalog order.
func (c *Catalog) List() []Info {
	out := make([]Info, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.Info()
	}
	return out
}

// Lookup finds a report by domain and name.
func (c *Catalog) Lookup(domainName, name string) (Definition, error) {
	return c.LookupKey(domainName + "/" + name)
}

// LookupKey finds a report by "<domain>/<name>".
func (c *Catalog) LookupKey(key string) (Definition, error) {
	d, ok := c.byKey[strings.Trim(key, "/")]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownReport, key)
	}
	return d, nil
}
