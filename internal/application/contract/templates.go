package contract

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
)

//go:embed catalog/templates.yaml
var builtinCatalog []byte

// TemplateMeta is re-exported for callers of the catalog.
type TemplateMeta = domainContract.TemplateMeta

// TemplateCatalog is an immutable index of templates by contract type.
type TemplateCatalog struct {
	byType map[domainContract.Type]TemplateMeta
}

// LoadTemplateCatalog parses a YAML catalog document.
func LoadTemplateCatalog(data []byte) (*TemplateCatalog, error) {
	var doc struct {
		Templates []TemplateMeta `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("template catalog: %w", err)
	}
	if len(doc.Templates) == 0 {
		return nil, fmt.Errorf("template catalog: no templates defined")
	}

	c := &TemplateCatalog{byType: make(map[domainContract.Type]TemplateMeta, len(doc.Templates))}
	for _, t := range doc.Templates {
		if t.ID == "" || t.Type == "" {
			return nil, fmt.Errorf("template catalog: template requires id and type")
		}
		if _, dup := c.byType[t.Type]; dup {
			return nil, fmt.Errorf("template catalog: duplicate type %q", t.Type)
		}
		c.byType[t.Type] = t
	}
	return c, nil
}

// DefaultTemplateCatalog returns the embedded catalog.
func DefaultTemplateCatalog() *TemplateCatalog {
	c, err := LoadTemplateCatalog(builtinCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the template for t or an ErrCodeUnknownContractType error.
func (c *TemplateCatalog) Lookup(t domainContract.Type) (TemplateMeta, error) {
	meta, ok := c.byType[t]
	if !ok {
		return TemplateMeta{}, domainContract.ErrUnknownType(t)
	}
	return meta, nil
}

// Types lists the supported contract types in lexical order.
func (c *TemplateCatalog) Types() []domainContract.Type {
	out := make([]domainContract.Type, 0, len(c.byType))
	for t := range c.byType {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

//Personal.AI order the ending
