package registry

import (
	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-set/v2"
	"github.com/spf13/viper"
)

// Module is a program module records and reports belong to.
type Module struct {
	UniqueID    string   `mapstructure:"unique_id"`
	Name        string   `mapstructure:"name"`
	RecordTypes []string `mapstructure:"record_types"`
}

// RecordType lists the aggregable fields of a record type and their known
// option values.
type RecordType struct {
	Fields map[string][]string `mapstructure:"fields"`
}

// Registry describes which modules exist and which field values are known.
type Registry struct {
	Modules     []Module              `mapstructure:"modules"`
	RecordTypes map[string]RecordType `mapstructure:"record_types"`

	moduleIDs *set.Set[string]
}

// Load reads the registry from a YAML file.
func Load(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed to read registry file")
	}

	var reg Registry
	if err := v.Unmarshal(&reg); err != nil {
		return nil, errors.Wrap(err, "failed to parse registry")
	}
	reg.index()
	return &reg, nil
}

// New builds a registry in memory.
func New(modules []Module, recordTypes map[string]RecordType) *Registry {
	reg := &Registry{Modules: modules, RecordTypes: recordTypes}
	reg.index()
	return reg
}

func (r *Registry) index() {
	r.moduleIDs = set.New[string](len(r.Modules))
	for _, m := range r.Modules {
		r.moduleIDs.Insert(m.UniqueID)
	}
}

// HasModules reports whether every id names a known module.
func (r *Registry) HasModules(ids ...string) bool {
	for _, id := range ids {
		if !r.moduleIDs.Contains(id) {
			return false
		}
	}
	return true
}

// Options returns the known values of a record type's field, nil if unknown.
func (r *Registry) Options(recordType, field string) []string {
	rt, ok := r.RecordTypes[recordType]
	if !ok {
		return nil
	}
	return rt.Fields[field]
}
