package engine

import (
	"strings"

	"github.com/edouarda/rocksdb-cloud/pkg/options"
)

// cloneInto replays base's serialized state into fresh. Option objects hold
// registered self pointers, so copying the struct would alias the original;
// replaying the option string is the supported way to duplicate one.
func cloneInto(fresh, base options.Configurable, cfg *options.ConfigOptions) error {
	if base == nil {
		return nil
	}
	embedded := *cfg
	embedded.Delimiter = ";"
	text, err := base.GetOptionString(&embedded)
	if err != nil {
		return err
	}
	replay := *cfg
	replay.InvokePrepareOptions = false
	return fresh.ConfigureFromString(text, &replay)
}

// GetColumnFamilyOptionsFromString builds new column family options by
// applying opts on top of base. base is left untouched and may be nil.
func GetColumnFamilyOptionsFromString(base *ColumnFamilyOptions, opts string,
	cfg *options.ConfigOptions) (*ColumnFamilyOptions, error) {
	fresh := NewColumnFamilyOptions()
	if base != nil {
		if err := cloneInto(fresh, base, cfg); err != nil {
			return nil, err
		}
	}
	if err := fresh.ConfigureFromString(opts, cfg); err != nil {
		return nil, err
	}
	return fresh, nil
}

// GetColumnFamilyOptionsFromMap is GetColumnFamilyOptionsFromString for an
// already-split property map.
func GetColumnFamilyOptionsFromMap(base *ColumnFamilyOptions,
	opts map[string]string, cfg *options.ConfigOptions) (*ColumnFamilyOptions, error) {
	fresh := NewColumnFamilyOptions()
	if base != nil {
		if err := cloneInto(fresh, base, cfg); err != nil {
			return nil, err
		}
	}
	if err := fresh.ConfigureFromMap(opts, cfg); err != nil {
		return nil, err
	}
	return fresh, nil
}

// GetDBOptionsFromString builds new database options by applying opts on top
// of base. base is left untouched and may be nil.
func GetDBOptionsFromString(base *DBOptions, opts string,
	cfg *options.ConfigOptions) (*DBOptions, error) {
	fresh := NewDBOptions()
	if base != nil {
		if err := cloneInto(fresh, base, cfg); err != nil {
			return nil, err
		}
	}
	if err := fresh.ConfigureFromString(opts, cfg); err != nil {
		return nil, err
	}
	return fresh, nil
}

// GetDBOptionsFromMap is GetDBOptionsFromString for an already-split property
// map.
func GetDBOptionsFromMap(base *DBOptions, opts map[string]string,
	cfg *options.ConfigOptions) (*DBOptions, error) {
	fresh := NewDBOptions()
	if base != nil {
		if err := cloneInto(fresh, base, cfg); err != nil {
			return nil, err
		}
	}
	if err := fresh.ConfigureFromMap(opts, cfg); err != nil {
		return nil, err
	}
	return fresh, nil
}

// UpdateMutableOptions applies opts to target in place, rejecting any option
// that cannot be changed on a live database.
func UpdateMutableOptions(target options.Configurable, opts map[string]string,
	cfg *options.ConfigOptions) error {
	mutable := *cfg
	mutable.MutableOptionsOnly = true
	return target.ConfigureFromMap(opts, &mutable)
}

// MutableOptionString serializes only the options that can be changed on a
// live database.
func MutableOptionString(target options.Configurable,
	cfg *options.ConfigOptions) (string, error) {
	mutable := *cfg
	mutable.MutableOptionsOnly = true
	names := target.GetOptionNames(&mutable)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		value, err := target.GetOption(name, &mutable)
		if err != nil {
			return "", err
		}
		parts = append(parts, name+"="+value)
	}
	return strings.Join(parts, cfg.Delimiter), nil
}
