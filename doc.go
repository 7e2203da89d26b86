// Package rocksdbcloud hosts a declarative options framework for a
// cloud-backed storage engine. Option shapes describe their fields in static
// descriptor tables; three symmetric engines parse, serialize, and compare
// any shape from a single table, and polymorphic fields (table factories,
// codecs, storage providers) resolve at runtime through an object registry.
//
// The packages split as follows:
//
//   - pkg/options: the core framework: tokenizer, descriptor tables, the
//     parse/serialize/match engines, Configurable and Customizable objects.
//   - pkg/registry: the (family, id)-keyed object factory registry.
//   - pkg/engine: DBOptions and ColumnFamilyOptions shapes.
//   - pkg/table: block-based and plain table factory customizables.
//   - pkg/compression: runtime-selectable compression codecs.
//   - pkg/cloud: bucket addressing and storage providers.
//   - cmd/optool: a CLI to parse, dump, and diff option strings.
//
// A configuration round trip looks like:
//
//	cfg := options.DefaultConfigOptions()
//	cfg.Registry = registry.Default()
//
//	cf := engine.NewColumnFamilyOptions()
//	err := cf.ConfigureFromString(
//	    "write_buffer_size=64m; compression=kZSTD; "+
//	        "table_factory={id=BlockBasedTable; block_size=16k}", cfg)
//
//	text := cf.ToString(cfg)        // normalized option string
//	ok, name := cf.Matches(other, cfg) // structural comparison
package rocksdbcloud
