// Package index provides an index builder for defining entity
// indexes over fields and edges.
package index

import "github.com/formadb/forma/schema"

// A Descriptor for index configuration.
type Descriptor struct {
	Unique      bool                // unique index.
	Edges       []string            // edge columns.
	Fields      []string            // field columns.
	StorageKey  string              // custom index name.
	Annotations []schema.Annotation // index annotations.
}

// Builder for indexes on entity fields and edges.
type Builder struct {
	desc *Descriptor
}

// Fields creates an index on the given entity fields.
// Note that indexes are implemented only for SQL dialects.
//
//	func (T) Indexes() []forma.Index {
//
//		// Unique index on 2 fields.
//		index.Fields("first", "last").
//			Unique()
//
//		// Unique index of field under specific edge.
//		index.Fields("name").
//			Edges("parent").
//			Unique()
//
//	}
func Fields(fields ...string) *Builder {
	return &Builder{desc: &Descriptor{Fields: fields}}
}

// Edges creates an index on the given entity edges.
// Note that indexes are implemented only for SQL dialects.
//
//	func (T) Indexes() []forma.Index {
//
//		// Unique index of field under 2 edges.
//		index.Fields("name").
//			Edges("parent", "type").
//			Unique()
//
//	}
func Edges(edges ...string) *Builder {
	return &Builder{desc: &Descriptor{Edges: edges}}
}

// Fields sets the fields of the index.
//
//	index.Edges("parent").
//		Fields("name")
func (b *Builder) Fields(fields ...string) *Builder {
	b.desc.Fields = fields
	return b
}

// Edges sets the fields index to be unique under the set of edges (sub-graph).
//
//	index.Fields("name").
//		Edges("parent").
//		Unique()
func (b *Builder) Edges(edges ...string) *Builder {
	b.desc.Edges = edges
	return b
}

// Unique sets the index to be a unique index.
// Note that defining a uniqueness on optional fields won't prevent
// duplicates if one of the column contains NULL values.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// StorageKey sets the storage key of the index.
// In SQL dialects, it's the index name.
func (b *Builder) StorageKey(key string) *Builder {
	b.desc.StorageKey = key
	return b
}

// Annotations adds a list of annotations to the index object.
func (b *Builder) Annotations(annotations ...schema.Annotation) *Builder {
	b.desc.Annotations = append(b.desc.Annotations, annotations...)
	return b
}

// Descriptor implements the forma.Descriptor interface.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
