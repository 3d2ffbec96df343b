// Package edge provides builders for declaring graph-style entity
// relationships.
//
// Forma models relations with reference fields, not edges. A foreign
// key is an ordinary field that points at another entity's identity:
//
//	field.Ref("author_id", "user").
//	    Annotations(sqlschema.OnDelete(sqlschema.Cascade))
//
// The edge builders remain for definitions written against edge-based
// schema packages. Registering an entity whose Edges method returns a
// non-empty slice fails with a SchemaError directing the caller to
// field.Ref, so ported definitions surface loudly instead of losing
// their relations in silence:
//
//	func (User) Edges() []forma.Edge {
//	    return []forma.Edge{
//	        edge.To("posts", Post{}),
//	    }
//	}
//
//	err := registry.Register(User{})
//	// edges are not supported; declare relations with field.Ref
//
// To declares the forward direction and From the back-reference:
//
//	edge.To("posts", Post{})
//	edge.From("author", User{}).Ref("posts").Unique()
package edge
