// Package model defines the record schema shared by the cache, its indexes and
// the backing-store collaborators.
//
// # Identity
//
//   - ID: the shelter-assigned animal identifier (e.g. "A671017"). Globally unique
//     and immutable once assigned. Records without an ID are rejected by the cache.
//
// # Indexed Fields
//
//   - Category: the breed. Empty values are indexed under "unknown".
//   - Name: the animal's name. Empty values are indexed under "unnamed".
//
// # Payload
//
// Everything else the backing store returns is kept as an opaque JSON payload and
// handed back verbatim. The cache never inspects it.
//
//	rec := model.Record{
//	    ID:       "A671017",
//	    Category: "Labrador Retriever Mix",
//	    Name:     "Rex",
//	    Payload:  json.RawMessage(`{"animal_type":"Dog"}`),
//	}
package model
