// Package neo4j fetches graph payloads from a Neo4j database.
//
// A [Source] runs Cypher against the database and converts whatever nodes,
// relationships and paths the records contain into a [graph.Payload], the
// same raw shape the normalizer accepts from any backend. Conversion lives
// in [PayloadFromRecords], which needs no database.
//
// Vertex ids are Neo4j element ids unless [Config.IDProperty] names a node
// property to use instead. Relationship ids are left empty, so the
// normalizer derives them from source, type and target.
//
// # Usage
//
//	src, err := neo4j.Open(ctx, neo4j.Config{URI: "neo4j://localhost:7687"})
//	if err != nil {
//	    return err
//	}
//	defer src.Close(ctx)
//	p, err := src.Neighbors(ctx, vertexID, 50)
package neo4j
