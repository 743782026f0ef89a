// Package docsearch provides an embeddable semantic search client over
// documentation stored in Qdrant or Valkey.
//
// The client wires an embedding provider, the query embedding model and
// the vector index in-process, with the same validation and result mapping
// as the docsearch HTTP service.
//
//	client, err := docsearch.New(ctx,
//	    docsearch.WithQdrant("http://localhost:6334", ""),
//	    docsearch.WithCollection("docs"),
//	    docsearch.WithOpenAI("https://api.openai.com/v1", apiKey, "text-embedding-3-small"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	res, err := client.Search(ctx, "how do I install", 5)
package docsearch
