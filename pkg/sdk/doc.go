// Package patentsim is a Go client for the patentsim HTTP API.
//
//	client, _ := patentsim.New("http://127.0.0.1:8080")
//	results, _ := client.Similarity(ctx, "a method for fastening two plates", 5)
//	for _, r := range results {
//	    fmt.Printf("%s %.4f\n", r.PatentNumber, r.Similarity)
//	}
//
// Logging goes through log/slog and metrics through an optional Prometheus
// registerer, so the client does not impose a logging stack on callers.
package patentsim
