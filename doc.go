// Package quartic searches for nontrivial integer solutions to
// a⁴ + b⁴ + c⁴ = d⁴ with 0 < a,b,c < d ≤ maxD.
//
// The search runs in three phases. The generator enumerates (c,d) pairs
// surviving a cascade of modular and prime-valuation filters and records
// the surviving differences d⁴−c⁴. The index phase packs those differences
// into a Bloom filter backed by an open-addressed hash table. The scan
// phase enumerates the admissible (a,b) pairs in parallel, queries the
// index with a⁴+b⁴ and confirms hits by exact 128-bit comparison.
//
// A minimal run:
//
//	engine, err := quartic.New(500000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := engine.Run(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, sol := range result.Solutions {
//	    fmt.Println("Solution found:", sol)
//	}
package quartic
