// Package documents caches the last fetched document list in the client's
// SQLite database so the dashboard can be shown while the backend is
// unreachable.
//
// Rows keep the backend JSON verbatim in "payload" and the list order in
// "position". Replace swaps the whole list inside one transaction.
//
//	cache := documents.NewCache(db)
//	_ = cache.Replace(ctx, docs)
//	docs, _ := cache.Load(ctx)
package documents
