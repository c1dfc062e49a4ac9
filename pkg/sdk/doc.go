// Package rex embeds the rex recommendation store and keyword search engine
// in a Go program, without the HTTP layer.
//
// The store is a single JSON document on disk. Search matches free-text
// queries by keyword against title, category, description and tags; a
// language model may supply the keywords, with a deterministic tokenizer as
// the fallback.
//
//	client, _ := rex.New(ctx, rex.WithStorePath("data/rex.json"))
//
//	_, _ = client.Create(ctx, rex.Draft{UserID: "u1", Title: "Best Pizza", Category: "Restaurant"})
//	res, _ := client.Search(ctx, "pizza near me", rex.SearchOptions{})
//
// Plug a model in with WithKeywordModel; without one, searches that ask for
// model-assisted keywords silently use the tokenizer.
package rex
