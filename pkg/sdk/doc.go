// Package memorialdex embeds the memorial discovery engine in a Go program,
// backed by Redis with the search module.
//
// It serves the same operations as the HTTP API without the transport:
// ranked search, query suggestions, the location-aware obituary feed and
// search analytics.
//
//	client, _ := memorialdex.New(ctx, memorialdex.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	_ = client.Put(ctx, memorials)
//	page, _ := client.Search(ctx, memorialdex.SearchRequest{Query: "smith"})
//	feed, _ := client.Obituaries(ctx, memorialdex.FeedRequest{Lat: 40.71, Lng: -74.0, RadiusMiles: 25})
package memorialdex
