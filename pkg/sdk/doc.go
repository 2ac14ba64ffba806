// Package sportspulse embeds the sportspulse question answering pipeline in a Go program.
//
// The client loads a JSON or Parquet article corpus into memory and answers questions from
// it. When a SerpAPI key is configured, questions about recent events are also answered from
// live web search results, within an optional daily and monthly search quota.
//
//	client, err := sportspulse.New(ctx,
//	    sportspulse.WithCorpus("data/sports_articles.json"),
//	    sportspulse.WithSerpAPI(os.Getenv("SERPAPI_API_KEY")),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	res, err := client.Ask(ctx, "Who won the NBA championship in 2016?")
//	if err != nil {
//	    return err
//	}
//	if best := res.Best(); best != nil {
//	    fmt.Println(best.Text, best.Confidence)
//	}
package sportspulse
