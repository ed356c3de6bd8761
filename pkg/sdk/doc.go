// Package placebook embeds the placebook resource services in another Go
// program without running the HTTP API.
//
// A client talks to Redis, Valkey, MongoDB or an in-process map:
//
//	client, _ := placebook.New(ctx, placebook.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	p, _ := client.Places().Create(ctx, placebook.PlaceInput{
//	    Name: "Harbor Cafe",
//	    Tags: []string{"coffee", "breakfast"},
//	})
//
// # Tag search
//
// Free-text prompts are turned into tags by a Tagger and matched against places:
//
//	client, _ := placebook.New(ctx,
//	    placebook.WithMemory(),
//	    placebook.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "gpt-4o-mini"),
//	)
//	res, _ := client.Search(ctx, "somewhere quiet for coffee")
//	if res.Refusal != nil {
//	    // the prompt was declined; no places were looked up
//	}
package placebook
