// Package sc2ranks provides a client for the sc2ranks.com StarCraft II ranking API.
//
// The API is a thin HTTP+JSON service. Every call issues a single GET against
// a templated path, decodes the JSON body and checks it for an error envelope.
// Payloads are returned untyped; callers decode them into whatever shape fits
// the call they made.
//
// # Usage
//
// Create a client with your application key:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := sc2ranks.NewClient("my-app-key", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Find every character named BaconEmbargo in North America
//	resp, err := client.Search(ctx, "BaconEmbargo", sc2ranks.RegionNorthAmerica, sc2ranks.SearchExact, nil)
//
//	var result sc2ranks.SearchResult
//	if err := resp.Decode(&result); err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, c := range result.Characters {
//	    ref, _ := c.Ref()
//	    teams, err := client.GetCharacter(ctx, c.Name, sc2ranks.RegionNorthAmerica, ref, sc2ranks.DetailsTeams)
//	    if errors.Is(err, sc2ranks.ErrCharacterNotFound) {
//	        continue
//	    }
//	}
//
// # Errors
//
// Invalid input fails with ErrInvalidArgument before any request is made.
// A body that is not JSON yields an *InvalidResponseError. The remote
// "no_characters" error maps to ErrCharacterNotFound and any other remote
// error code to a *RemoteError.
package sc2ranks
