package sc2ranks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingServer answers every request with body and records what it saw
type recordingServer struct {
	*httptest.Server
	calls   atomic.Int32
	path    atomic.Value
	appKey  atomic.Value
	agent   atomic.Value
	decoded atomic.Value
}

func newRecordingServer(t *testing.T, body string) *recordingServer {
	t.Helper()

	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.calls.Add(1)
		rs.path.Store(r.URL.EscapedPath())
		rs.decoded.Store(r.URL.Path)
		rs.appKey.Store(r.URL.Query().Get("appKey"))
		rs.agent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) lastPath() string {
	p, _ := rs.path.Load().(string)
	return p
}

func (rs *recordingServer) lastDecodedPath() string {
	p, _ := rs.decoded.Load().(string)
	return p
}

func newTestClient(t *testing.T, rs *recordingServer, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{WithEndpoint(rs.URL + "/api"), WithHTTPClient(rs.Client())}, opts...)
	client, err := NewClient("test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func intPtr(i int) *int {
	return &i
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		apiKey  string
		opts    []Option
		wantErr error
	}{
		{
			name:   "valid config",
			apiKey: "test-key",
		},
		{
			name:    "missing API key",
			apiKey:  "",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "blank API key",
			apiKey:  "   ",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "invalid endpoint",
			apiKey:  "test-key",
			opts:    []Option{WithEndpoint("not a url")},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.apiKey, logger, tt.opts...)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultEndpoint, client.Endpoint())
			assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with endpoint trims trailing slash", func(t *testing.T) {
		client, err := NewClient("k", logger, WithEndpoint("http://localhost:8080/api/"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/api", client.Endpoint())
	})

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("k", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("k", logger, WithHTTPClient(customClient), WithTimeout(time.Second))
		require.NoError(t, err)
		assert.Same(t, customClient, client.httpClient)
	})

	t.Run("with user agent", func(t *testing.T) {
		rs := newRecordingServer(t, `{}`)
		client := newTestClient(t, rs, WithUserAgent("sc2ranks-test/1.0"))

		_, err := client.MaximumBonusPool(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "sc2ranks-test/1.0", rs.agent.Load())
	})
}

func TestSearch_Regions(t *testing.T) {
	for _, region := range Regions {
		t.Run(string(region), func(t *testing.T) {
			rs := newRecordingServer(t, `{"total": 0, "characters": []}`)
			client := newTestClient(t, rs)

			_, err := client.Search(context.Background(), "BaconEmbargo", region, SearchExact, nil)
			require.NoError(t, err)
			assert.Equal(t, "/api/search/exact/"+string(region)+"/BaconEmbargo", rs.lastPath())
			assert.Equal(t, "test-key", rs.appKey.Load())
		})
	}
}

func TestSearch_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		search     string
		region     Region
		searchType SearchType
		offset     *int
	}{
		{name: "unknown region", search: "BaconEmbargo", region: Region("xx")},
		{name: "empty region", search: "BaconEmbargo", region: Region("")},
		{name: "uppercase region", search: "BaconEmbargo", region: Region("US")},
		{name: "empty name", search: "", region: RegionNorthAmerica},
		{name: "unknown search type", search: "BaconEmbargo", region: RegionNorthAmerica, searchType: SearchType("fuzzy")},
		{name: "negative offset", search: "BaconEmbargo", region: RegionNorthAmerica, offset: intPtr(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newRecordingServer(t, `{}`)
			client := newTestClient(t, rs)

			resp, err := client.Search(context.Background(), tt.search, tt.region, tt.searchType, tt.offset)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, resp)
			assert.Zero(t, rs.calls.Load(), "no request should be made")
		})
	}
}

func TestSearch_Paths(t *testing.T) {
	tests := []struct {
		name       string
		search     string
		searchType SearchType
		offset     *int
		wantPath   string
	}{
		{
			name:     "no offset omits segment",
			search:   "BaconEmbargo",
			wantPath: "/api/search/exact/us/BaconEmbargo",
		},
		{
			name:     "offset appended",
			search:   "BaconEmbargo",
			offset:   intPtr(5),
			wantPath: "/api/search/exact/us/BaconEmbargo/5",
		},
		{
			name:     "zero offset appended",
			search:   "BaconEmbargo",
			offset:   intPtr(0),
			wantPath: "/api/search/exact/us/BaconEmbargo/0",
		},
		{
			name:       "search type",
			search:     "Bacon",
			searchType: SearchStarts,
			wantPath:   "/api/search/starts/us/Bacon",
		},
		{
			name:     "name is escaped",
			search:   "Bacon Embargo/x?",
			wantPath: "/api/search/exact/us/Bacon%20Embargo%2Fx%3F",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newRecordingServer(t, `{"total": 0, "characters": []}`)
			client := newTestClient(t, rs)

			_, err := client.Search(context.Background(), tt.search, RegionNorthAmerica, tt.searchType, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, rs.lastPath())
		})
	}
}

func TestGetCharacter_Paths(t *testing.T) {
	tests := []struct {
		name        string
		ref         CharacterRef
		details     CharacterDetails
		wantDecoded string
	}{
		{
			name:        "battle.net id",
			ref:         ByBattleNetID(123),
			wantDecoded: "/api/base/char/us/BaconEmbargo!123",
		},
		{
			name:        "character code",
			ref:         ByCode("abcd"),
			wantDecoded: "/api/base/char/us/BaconEmbargo$abcd",
		},
		{
			name:        "teams",
			ref:         ByBattleNetID(123),
			details:     DetailsTeams,
			wantDecoded: "/api/base/teams/us/BaconEmbargo!123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newRecordingServer(t, `{"name": "BaconEmbargo"}`)
			client := newTestClient(t, rs)

			_, err := client.GetCharacter(context.Background(), "BaconEmbargo", RegionNorthAmerica, tt.ref, tt.details)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDecoded, rs.lastDecodedPath())
		})
	}
}

func TestGetCharacter_EscapesNameButNotSeparator(t *testing.T) {
	rs := newRecordingServer(t, `{}`)
	client := newTestClient(t, rs)

	_, err := client.GetCharacter(context.Background(), "Bacon!Embargo", RegionEurope, ByCode("ab cd"), DetailsCharacter)
	require.NoError(t, err)
	assert.Equal(t, "/api/base/char/eu/Bacon%21Embargo$ab%20cd", rs.lastPath())
}

func TestGetCharacter_DollarInNameOrCode(t *testing.T) {
	rs := newRecordingServer(t, `{}`)
	client := newTestClient(t, rs)
	ctx := context.Background()

	_, err := client.GetCharacter(ctx, "a$b", RegionEurope, ByCode("c"), DetailsCharacter)
	require.NoError(t, err)
	inName := rs.lastPath()
	assert.Equal(t, "/api/base/char/eu/a%24b$c", inName)

	_, err = client.GetCharacter(ctx, "a", RegionEurope, ByCode("b$c"), DetailsCharacter)
	require.NoError(t, err)
	inCode := rs.lastPath()
	assert.Equal(t, "/api/base/char/eu/a$b%24c", inCode)

	assert.NotEqual(t, inName, inCode)
	assert.Equal(t, "/api/base/char/eu/a$b$c", rs.lastDecodedPath())
}

func TestSearch_EscapesDollar(t *testing.T) {
	rs := newRecordingServer(t, `{"total": 0, "characters": []}`)
	client := newTestClient(t, rs)

	_, err := client.Search(context.Background(), "Bacon$", RegionEurope, SearchExact, nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/search/exact/eu/Bacon%24", rs.lastPath())
}

func TestGetCharacter_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		char    string
		region  Region
		ref     CharacterRef
		details CharacterDetails
	}{
		{name: "no ref", char: "BaconEmbargo", region: RegionNorthAmerica},
		{name: "empty code", char: "BaconEmbargo", region: RegionNorthAmerica, ref: ByCode("")},
		{name: "unknown region", char: "BaconEmbargo", region: Region("mars"), ref: ByBattleNetID(1)},
		{name: "empty name", char: "", region: RegionNorthAmerica, ref: ByBattleNetID(1)},
		{name: "unknown details", char: "BaconEmbargo", region: RegionNorthAmerica, ref: ByBattleNetID(1), details: CharacterDetails("all")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newRecordingServer(t, `{}`)
			client := newTestClient(t, rs)

			_, err := client.GetCharacter(context.Background(), tt.char, tt.region, tt.ref, tt.details)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Zero(t, rs.calls.Load())
		})
	}
}

func TestMaximumBonusPool(t *testing.T) {
	rs := newRecordingServer(t, `{"bonusPool": 2500}`)
	client := newTestClient(t, rs)

	resp, err := client.MaximumBonusPool(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/bonus/pool", rs.lastPath())
	assert.Equal(t, map[string]any{"bonusPool": float64(2500)}, resp.Value)

	var pool BonusPool
	require.NoError(t, resp.Decode(&pool))
	assert.Equal(t, 2500, pool["bonusPool"])
}

func TestExecute_Envelope(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantIs    error
		checkErr  func(t *testing.T, err error)
		wantValue any
	}{
		{
			name:   "no characters",
			body:   `{"error": "no_characters"}`,
			wantIs: ErrCharacterNotFound,
		},
		{
			name:   "unknown error code",
			body:   `{"error": "rate_limited"}`,
			wantIs: ErrRemote,
			checkErr: func(t *testing.T, err error) {
				var remote *RemoteError
				require.True(t, errors.As(err, &remote))
				assert.Equal(t, "rate_limited", remote.Code)
			},
		},
		{
			name:   "non string error code",
			body:   `{"error": 42}`,
			wantIs: ErrRemote,
			checkErr: func(t *testing.T, err error) {
				var remote *RemoteError
				require.True(t, errors.As(err, &remote))
				assert.Equal(t, "42", remote.Code)
			},
		},
		{
			name:   "not json",
			body:   `not json`,
			wantIs: ErrInvalidResponse,
			checkErr: func(t *testing.T, err error) {
				var invalid *InvalidResponseError
				require.True(t, errors.As(err, &invalid))
				assert.Equal(t, http.StatusOK, invalid.StatusCode)
				assert.Error(t, invalid.Unwrap())
			},
		},
		{
			name:   "empty body",
			body:   ``,
			wantIs: ErrInvalidResponse,
		},
		{
			name:      "array payload",
			body:      `[1, "two"]`,
			wantValue: []any{float64(1), "two"},
		},
		{
			name:      "scalar payload",
			body:      `2500`,
			wantValue: float64(2500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newRecordingServer(t, tt.body)
			client := newTestClient(t, rs)

			resp, err := client.MaximumBonusPool(context.Background())
			if tt.wantIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantIs)
				assert.Nil(t, resp)
				if tt.checkErr != nil {
					tt.checkErr(t, err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, resp.Value)
		})
	}
}

func TestExecute_ContextCancelled(t *testing.T) {
	rs := newRecordingServer(t, `{}`)
	client := newTestClient(t, rs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.MaximumBonusPool(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_DecodeResult(t *testing.T) {
	rs := newRecordingServer(t, `{"total": 2, "characters": [{"name": "BaconEmbargo", "bnet_id": 123}, {"name": "BaconEmbargo", "code": "456"}]}`)
	client := newTestClient(t, rs)

	resp, err := client.Search(context.Background(), "BaconEmbargo", RegionNorthAmerica, SearchExact, nil)
	require.NoError(t, err)

	var result SearchResult
	require.NoError(t, resp.Decode(&result))
	require.Len(t, result.Characters, 2)
	assert.Equal(t, 2, result.Total)

	ref, err := result.Characters[0].Ref()
	require.NoError(t, err)
	assert.True(t, ref.IsBattleNetID())
	assert.Equal(t, "123", ref.Value())

	ref, err = result.Characters[1].Ref()
	require.NoError(t, err)
	assert.True(t, ref.IsCode())
	assert.Equal(t, "456", ref.Value())
}

func TestSearch_DecodeStringBnetID(t *testing.T) {
	rs := newRecordingServer(t, `{"total": 2, "characters": [{"name": "BaconEmbargo", "bnet_id": "123"}, {"name": "Embargo", "bnet_id": 456}]}`)
	client := newTestClient(t, rs)

	resp, err := client.Search(context.Background(), "BaconEmbargo", RegionNorthAmerica, SearchExact, nil)
	require.NoError(t, err)

	var result SearchResult
	require.NoError(t, resp.Decode(&result))
	require.Len(t, result.Characters, 2)
	assert.Equal(t, BattleNetID(123), result.Characters[0].BnetID)
	assert.Equal(t, BattleNetID(456), result.Characters[1].BnetID)

	ref, err := result.Characters[0].Ref()
	require.NoError(t, err)
	assert.Equal(t, "bnet_id:123", ref.String())
}
