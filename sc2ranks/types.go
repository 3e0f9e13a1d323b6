package sc2ranks

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Region is a region code understood by the API
type Region string

const (
	// RegionAll searches every region
	RegionAll Region = "all"
	// RegionEurope is Europe
	RegionEurope Region = "eu"
	// RegionRussia is Russia
	RegionRussia Region = "ru"
	// RegionChina is China
	RegionChina Region = "cn"
	// RegionLatinAmerica is Latin America
	RegionLatinAmerica Region = "ln"
	// RegionNorthAmerica is North America
	RegionNorthAmerica Region = "us"
	// RegionTaiwan is Taiwan
	RegionTaiwan Region = "tw"
	// RegionKorea is Korea
	RegionKorea Region = "kr"
	// RegionSouthEastAsia is South-East Asia
	RegionSouthEastAsia Region = "sea"
)

// Regions lists every valid region in API order.
var Regions = []Region{
	RegionAll,
	RegionEurope,
	RegionRussia,
	RegionChina,
	RegionLatinAmerica,
	RegionNorthAmerica,
	RegionTaiwan,
	RegionKorea,
	RegionSouthEastAsia,
}

// Valid reports whether r is a known region code
func (r Region) Valid() bool {
	switch r {
	case RegionAll, RegionEurope, RegionRussia, RegionChina, RegionLatinAmerica,
		RegionNorthAmerica, RegionTaiwan, RegionKorea, RegionSouthEastAsia:
		return true
	}
	return false
}

func (r Region) String() string {
	return string(r)
}

// ParseRegion converts user input to a Region
func ParseRegion(s string) (Region, error) {
	r := Region(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", invalidArgument("%q is not a valid region", s)
	}
	return r, nil
}

// SearchType selects how a name is matched
type SearchType string

const (
	// SearchExact matches the whole name
	SearchExact SearchType = "exact"
	// SearchContains matches names containing the query
	SearchContains SearchType = "contains"
	// SearchStarts matches names starting with the query
	SearchStarts SearchType = "starts"
	// SearchEnds matches names ending with the query
	SearchEnds SearchType = "ends"
)

// Valid reports whether t is a known search type
func (t SearchType) Valid() bool {
	switch t {
	case SearchExact, SearchContains, SearchStarts, SearchEnds:
		return true
	}
	return false
}

func (t SearchType) String() string {
	return string(t)
}

// ParseSearchType converts user input to a SearchType. Empty input yields SearchExact.
func ParseSearchType(s string) (SearchType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SearchExact, nil
	}
	t := SearchType(s)
	if !t.Valid() {
		return "", invalidArgument("%q is not a valid search type", s)
	}
	return t, nil
}

// CharacterDetails selects how much data a character lookup returns
type CharacterDetails string

const (
	// DetailsCharacter returns the base character profile
	DetailsCharacter CharacterDetails = "char"
	// DetailsTeams returns the profile and its teams
	DetailsTeams CharacterDetails = "teams"
)

// Valid reports whether d is a known detail level
func (d CharacterDetails) Valid() bool {
	return d == DetailsCharacter || d == DetailsTeams
}

func (d CharacterDetails) String() string {
	return string(d)
}

// ParseCharacterDetails converts user input to CharacterDetails. Empty input yields DetailsCharacter.
func ParseCharacterDetails(s string) (CharacterDetails, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DetailsCharacter, nil
	}
	d := CharacterDetails(s)
	if !d.Valid() {
		return "", invalidArgument("%q is not a valid detail level", s)
	}
	return d, nil
}

type refKind int

const (
	refNone refKind = iota
	refBattleNetID
	refCode
)

// CharacterRef identifies a character either by battle.net id or by
// character code. The zero value identifies nothing and is rejected.
type CharacterRef struct {
	kind  refKind
	value string
}

// ByBattleNetID references a character by its numeric battle.net id
func ByBattleNetID(id int64) CharacterRef {
	return CharacterRef{kind: refBattleNetID, value: strconv.FormatInt(id, 10)}
}

// ByCode references a character by its character code
func ByCode(code string) CharacterRef {
	return CharacterRef{kind: refCode, value: code}
}

// RefFromFields builds a ref from optional fields. A non-zero battle.net id
// wins over a code.
func RefFromFields(bnetID int64, code string) (CharacterRef, error) {
	switch {
	case bnetID != 0:
		return ByBattleNetID(bnetID), nil
	case code != "":
		return ByCode(code), nil
	}
	return CharacterRef{}, invalidArgument("must supply a character code or a battle.net identifier")
}

// IsBattleNetID reports whether the ref is a battle.net id
func (r CharacterRef) IsBattleNetID() bool {
	return r.kind == refBattleNetID
}

// IsCode reports whether the ref is a character code
func (r CharacterRef) IsCode() bool {
	return r.kind == refCode
}

// Value returns the id or code as it appears in the path
func (r CharacterRef) Value() string {
	return r.value
}

func (r CharacterRef) separator() string {
	if r.kind == refBattleNetID {
		return "!"
	}
	return "$"
}

func (r CharacterRef) validate() error {
	if r.kind == refNone || r.value == "" {
		return invalidArgument("must supply a character code or a battle.net identifier")
	}
	return nil
}

func (r CharacterRef) String() string {
	switch r.kind {
	case refBattleNetID:
		return "bnet_id:" + r.value
	case refCode:
		return "code:" + r.value
	default:
		return "none"
	}
}

// Response is a decoded API payload
type Response struct {
	// Value is the JSON value as decoded into any: maps, slices, float64,
	// string, bool or nil.
	Value any
	// Raw is the undecoded body.
	Raw json.RawMessage
}

// Decode unmarshals the raw body into v
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SearchResult is the payload of a search call
type SearchResult struct {
	Total      int                `json:"total"`
	Characters []CharacterSummary `json:"characters"`
}

// BattleNetID is a battle.net character identifier. It decodes from a JSON
// number or a numeric string; an empty string or null leaves it zero.
type BattleNetID int64

// UnmarshalJSON implements json.Unmarshaler
func (id *BattleNetID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*id = 0
			return nil
		}
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid battle.net id %s: %w", data, err)
	}
	*id = BattleNetID(n)
	return nil
}

// CharacterSummary is a single search hit
type CharacterSummary struct {
	Name   string      `json:"name"`
	BnetID BattleNetID `json:"bnet_id,omitempty"`
	Code   string      `json:"code,omitempty"`
}

// Ref returns the reference to use for a character lookup
func (c CharacterSummary) Ref() (CharacterRef, error) {
	return RefFromFields(int64(c.BnetID), c.Code)
}

// BonusPool is the payload of the bonus pool call, keyed by region
type BonusPool map[string]int
