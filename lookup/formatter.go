package lookup

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/s0up4200/sc2ranks/sc2ranks"
)

// ConsoleFormatter provides console output formatting for API results
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatBonusPool formats the bonus pool, one region per line
func (f *ConsoleFormatter) FormatBonusPool(resp *sc2ranks.Response) string {
	var pool sc2ranks.BonusPool
	if err := resp.Decode(&pool); err != nil || len(pool) == 0 {
		return f.FormatResponse(resp)
	}

	keys := make([]string, 0, len(pool))
	for k := range pool {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("Bonus pool:\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-10s %d\n", k, pool[k])
	}
	return sb.String()
}

// FormatSearch formats the hits of a search
func (f *ConsoleFormatter) FormatSearch(name string, region sc2ranks.Region, result *sc2ranks.SearchResult) string {
	if len(result.Characters) == 0 {
		return fmt.Sprintf("No characters named %q found in %s\n", name, region)
	}

	var sb strings.Builder
	sb.WriteString("\nCharacter")
	if len(result.Characters) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d of %d):\n\n", len(result.Characters), result.Total)

	for i, c := range result.Characters {
		prefix := "├"
		if i == len(result.Characters)-1 {
			prefix = "╰"
		}
		fmt.Fprintf(&sb, "%s── %s %s\n", prefix, c.Name, describeRef(c))
	}

	return sb.String()
}

// FormatReport formats a full lookup
func (f *ConsoleFormatter) FormatReport(report *Report) string {
	if len(report.Results) == 0 {
		return fmt.Sprintf("No characters matched %q in %s (%d found)\n", report.Name, report.Region, report.Total)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nLookup for %q in %s: %d matched of %d found\n\n", report.Name, report.Region, report.Matched, report.Total)

	for i, res := range report.Results {
		isLast := i == len(report.Results)-1
		prefix, indent := "├", "│   "
		if isLast {
			prefix, indent = "╰", "    "
		}

		fmt.Fprintf(&sb, "%s── %s %s\n", prefix, res.Character.Name, describeRef(res.Character))

		switch {
		case res.NotFound():
			fmt.Fprintf(&sb, "%snot found\n", indent)
		case res.Err != nil:
			fmt.Fprintf(&sb, "%serror: %v\n", indent, res.Err)
		default:
			for _, line := range strings.Split(strings.TrimRight(f.FormatResponse(res.Response), "\n"), "\n") {
				sb.WriteString(indent + line + "\n")
			}
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	return sb.String()
}

// FormatResponse pretty-prints an untyped payload
func (f *ConsoleFormatter) FormatResponse(resp *sc2ranks.Response) string {
	out, err := json.MarshalIndent(resp.Value, "", "  ")
	if err != nil {
		return string(resp.Raw) + "\n"
	}
	return string(out) + "\n"
}

func describeRef(c sc2ranks.CharacterSummary) string {
	ref, err := c.Ref()
	if err != nil {
		return "(no identifier)"
	}
	return "(" + ref.String() + ")"
}
