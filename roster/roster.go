package roster

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/tidwall/gjson"

	"github.com/solcrank/feerouter-go/distributor"
)

// Roster is the full ordered investor set for one vault. The crank
// driver re-reads it every cycle and pages through it in file order,
// so page contents stay deterministic across retries.
type Roster struct {
	Entries []distributor.PageEntry
}

// Load reads a roster JSON file of the form:
//
//	[
//	  {"stream": "<pubkey>", "destination": "<pubkey>"},
//	  ...
//	]
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return Parse(data)
}

// Parse decodes roster JSON.
func Parse(data []byte) (*Roster, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("roster is not valid JSON")
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("roster must be a JSON array")
	}

	var entries []distributor.PageEntry
	var parseErr error
	parsed.ForEach(func(_, value gjson.Result) bool {
		stream, err := solana.PublicKeyFromBase58(value.Get("stream").String())
		if err != nil {
			parseErr = fmt.Errorf("entry %d: bad stream: %w", len(entries), err)
			return false
		}
		destination, err := solana.PublicKeyFromBase58(value.Get("destination").String())
		if err != nil {
			parseErr = fmt.Errorf("entry %d: bad destination: %w", len(entries), err)
			return false
		}
		entries = append(entries, distributor.PageEntry{
			Stream:      stream,
			Destination: destination,
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return &Roster{Entries: entries}, nil
}

// Pages splits the roster into pages of at most pageSize entries. An
// empty roster yields a single empty final page so a cycle can still
// close.
func (r *Roster) Pages(pageSize int) [][]distributor.PageEntry {
	if pageSize <= 0 {
		pageSize = len(r.Entries)
	}
	if len(r.Entries) == 0 {
		return [][]distributor.PageEntry{nil}
	}
	var pages [][]distributor.PageEntry
	for start := 0; start < len(r.Entries); start += pageSize {
		end := start + pageSize
		if end > len(r.Entries) {
			end = len(r.Entries)
		}
		pages = append(pages, r.Entries[start:end])
	}
	return pages
}
