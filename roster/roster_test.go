package roster

import (
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/solcrank/feerouter-go/distributor"
)

func TestParse(t *testing.T) {
	s1 := solana.NewWallet().PublicKey()
	d1 := solana.NewWallet().PublicKey()
	s2 := solana.NewWallet().PublicKey()
	d2 := solana.NewWallet().PublicKey()

	data := fmt.Sprintf(`[
		{"stream": %q, "destination": %q},
		{"stream": %q, "destination": %q}
	]`, s1, d1, s2, d2)

	r, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, r.Entries, 2)
	require.Equal(t, s1, r.Entries[0].Stream)
	require.Equal(t, d2, r.Entries[1].Destination)
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse([]byte(`{"stream": "x"}`))
	require.Error(t, err)

	_, err = Parse([]byte(`[{"stream": "not-a-key", "destination": "also-not"}]`))
	require.Error(t, err)

	_, err = Parse([]byte(`not json`))
	require.Error(t, err)
}

func TestPages(t *testing.T) {
	var r Roster
	for i := 0; i < 7; i++ {
		r.Entries = append(r.Entries, entry())
	}

	pages := r.Pages(3)
	require.Len(t, pages, 3)
	require.Len(t, pages[0], 3)
	require.Len(t, pages[1], 3)
	require.Len(t, pages[2], 1)

	// A zero page size means everything on one page.
	require.Len(t, r.Pages(0), 1)

	// An empty roster still yields one (empty) page.
	empty := &Roster{}
	require.Len(t, empty.Pages(10), 1)
	require.Empty(t, empty.Pages(10)[0])
}

func entry() distributor.PageEntry {
	return distributor.PageEntry{
		Stream:      solana.NewWallet().PublicKey(),
		Destination: solana.NewWallet().PublicKey(),
	}
}
