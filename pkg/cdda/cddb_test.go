package cdda

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readResponse = `210 rock deadbeef CD database entry follows (until terminating ` + "`.'" + `)
# xmcd
#
DTITLE=Some Artist / Some Album
DYEAR=2001
DGENRE=Rock
TTITLE0=Opening
TTITLE1=Second Song
TTITLE2=Closer
.
`

func cddbTestServer(t *testing.T, queryResponse string) *CDDBClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cmd := r.URL.Query().Get("cmd")
		require.NotEmpty(t, r.URL.Query().Get("hello"))
		require.Equal(t, "6", r.URL.Query().Get("proto"))
		switch {
		case strings.HasPrefix(cmd, "cddb query "):
			fmt.Fprint(w, queryResponse)
		case strings.HasPrefix(cmd, "cddb read rock deadbeef"):
			fmt.Fprint(w, readResponse)
		default:
			t.Errorf("unexpected cmd %q", cmd)
		}
	}))
	t.Cleanup(srv.Close)
	return &CDDBClient{
		HTTPClient: srv.Client(),
		Host:       strings.TrimPrefix(srv.URL, "http://"),
		Username:   "tester",
	}
}

func TestCDDBQueryExactMatch(t *testing.T) {
	client := cddbTestServer(t, "200 rock deadbeef Some Artist / Some Album\n")
	result, err := client.Query(context.Background(), "deadbeef 3 150 7650 15150 2002")
	require.NoError(t, err)
	assert.Equal(t, "Some Artist", result.Artist)
	assert.Equal(t, "Some Album", result.Album)
	assert.Equal(t, 2001, result.Year)
	assert.Equal(t, "Rock", result.Genre)
	assert.Equal(t, []string{"Opening", "Second Song", "Closer"}, result.Tracks)
}

func TestCDDBQueryMultipleMatches(t *testing.T) {
	queryResponse := "210 Found exact matches, list follows (until terminating `.')\n" +
		"rock deadbeef Some Artist / Some Album\n" +
		"misc cafebabe Other Artist / Other Album\n" +
		".\n"
	t.Run("accept_first", func(t *testing.T) {
		client := cddbTestServer(t, queryResponse)
		client.AcceptFirstMatch = true
		result, err := client.Query(context.Background(), "deadbeef 3 150 7650 15150 2002")
		require.NoError(t, err)
		assert.Equal(t, "Some Artist", result.Artist)
		assert.Len(t, result.Tracks, 3)
	})
	t.Run("rejected", func(t *testing.T) {
		client := cddbTestServer(t, queryResponse)
		_, err := client.Query(context.Background(), "deadbeef 3 150 7650 15150 2002")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 matches")
	})
}

func TestCDDBQueryNoMatch(t *testing.T) {
	client := cddbTestServer(t, "202 No match found\n")
	_, err := client.Query(context.Background(), "deadbeef 3 150 7650 15150 2002")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "202")
}
