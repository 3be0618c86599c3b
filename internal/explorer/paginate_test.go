package explorer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func pagingClient(srvURL string, pageSize, maxPages int) *Client {
	return NewClient(Options{
		BaseURL:     srvURL,
		APIKey:      "k",
		PageSize:    pageSize,
		MaxPages:    maxPages,
		MinInterval: time.Millisecond,
		BackoffBase: time.Millisecond,
		Timeout:     time.Second,
	}, noopLogger())
}

func TestFetchWindowFiltersToWindow(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		q := r.URL.Query()
		if got := q.Get("sort"); got != "desc" {
			t.Errorf("want sort=desc, got %q", got)
		}
		if got := q.Get("module"); got != "account" {
			t.Errorf("want module=account, got %q", got)
		}
		fmt.Fprint(w, rowsJSON(250, 150, 50))
	}))
	defer srv.Close()

	c := pagingClient(srv.URL, 1000, 10)

	res, err := c.FetchWindow(context.Background(), ActionTxList, "0xabc", Window{Start: 100, End: 200})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 1 || res.Rows[0].Unix() != 150 {
		t.Fatalf("want exactly the in-window row, got %+v", res.Rows)
	}
	if res.Truncated {
		t.Fatal("short history must not be marked truncated")
	}
	if calls != 1 {
		t.Fatalf("want 1 call, got %d", calls)
	}
}

func TestFetchWindowStopsBelowWindowStart(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, rowsJSON(150, 120, 90))
	}))
	defer srv.Close()

	c := pagingClient(srv.URL, 3, 10)

	res, err := c.FetchWindow(context.Background(), ActionTokenTx, "0xabc", Window{Start: 100, End: 200})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("want 2 in-window rows, got %d", len(res.Rows))
	}
	if calls != 1 {
		t.Fatalf("a page reaching below the window start must end paging, saw %d calls", calls)
	}
}

func TestFetchWindowTruncatedAtPageCeiling(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		base := int64(200 - 10*(page-1)*3)
		fmt.Fprint(w, rowsJSON(base, base-10, base-20))
	}))
	defer srv.Close()

	c := pagingClient(srv.URL, 3, 2)

	res, err := c.FetchWindow(context.Background(), ActionTxListInternal, "0xabc", Window{Start: 100, End: 200})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("want paging capped at 2 calls, got %d", calls)
	}
	if len(res.Rows) != 6 {
		t.Fatalf("want 6 rows across 2 pages, got %d", len(res.Rows))
	}
	if !res.Truncated {
		t.Fatal("hitting the page ceiling with a full page must mark the result truncated")
	}
}

func TestFetchWindowEmptyHistory(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, rowsJSON())
	}))
	defer srv.Close()

	c := pagingClient(srv.URL, 3, 10)

	res, err := c.FetchWindow(context.Background(), ActionTxList, "0xabc", Window{Start: 100, End: 200})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 0 || res.Truncated {
		t.Fatalf("empty history must yield an empty untruncated result, got %+v", res)
	}
	if calls != 1 {
		t.Fatalf("want 1 call, got %d", calls)
	}
}

func TestFirstSeen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("action"); got != "txlist" {
			t.Errorf("want action=txlist, got %q", got)
		}
		if got := q.Get("page"); got != "1" {
			t.Errorf("want page=1, got %q", got)
		}
		if got := q.Get("offset"); got != "1" {
			t.Errorf("want offset=1, got %q", got)
		}
		if got := q.Get("sort"); got != "asc" {
			t.Errorf("want sort=asc, got %q", got)
		}
		fmt.Fprint(w, rowsJSON(1438269973))
	}))
	defer srv.Close()

	c := pagingClient(srv.URL, 1000, 10)

	ts, err := c.FirstSeen(context.Background(), "0xabc")
	if err != nil {
		t.Fatal(err)
	}
	if ts != 1438269973 {
		t.Fatalf("want first-seen 1438269973, got %d", ts)
	}
}

func TestFirstSeenNoHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rowsJSON())
	}))
	defer srv.Close()

	c := pagingClient(srv.URL, 1000, 10)

	ts, err := c.FirstSeen(context.Background(), "0xabc")
	if err != nil {
		t.Fatal(err)
	}
	if ts != 0 {
		t.Fatalf("a wallet with no history must report zero, got %d", ts)
	}
}
