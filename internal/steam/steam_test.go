package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(spyURL, storeURL string) *Client {
	return NewClient(spyURL, storeURL, 2*time.Second, nil, nil)
}

func TestStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("request") != "appdetails" {
			t.Errorf("unexpected request param %q", r.URL.Query().Get("request"))
		}
		w.Write([]byte(`{"appid": 620, "positive": 300, "negative": 100}`))
	}))
	defer srv.Close()

	got := newTestClient(srv.URL, "").Stats(context.Background(), 620)
	want := Stats{PositiveReviews: "300", NegativeReviews: "100", TotalReviews: "400", OverallScore: "75.00%"}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestStatsUnavailableOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	got := newTestClient(srv.URL, "").Stats(context.Background(), 620)
	if got != UnavailableStats() {
		t.Errorf("Stats() on upstream failure = %+v, want all Unavailable", got)
	}
}

func TestStatsZeroReviews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"positive": 0, "negative": 0}`))
	}))
	defer srv.Close()

	got := newTestClient(srv.URL, "").Stats(context.Background(), 620)
	want := Stats{PositiveReviews: "0", NegativeReviews: "0", TotalReviews: "0", OverallScore: "0.00%"}
	if got != want {
		t.Errorf("Stats() with no reviews = %+v, want %+v", got, want)
	}
}

func TestReviewsSkipsEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/620" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"success": 1, "reviews": [
			{"review": "Great game", "voted_up": true},
			{"review": "", "voted_up": false},
			{"review": "Mediocre", "voted_up": false}
		]}`))
	}))
	defer srv.Close()

	got, err := newTestClient("", srv.URL+"/").Reviews(context.Background(), 620)
	if err != nil {
		t.Fatalf("Reviews() error = %v", err)
	}
	want := []string{"Great game", "Mediocre"}
	if len(got) != len(want) {
		t.Fatalf("Reviews() returned %d texts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Reviews()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReviewsErrorsOnRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": 0}`))
	}))
	defer srv.Close()

	if _, err := newTestClient("", srv.URL+"/").Reviews(context.Background(), 620); err == nil {
		t.Error("Reviews() error = nil, want bad gateway error")
	}
}
