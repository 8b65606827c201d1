package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/podscout/podscout/internal/domain"
	"github.com/podscout/podscout/internal/log"
)

type staticTokens struct {
	token  string
	userID string
}

func (s staticTokens) Token() string  { return s.token }
func (s staticTokens) UserID() string { return s.userID }

func newTestClient(t *testing.T, tokens TokenSource, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "anon-key", tokens, log.NullLogger())
}

func TestClient_RequestHeaders(t *testing.T) {
	var got http.Header
	client := newTestClient(t, staticTokens{token: "jwt-token"}, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("[]"))
	})

	if _, err := client.FetchPage(context.Background(), "All", 0, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Get("apikey") != "anon-key" {
		t.Errorf("apikey header = %q, want anon-key", got.Get("apikey"))
	}
	if got.Get("Authorization") != "Bearer jwt-token" {
		t.Errorf("Authorization header = %q", got.Get("Authorization"))
	}
	if got.Get("Accept") != "application/json" {
		t.Errorf("Accept header = %q", got.Get("Accept"))
	}
}

func TestClient_FetchPageQuery(t *testing.T) {
	tests := []struct {
		category     string
		wantCategory string
	}{
		{"Technology", "eq.Technology"},
		{"All", ""},
		{"", ""},
	}

	for _, test := range tests {
		var query map[string][]string
		client := newTestClient(t, staticTokens{token: "jwt"}, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/rest/v1/metadata" {
				t.Errorf("path = %q", r.URL.Path)
			}
			query = r.URL.Query()
			w.Write([]byte(`[{"id":1,"title":"T","author":"A","description":"D","youtube_url":"https://youtube.com/watch?v=1","language":"en"}]`))
		})

		eps, err := client.FetchPage(context.Background(), test.category, 40, 20)
		if err != nil {
			t.Fatalf("category %q: %v", test.category, err)
		}

		first := func(key string) string {
			if v := query[key]; len(v) > 0 {
				return v[0]
			}
			return ""
		}
		if first("order") != "created_at.desc" {
			t.Errorf("order = %q", first("order"))
		}
		if first("limit") != "20" || first("offset") != "40" {
			t.Errorf("pagination = limit %q offset %q", first("limit"), first("offset"))
		}
		if first("category") != test.wantCategory {
			t.Errorf("category %q: filter = %q, want %q", test.category, first("category"), test.wantCategory)
		}

		if len(eps) != 1 || eps[0].SourceURL != "https://youtube.com/watch?v=1" {
			t.Errorf("category %q: mapped episodes wrong: %+v", test.category, eps)
		}
		if eps[0].StreamURL != "" || eps[0].ThumbnailURL != "" {
			t.Error("catalog fetch must never populate enrichment fields")
		}
	}
}

func TestClient_FailsFastWhenLoggedOut(t *testing.T) {
	called := false
	client := newTestClient(t, staticTokens{}, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.FetchPage(context.Background(), "All", 0, 20)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if called {
		t.Error("request was sent despite missing token")
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 maps to ErrUnauthenticated",
			status: http.StatusUnauthorized,
			body:   `{"message":"JWT expired"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, domain.ErrUnauthenticated) {
					t.Errorf("got %v", err)
				}
			},
		},
		{
			name:   "server error extracts message key",
			status: http.StatusBadRequest,
			body:   `{"message":"invalid input syntax"}`,
			check: func(t *testing.T, err error) {
				var serr *domain.ServerError
				if !errors.As(err, &serr) {
					t.Fatalf("got %T", err)
				}
				if serr.Message != "invalid input syntax" || serr.Status != 400 {
					t.Errorf("serr = %+v", serr)
				}
			},
		},
		{
			name:   "server error extracts error_description key",
			status: http.StatusBadRequest,
			body:   `{"error_description":"Invalid login credentials"}`,
			check: func(t *testing.T, err error) {
				var serr *domain.ServerError
				if !errors.As(err, &serr) {
					t.Fatalf("got %T", err)
				}
				if serr.Message != "Invalid login credentials" {
					t.Errorf("message = %q", serr.Message)
				}
			},
		},
		{
			name:   "non-JSON body still yields ServerError",
			status: http.StatusBadGateway,
			body:   "upstream timeout",
			check: func(t *testing.T, err error) {
				var serr *domain.ServerError
				if !errors.As(err, &serr) {
					t.Fatalf("got %T", err)
				}
				if serr.Status != 502 {
					t.Errorf("status = %d", serr.Status)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := newTestClient(t, staticTokens{token: "jwt"}, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				w.Write([]byte(test.body))
			})

			_, err := client.FetchPage(context.Background(), "All", 0, 20)
			if err == nil {
				t.Fatal("expected error")
			}
			test.check(t, err)
		})
	}
}

func TestClient_DecodeErrorWrapped(t *testing.T) {
	client := newTestClient(t, staticTokens{token: "jwt"}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})

	_, err := client.FetchPage(context.Background(), "All", 0, 20)
	if !errors.Is(err, domain.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestClient_NetworkErrorWrapped(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "anon", staticTokens{token: "jwt"}, log.NullLogger())

	_, err := client.FetchPage(context.Background(), "All", 0, 20)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestClient_FetchByIDs(t *testing.T) {
	var filter string
	client := newTestClient(t, staticTokens{token: "jwt"}, func(w http.ResponseWriter, r *http.Request) {
		filter = r.URL.Query().Get("id")
		w.Write([]byte(`[{"id":3,"title":"x","author":"a","description":"d"}]`))
	})

	eps, err := client.FetchByIDs(context.Background(), []int64{3, 7, 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter != "in.(3,7,12)" {
		t.Errorf("id filter = %q", filter)
	}
	if len(eps) != 1 || eps[0].ID != 3 {
		t.Errorf("episodes = %+v", eps)
	}
}

func TestClient_FetchByIDsEmptySkipsRequest(t *testing.T) {
	called := false
	client := newTestClient(t, staticTokens{token: "jwt"}, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	eps, err := client.FetchByIDs(context.Background(), nil)
	if err != nil || eps != nil {
		t.Errorf("got %v, %v", eps, err)
	}
	if called {
		t.Error("empty id list still issued a request")
	}
}

func TestClient_Upsert(t *testing.T) {
	var body upsertBody
	var prefer string
	client := newTestClient(t, staticTokens{token: "jwt", userID: "user-1"}, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/rpc/upsert_podcast_library" {
			t.Errorf("path = %q", r.URL.Path)
		}
		prefer = r.Header.Get("Prefer")
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`[{"result_is_liked":true,"result_is_watch_later":false}]`))
	})

	liked := true
	status, err := client.Upsert(context.Background(), 42, &liked, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if prefer != "return=representation" {
		t.Errorf("Prefer header = %q", prefer)
	}
	if body.PodcastID != 42 || body.UserID != "user-1" {
		t.Errorf("rpc body = %+v", body)
	}
	if body.IsLiked == nil || !*body.IsLiked {
		t.Error("p_is_liked not sent as true")
	}
	if body.IsWatchLater != nil {
		t.Error("p_is_watch_later should marshal to null when not toggled")
	}
	if !status.Liked || status.WatchLater || status.EpisodeID != 42 || status.UserID != "user-1" {
		t.Errorf("status = %+v", status)
	}
}

func TestClient_UpsertBothNilIsPureRead(t *testing.T) {
	client := newTestClient(t, staticTokens{token: "jwt", userID: "user-1"}, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		json.NewDecoder(r.Body).Decode(&body)
		if string(body["p_is_liked"]) != "null" || string(body["p_is_watch_later"]) != "null" {
			t.Errorf("flags = %s / %s, want null / null", body["p_is_liked"], body["p_is_watch_later"])
		}
		w.Write([]byte(`[{"result_is_liked":false,"result_is_watch_later":true}]`))
	})

	status, err := client.Upsert(context.Background(), 7, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Liked || !status.WatchLater {
		t.Errorf("status = %+v", status)
	}
}

func TestClient_Entries(t *testing.T) {
	client := newTestClient(t, staticTokens{token: "jwt", userID: "user-1"}, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("user_id"); got != "eq.user-1" {
			t.Errorf("user_id filter = %q", got)
		}
		w.Write([]byte(`[{"podcast_id":5,"is_liked":true,"is_watch_later":false},{"podcast_id":9,"is_liked":false,"is_watch_later":true}]`))
	})

	entries, err := client.Entries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].EpisodeID != 5 || !entries[0].Liked || entries[0].UserID != "user-1" {
		t.Errorf("first entry = %+v", entries[0])
	}
}

func TestClient_Submit(t *testing.T) {
	client := newTestClient(t, staticTokens{token: "jwt"}, func(w http.ResponseWriter, r *http.Request) {
		var body submissionBody
		json.NewDecoder(r.Body).Decode(&body)
		if body.Title != "My Show" || body.YouTubeURL != "https://youtube.com/watch?v=z" {
			t.Errorf("insert body = %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":101,"title":"My Show","author":"Me","description":"d"}]`))
	})

	ep, err := client.Submit(context.Background(), domain.Submission{
		Title:      "My Show",
		Author:     "Me",
		YouTubeURL: "https://youtube.com/watch?v=z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.ID != 101 || ep.Title != "My Show" {
		t.Errorf("episode = %+v", ep)
	}
}

func TestClient_SignIn(t *testing.T) {
	client := newTestClient(t, staticTokens{}, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("grant_type"); got != "password" {
			t.Errorf("grant_type = %q", got)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "me@example.com" || body["password"] != "hunter2" {
			t.Errorf("credentials = %+v", body)
		}
		w.Write([]byte(`{"access_token":"jwt","refresh_token":"refresh","user":{"id":"user-1","email":"me@example.com","user_metadata":{"display_name":"Me"}}}`))
	})

	sess, err := client.SignIn(context.Background(), "me@example.com", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.AccessToken != "jwt" || sess.UserID != "user-1" || sess.DisplayName != "Me" {
		t.Errorf("session = %+v", sess)
	}
}

func TestClient_SignInBadCredentials(t *testing.T) {
	client := newTestClient(t, staticTokens{}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
	})

	_, err := client.SignIn(context.Background(), "me@example.com", "wrong")
	var serr *domain.ServerError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v", err)
	}
	if serr.Message != "Invalid login credentials" {
		t.Errorf("message = %q", serr.Message)
	}
}
