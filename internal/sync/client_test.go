package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_ChildrenAndSet(t *testing.T) {
	store := map[string]Document{
		"k1": {"book_title": "Bumi"},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/literacy_logs.json":
			_ = json.NewEncoder(w).Encode(store)
		case r.Method == http.MethodPut && r.URL.Path == "/literacy_logs/k2.json":
			var doc Document
			_ = json.NewDecoder(r.Body).Decode(&doc)
			store["k2"] = doc
			_ = json.NewEncoder(w).Encode(doc)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	ctx := context.Background()

	docs, err := c.Children(ctx, "literacy_logs")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs["k1"]["book_title"] != "Bumi" {
		t.Fatalf("children: %v", docs)
	}

	if err := c.Set(ctx, "literacy_logs", "k2", Document{"book_title": "Hujan"}); err != nil {
		t.Fatal(err)
	}
	if store["k2"]["book_title"] != "Hujan" {
		t.Fatalf("set не дошёл: %v", store)
	}
}

func TestClient_Push(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprint(w, `{"name":"-generated-key"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	key, err := c.Push(context.Background(), "literacy_logs", Document{"book_title": "Bumi"})
	if err != nil {
		t.Fatal(err)
	}
	if key != "-generated-key" {
		t.Fatalf("key: %q", key)
	}
}

func TestClient_TokenInQuery(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.URL.Query().Get("auth")
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	if _, err := c.Children(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "secret" {
		t.Fatalf("auth: %q", gotAuth)
	}
}

func TestClient_Listen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			http.Error(w, "not a stream", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)
		fmt.Fprint(w, "event: put\n")
		fmt.Fprint(w, `data: {"path":"/k1","data":{"book_title":"Bumi"}}`+"\n\n")
		fl.Flush()
		fmt.Fprint(w, "event: keep-alive\ndata: null\n\n")
		fl.Flush()
		fmt.Fprint(w, "event: patch\n")
		fmt.Fprint(w, `data: {"path":"/","data":{}}`+"\n\n")
		fl.Flush()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := NewClient(srv.URL, "")
	events, err := c.Listen(ctx, "literacy_logs")
	if err != nil {
		t.Fatal(err)
	}

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) != 2 {
		t.Fatalf("ожидали put и patch, получили %v", got)
	}
	if got[0].Type != "put" || got[0].Path != "/k1" {
		t.Fatalf("первое событие: %+v", got[0])
	}
	var doc Document
	if err := json.Unmarshal(got[0].Data, &doc); err != nil || doc["book_title"] != "Bumi" {
		t.Fatalf("payload: %v %v", doc, err)
	}
}
