package wealth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"key": %q}`, r.Header.Get("X-Api-Key"))
	}))
	defer srv.Close()

	var got struct{ Key string }
	header := http.Header{"X-Api-Key": {"secret"}}
	if err := GetJSON(context.Background(), srv.Client(), srv.URL+"/ok", header, &got); err != nil {
		t.Fatalf("GetJSON() unexpected error: %v", err)
	}
	if got.Key != "secret" {
		t.Errorf("GetJSON() did not send the header, got %q", got.Key)
	}

	if err := GetJSON(context.Background(), srv.Client(), srv.URL+"/missing", nil, &got); err == nil {
		t.Error("GetJSON() on a 404 want error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := GetJSON(ctx, srv.Client(), srv.URL+"/ok", nil, &got); err == nil {
		t.Error("GetJSON() with a canceled context want error")
	}
}

func TestJSONFloat(t *testing.T) {
	var doc any
	if err := json.Unmarshal([]byte(`{"a":{"price":12.5,"zero":0,"name":"x"},"list":[{"price":3}]}`), &doc); err != nil {
		t.Fatal(err)
	}
	testCases := []struct {
		path    string
		want    float64
		wantErr bool
	}{
		{path: "$.a.price", want: 12.5},
		{path: `$["a"]["price"]`, want: 12.5},
		{path: "$.list[0].price", want: 3},
		{path: "$.list[*].price", want: 3},
		{path: "$.a.zero", wantErr: true},
		{path: "$.a.name", wantErr: true},
		{path: "$.a.missing", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			got, err := JSONFloat(tc.path, doc)
			if (err != nil) != tc.wantErr {
				t.Fatalf("JSONFloat(%q) error = %v, wantErr %v", tc.path, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("JSONFloat(%q) = %v want %v", tc.path, got, tc.want)
			}
		})
	}
}
