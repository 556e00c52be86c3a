package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Values [][]any
}

func newFakeSheetsAPI(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		requests []recordedRequest
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if r.Body != nil && r.Method != http.MethodGet {
			var body struct {
				Values [][]any `json:"values"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			rec.Values = body.Values
		}
		mu.Lock()
		requests = append(requests, rec)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/v4/spreadsheets/sheet-1":
			_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","properties":{"title":"CRM"},"sheets":[{"properties":{"title":"Propiedades"}},{"properties":{"title":"META"}}]}`))
		case strings.HasSuffix(r.URL.Path, ":append"):
			_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
		case r.Method == http.MethodPut:
			_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
		case strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-1/values/"):
			_, _ = w.Write([]byte(`{"range":"Propiedades!A1:C2","values":[["ID","Precio","Amoblado"],["P-1",1500,true]]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func newTestGoogleClient(t *testing.T, server *httptest.Server) *GoogleClient {
	t.Helper()

	client, err := NewGoogleClient(context.Background(), GoogleConfig{
		SpreadsheetID: "sheet-1",
		HTTPClient:    server.Client(),
		Endpoint:      server.URL + "/",
	})
	if err != nil {
		t.Fatalf("NewGoogleClient error: %v", err)
	}
	return client
}

func TestGoogleClientInfoAndGetValues(t *testing.T) {
	t.Parallel()

	server, _ := newFakeSheetsAPI(t)
	client := newTestGoogleClient(t, server)
	ctx := context.Background()

	info, err := client.Info(ctx)
	if err != nil {
		t.Fatalf("Info error: %v", err)
	}
	if info.Title != "CRM" || !reflect.DeepEqual(info.SheetTitles, []string{"Propiedades", "META"}) {
		t.Fatalf("unexpected info: %+v", info)
	}

	rows, err := client.GetValues(ctx, QuoteTab("Propiedades"))
	if err != nil {
		t.Fatalf("GetValues error: %v", err)
	}
	want := [][]string{{"ID", "Precio", "Amoblado"}, {"P-1", "1500", "true"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v, want %#v", rows, want)
	}
}

func TestGoogleClientWritesUseUserEnteredValues(t *testing.T) {
	t.Parallel()

	server, requests := newFakeSheetsAPI(t)
	client := newTestGoogleClient(t, server)
	ctx := context.Background()

	if err := client.AppendValues(ctx, QuoteTab("Citas"), [][]string{{"A-1", "Ana"}}); err != nil {
		t.Fatalf("AppendValues error: %v", err)
	}
	if err := client.UpdateValues(ctx, RowRange("Citas", 3), [][]string{{"A-1", "Ana María"}}); err != nil {
		t.Fatalf("UpdateValues error: %v", err)
	}

	got := requests()
	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}

	appendReq := got[0]
	if appendReq.Method != http.MethodPost || !strings.Contains(appendReq.Query, "insertDataOption=INSERT_ROWS") || !strings.Contains(appendReq.Query, "valueInputOption=USER_ENTERED") {
		t.Fatalf("unexpected append request: %+v", appendReq)
	}
	if !reflect.DeepEqual(appendReq.Values, [][]any{{"A-1", "Ana"}}) {
		t.Fatalf("unexpected append body: %#v", appendReq.Values)
	}

	updateReq := got[1]
	if updateReq.Method != http.MethodPut || !strings.Contains(updateReq.Query, "valueInputOption=USER_ENTERED") {
		t.Fatalf("unexpected update request: %+v", updateReq)
	}
}

func TestNewGoogleClientRequiresCredentials(t *testing.T) {
	t.Parallel()

	if _, err := NewGoogleClient(context.Background(), GoogleConfig{SpreadsheetID: "sheet-1"}); err == nil {
		t.Fatal("expected error without credentials")
	}
	if _, err := NewGoogleClient(context.Background(), GoogleConfig{}); err == nil {
		t.Fatal("expected error without spreadsheet id")
	}
}
