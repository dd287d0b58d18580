package sessions_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bioclassify/taric/internal/sessions"
	"github.com/bioclassify/taric/pkg/pagination"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters sessions.Filters) (*pagination.PageResult[sessions.Session], error)
	findFn   func(ctx context.Context, id uuid.UUID) (*sessions.Session, error)
	createFn func(ctx context.Context, cmd sessions.CreateCommand) (*sessions.Session, error)
	appendFn func(ctx context.Context, id uuid.UUID, turns ...sessions.Turn) (*sessions.Session, error)
}

func (m *mockSystem) Handler() *sessions.Handler {
	return sessions.NewHandler(m, discardLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters sessions.Filters) (*pagination.PageResult[sessions.Session], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*sessions.Session, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd sessions.CreateCommand) (*sessions.Session, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) AppendTurns(ctx context.Context, id uuid.UUID, turns ...sessions.Turn) (*sessions.Session, error) {
	return m.appendFn(ctx, id, turns...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupMux(h *sessions.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func sampleSession() sessions.Session {
	return sessions.Session{
		ID:                 uuid.New(),
		ProductDescription: "KEYTRUDA 25 mg/mL",
		ClassifiedCode:     "3002.15.00.00",
		Confidence:         0.92,
		DatabaseValidated:  true,
		Query:              json.RawMessage(`{"description": "KEYTRUDA 25 mg/mL"}`),
		Result:             json.RawMessage(`{"hs_code": "3002.15.00.00"}`),
		History: []sessions.Turn{
			{Role: sessions.RoleUser, Content: "Why chapter 30?"},
			{Role: sessions.RoleAssistant, Content: "It is a medicament."},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestHandlerList(t *testing.T) {
	t.Run("passes query filters", func(t *testing.T) {
		s := sampleSession()
		sys := &mockSystem{
			listFn: func(_ context.Context, page pagination.PageRequest, filters sessions.Filters) (*pagination.PageResult[sessions.Session], error) {
				if filters.ClassifiedCode == nil || *filters.ClassifiedCode != "3002.15.00.00" {
					t.Errorf("ClassifiedCode filter = %v", filters.ClassifiedCode)
				}
				if filters.DatabaseValidated == nil || !*filters.DatabaseValidated {
					t.Errorf("DatabaseValidated filter = %v", filters.DatabaseValidated)
				}
				result := pagination.NewPageResult([]sessions.Session{s}, 1, page.Page, page.PageSize)
				return &result, nil
			},
		}
		mux := setupMux(sys.Handler())

		req := httptest.NewRequest(http.MethodGet, "/sessions?classified_code=3002.15.00.00&database_validated=true", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var result pagination.PageResult[sessions.Session]
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Total != 1 || len(result.Data) != 1 {
			t.Errorf("result = %+v", result)
		}
	})
}

func TestHandlerSearch(t *testing.T) {
	t.Run("passes body criteria", func(t *testing.T) {
		sys := &mockSystem{
			listFn: func(_ context.Context, page pagination.PageRequest, filters sessions.Filters) (*pagination.PageResult[sessions.Session], error) {
				if page.Page != 2 || page.PageSize != 10 {
					t.Errorf("page = %+v", page)
				}
				if filters.DatabaseValidated == nil || *filters.DatabaseValidated {
					t.Errorf("DatabaseValidated filter = %v", filters.DatabaseValidated)
				}
				result := pagination.NewPageResult([]sessions.Session{}, 0, page.Page, page.PageSize)
				return &result, nil
			},
		}
		mux := setupMux(sys.Handler())

		body := `{"page": 2, "page_size": 10, "database_validated": false}`
		req := httptest.NewRequest(http.MethodPost, "/sessions/search", strings.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(sys.Handler())

		req := httptest.NewRequest(http.MethodPost, "/sessions/search", strings.NewReader(`{"page":`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	t.Run("returns session", func(t *testing.T) {
		s := sampleSession()
		sys := &mockSystem{
			findFn: func(_ context.Context, id uuid.UUID) (*sessions.Session, error) {
				if id != s.ID {
					t.Errorf("id = %s, want %s", id, s.ID)
				}
				return &s, nil
			},
		}
		mux := setupMux(sys.Handler())

		req := httptest.NewRequest(http.MethodGet, "/sessions/"+s.ID.String(), nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var got sessions.Session
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ClassifiedCode != "3002.15.00.00" || len(got.History) != 2 {
			t.Errorf("session = %+v", got)
		}
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(context.Context, uuid.UUID) (*sessions.Session, error) {
				return nil, sessions.ErrNotFound
			},
		}
		mux := setupMux(sys.Handler())

		req := httptest.NewRequest(http.MethodGet, "/sessions/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("bad id is a 400", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(context.Context, uuid.UUID) (*sessions.Session, error) {
				t.Error("Find called for bad id")
				return nil, nil
			},
		}
		mux := setupMux(sys.Handler())

		req := httptest.NewRequest(http.MethodGet, "/sessions/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerHistory(t *testing.T) {
	t.Run("returns conversation only", func(t *testing.T) {
		s := sampleSession()
		sys := &mockSystem{
			findFn: func(context.Context, uuid.UUID) (*sessions.Session, error) {
				return &s, nil
			},
		}
		mux := setupMux(sys.Handler())

		req := httptest.NewRequest(http.MethodGet, "/sessions/"+s.ID.String()+"/history", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var history []sessions.Turn
		if err := json.NewDecoder(rec.Body).Decode(&history); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(history) != 2 || history[0].Role != sessions.RoleUser {
			t.Errorf("history = %+v", history)
		}
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(context.Context, uuid.UUID) (*sessions.Session, error) {
				return nil, sessions.ErrNotFound
			},
		}
		mux := setupMux(sys.Handler())

		req := httptest.NewRequest(http.MethodGet, "/sessions/"+uuid.NewString()+"/history", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
