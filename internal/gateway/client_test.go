package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gestiogastos/internal/model"
	"gestiogastos/internal/session"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	sess := session.New("light", "es")
	return New(server.URL, 5*time.Second, sess, nil), sess
}

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("login used method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("login content type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "marc@gruplomi.com" || r.PostForm.Get("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Usuari o contrasenya invàlids"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-abc", "token_type": "bearer"})
	})

	t.Run("success installs token", func(t *testing.T) {
		client, sess := newTestClient(t, mux)
		token, err := client.Login(context.Background(), "marc@gruplomi.com", "secret")
		if err != nil {
			t.Fatalf("Login() error: %v", err)
		}
		if token != "tok-abc" || sess.Token() != "tok-abc" {
			t.Errorf("token = %q, session token = %q, want tok-abc", token, sess.Token())
		}
	})

	t.Run("rejected credentials", func(t *testing.T) {
		client, sess := newTestClient(t, mux)
		_, err := client.Login(context.Background(), "marc@gruplomi.com", "wrong")
		var authErr *model.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("Login() = %v, want AuthError", err)
		}
		if sess.Authenticated() {
			t.Error("failed login left a token behind")
		}
	})
}

func TestBearerTokenOnProtectedCalls(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/tickets", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]map[string]any{})
	})

	client, sess := newTestClient(t, mux)
	sess.SetToken("tok-abc")

	if _, err := client.ListTickets(context.Background(), model.TicketFilter{}); err != nil {
		t.Fatalf("ListTickets() error: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q, want Bearer tok-abc", gotAuth)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tickets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "No autenticado"})
	})

	client, sess := newTestClient(t, mux)
	sess.Start(model.User{Email: "marc@gruplomi.com", Role: model.RoleOperari}, "stale-token")

	_, err := client.ListTickets(context.Background(), model.TicketFilter{})
	if !errors.Is(err, model.ErrSessionExpired) {
		t.Fatalf("ListTickets() = %v, want ErrSessionExpired", err)
	}
	if sess.Authenticated() {
		t.Error("session still holds a token after a 401")
	}
	if _, ok := sess.User(); ok {
		t.Error("session still holds a user after a 401")
	}
}

func TestListTicketsDecoding(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tickets", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("status"); got != "pending" {
			t.Errorf("status query = %q, want pending", got)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id": 3, "date": "2024-09-14", "tipus": "Gasolina",
				"description": "Viaje a Barcelona", "project": "Proyecto Beta",
				"total": 68.40, "kilometers": 120.0, "price_per_km": 0.57,
				"status": "pending", "created_by": "marc@gruplomi.com",
				"created_at": "2024-09-14T08:30:00", "updated_at": "2024-09-14T08:30:00",
			},
		})
	})

	client, sess := newTestClient(t, mux)
	sess.SetToken("tok")

	tickets, err := client.ListTickets(context.Background(), model.TicketFilter{Status: model.StatusPending})
	if err != nil {
		t.Fatalf("ListTickets() error: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("got %d tickets, want 1", len(tickets))
	}
	got := tickets[0]
	if got.ID != 3 || got.Type != model.TypeFuel || got.Status != model.StatusPending {
		t.Errorf("decoded ticket = %+v", got)
	}
	if got.Kilometers == nil || got.PricePerKm == nil {
		t.Fatal("fuel fields lost in decoding")
	}
	if !got.Total.Equal(got.Kilometers.Mul(*got.PricePerKm).Round(2)) {
		t.Errorf("total %s does not match %s * %s", got.Total, got.Kilometers, got.PricePerKm)
	}
	if got.Date.Format("2006-01-02") != "2024-09-14" {
		t.Errorf("date = %v", got.Date)
	}
}

func TestCreateTicketRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tickets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("create used method %s", r.Method)
		}
		if r.Header.Get("Idempotence-Key") == "" {
			t.Error("create request missing Idempotence-Key")
		}
		var body struct {
			Tipus      []string `json:"tipus"`
			Kilometers *float64 `json:"kilometers"`
			PricePerKm *float64 `json:"price_per_km"`
			Total      *float64 `json:"total"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode create body: %v", err)
		}
		if len(body.Tipus) != 1 || body.Tipus[0] != "Gasolina" {
			t.Errorf("tipus = %v", body.Tipus)
		}
		if body.Total != nil {
			t.Error("fuel create should omit total; the server computes it")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": 9, "date": "2024-09-20", "tipus": "Gasolina",
			"description": "d", "project": "p", "total": 68.40,
			"kilometers": 120.0, "price_per_km": 0.57,
			"status": "pending", "created_by": "marc@gruplomi.com",
			"created_at": "2024-09-20T10:00:00", "updated_at": "2024-09-20T10:00:00",
		})
	})

	client, sess := newTestClient(t, mux)
	sess.SetToken("tok")

	km := dec("120")
	price := dec("0.57")
	created, err := client.CreateTicket(context.Background(), model.Ticket{
		Type:        model.TypeFuel,
		Description: "d",
		Project:     "p",
		Kilometers:  &km,
		PricePerKm:  &price,
	})
	if err != nil {
		t.Fatalf("CreateTicket() error: %v", err)
	}
	if created.ID != 9 {
		t.Errorf("got id %d, want server-assigned 9", created.ID)
	}
}

func TestUpdateTicketStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tickets/3/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Fatalf("status update used method %s", r.Method)
		}
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode status body: %v", err)
		}
		if body.Status != "validated" {
			t.Errorf("status = %q, want validated", body.Status)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": 3, "date": "2024-09-14", "tipus": "Dieta",
			"description": "d", "project": "p", "total": 45.50,
			"status": "validated", "created_by": "marc@gruplomi.com",
			"validated_by": "anna@gruplomi.com",
			"created_at":   "2024-09-14T08:30:00", "updated_at": "2024-09-15T09:00:00",
		})
	})

	client, sess := newTestClient(t, mux)
	sess.SetToken("tok")

	updated, err := client.UpdateTicketStatus(context.Background(), 3, model.StatusValidated)
	if err != nil {
		t.Fatalf("UpdateTicketStatus() error: %v", err)
	}
	if updated.Status != model.StatusValidated || updated.ValidatedBy != "anna@gruplomi.com" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tickets/99", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Ticket no encontrado"})
	})

	client, sess := newTestClient(t, mux)
	sess.SetToken("tok")

	if _, err := client.GetTicket(context.Background(), 99); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetTicket(99) = %v, want ErrNotFound", err)
	}
}

func TestNetworkErrorWrapping(t *testing.T) {
	sess := session.New("light", "es")
	client := New("http://127.0.0.1:1", time.Second, sess, nil)
	sess.SetToken("tok")

	_, err := client.ListTickets(context.Background(), model.TicketFilter{})
	var netErr *model.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("got %v, want NetworkError", err)
	}
}

func TestMeNormalizesRole(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"email": "marc@gruplomi.com", "role": "Operario"})
	})

	client, sess := newTestClient(t, mux)
	sess.SetToken("tok")

	email, role, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error: %v", err)
	}
	if email != "marc@gruplomi.com" || role != model.RoleOperari {
		t.Errorf("Me() = %q, %q", email, role)
	}
}

func TestSiteConfigMergesDefaults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"currency": "USD"})
	})

	client, sess := newTestClient(t, mux)
	sess.SetToken("tok")

	site, err := client.SiteConfig(context.Background())
	if err != nil {
		t.Fatalf("SiteConfig() error: %v", err)
	}
	if site.Currency() != "USD" {
		t.Errorf("Currency() = %q, want remote override USD", site.Currency())
	}
	if site.DefaultKmPrice().String() != "0.57" {
		t.Errorf("DefaultKmPrice() = %s, want default 0.57", site.DefaultKmPrice())
	}
}
