package session

import (
	"testing"
	"time"

	"gestiogastos/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "marc@gruplomi.com", "rol": "operari"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestLifecycle(t *testing.T) {
	s := New("light", "ca")

	if s.Authenticated() {
		t.Fatal("fresh session reports authenticated")
	}

	user := model.User{Email: "marc@gruplomi.com", Role: model.RoleOperari}
	s.Start(user, "token-123")

	if !s.Authenticated() || s.Token() != "token-123" {
		t.Fatal("session did not hold the token")
	}
	got, ok := s.User()
	if !ok || got.Email != user.Email {
		t.Fatalf("User() = %+v, %v", got, ok)
	}

	s.Clear()
	if s.Authenticated() {
		t.Error("session still authenticated after Clear")
	}
	if _, ok := s.User(); ok {
		t.Error("user survived Clear")
	}
	// Preferences are not identity; they survive the teardown.
	if s.Theme() != "light" || s.Language() != "ca" {
		t.Errorf("preferences lost on Clear: %s/%s", s.Theme(), s.Language())
	}
}

func TestUserCopies(t *testing.T) {
	s := New("light", "es")
	s.Start(model.User{Email: "marc@gruplomi.com"}, "tok")

	got, _ := s.User()
	got.Email = "altered@x.com"

	again, _ := s.User()
	if again.Email != "marc@gruplomi.com" {
		t.Error("mutating the returned user changed session state")
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name  string
		token string
		want  bool
	}{
		{"no token", "", true},
		{"garbage token", "not-a-jwt", true},
		{"future exp", signedToken(t, now.Add(time.Hour)), false},
		{"past exp", signedToken(t, now.Add(-time.Hour)), true},
		{"no exp claim", signedToken(t, time.Time{}), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New("light", "es")
			if tc.token != "" {
				s.SetToken(tc.token)
			}
			if got := s.TokenExpired(now); got != tc.want {
				t.Errorf("TokenExpired() = %v, want %v", got, tc.want)
			}
		})
	}
}
