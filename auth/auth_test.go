package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	hashCost = bcrypt.MinCost
}

func TestLoadAccountsSeedsDefaults(t *testing.T) {
	dir := t.TempDir()

	v, err := LoadAccounts(dir)
	if err != nil {
		t.Fatalf("LoadAccounts: %v", err)
	}

	tests := []struct {
		user, pass string
		want       bool
	}{
		{"gillian", "1234", true},
		{"zabdy", "5678", true},
		{"Gillian", "1234", true},
		{"gillian", "5678", false},
		{"nobody", "1234", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := v.Verify(tt.user, tt.pass); got != tt.want {
			t.Errorf("Verify(%q, %q) = %v, want %v", tt.user, tt.pass, got, tt.want)
		}
	}

	info, err := os.Stat(filepath.Join(dir, "accounts.toml"))
	if err != nil {
		t.Fatalf("accounts.toml not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("perm: got %v", info.Mode().Perm())
	}
}

func TestAccountsFileHoldsNoPlaintext(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadAccounts(dir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "accounts.toml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, secret := range []string{`"1234"`, `"5678"`} {
		if strings.Contains(string(data), secret) {
			t.Errorf("accounts file contains plaintext %s", secret)
		}
	}
}

func TestLoadAccountsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	v, err := LoadAccounts(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.SetPassword("riley", "s3cret"); err != nil {
		t.Fatal(err)
	}
	if err := v.Save(dir); err != nil {
		t.Fatal(err)
	}

	reloaded, err := LoadAccounts(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.Verify("riley", "s3cret") || !reloaded.Verify("gillian", "1234") {
		t.Error("accounts lost on reload")
	}
	if got := reloaded.Usernames(); len(got) != 3 {
		t.Errorf("usernames: %v", got)
	}
}

// closeErrWriter buffers writes and fails on Close like a full disk would.
type closeErrWriter struct {
	bytes.Buffer
	err error
}

func (w *closeErrWriter) Close() error { return w.err }

func TestWriteAccountsReportsCloseError(t *testing.T) {
	af := accountsFile{Accounts: map[string]string{"gillian": "$2a$04$hash"}}

	ok := &closeErrWriter{}
	if err := writeAccounts(ok, af); err != nil {
		t.Fatalf("writeAccounts: %v", err)
	}
	if !strings.Contains(ok.String(), "gillian") {
		t.Errorf("encoded file: got %q", ok.String())
	}

	flushFail := errors.New("no space left on device")
	err := writeAccounts(&closeErrWriter{err: flushFail}, af)
	if !errors.Is(err, flushFail) {
		t.Errorf("got %v, want close error", err)
	}
}

func TestLoadAccountsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "accounts.toml"), []byte("[accounts\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAccounts(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestSessionLogin(t *testing.T) {
	v := VerifierFunc(func(u, p string) bool { return u == "gillian" && p == "1234" })
	s := NewSession(v)

	if s.DisplayName() != FallbackName {
		t.Errorf("signed out name: got %q", s.DisplayName())
	}

	if s.Login("gillian", "nope") {
		t.Error("wrong password accepted")
	}
	if s.LoggedIn() {
		t.Error("failed login must not sign in")
	}

	if !s.Login(" gillian ", "1234") {
		t.Fatal("valid login rejected")
	}
	u, ok := s.User()
	if !ok || u.Name != "gillian" || u.Email != "gillian@thinky.app" {
		t.Errorf("user: got %+v", u)
	}
	if s.DisplayName() != "gillian" {
		t.Errorf("display name: got %q", s.DisplayName())
	}

	s.Logout()
	if s.LoggedIn() || s.DisplayName() != FallbackName {
		t.Error("logout should clear the user")
	}
}
