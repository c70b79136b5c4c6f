package mailtmpl

import (
	"strings"
	"testing"
)

func TestWelcome_ContainsCredentialsAndLink(t *testing.T) {
	t.Parallel()

	html, err := Welcome("uye@example.com", "ks7dAa1!", "https://uyelik.gyiad.com/login")
	if err != nil {
		t.Fatalf("Welcome: %v", err)
	}
	for _, want := range []string{"uye@example.com", "ks7dAa1!", "https://uyelik.gyiad.com/login", "GYİAD"} {
		if !strings.Contains(html, want) {
			t.Errorf("welcome mail missing %q", want)
		}
	}
}

func TestResetCode_ContainsCodeAndTTL(t *testing.T) {
	t.Parallel()

	html, err := ResetCode("4321", 15)
	if err != nil {
		t.Fatalf("ResetCode: %v", err)
	}
	if !strings.Contains(html, "4321") {
		t.Errorf("reset mail missing code")
	}
	if !strings.Contains(html, "15") {
		t.Errorf("reset mail missing validity window")
	}
}

func TestRequestReplied_EscapesHTML(t *testing.T) {
	t.Parallel()

	html, err := RequestReplied("Ayşe Yılmaz", "Aidat", "<script>alert(1)</script>", "Dekont alındı.", "https://uyelik.gyiad.com/login")
	if err != nil {
		t.Fatalf("RequestReplied: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("member-supplied message rendered unescaped")
	}
	if !strings.Contains(html, "Dekont alındı.") {
		t.Errorf("reply text missing")
	}
}
