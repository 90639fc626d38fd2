package utils

import "testing"

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Contact Us":        "contact-us",
		"  Summer SALE!  ":  "summer-sale",
		"Café & Croissants": "cafe-croissants",
		"already-a-slug":    "already-a-slug",
		"---":               "",
	}

	for input, want := range cases {
		if got := GenerateSlug(input); got != want {
			t.Fatalf("GenerateSlug(%q) = %q, want %q", input, got, want)
		}
	}
}
