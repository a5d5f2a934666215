// AngelaMos | 2026
// catalog_test.go

package market

import (
	"errors"
	"slices"
	"testing"
)

func TestCatalog_EveryCodeHasEntry(t *testing.T) {
	c := DefaultCatalog()

	for _, code := range AllCodes() {
		cfg, ok := c.Get(code)
		if !ok {
			t.Fatalf("Get(%s) not found", code)
		}
		if cfg.Code != code {
			t.Errorf("entry for %s has Code = %s", code, cfg.Code)
		}
		if cfg.Name == "" || cfg.Currency == "" || cfg.Timezone == "" || cfg.Language == "" {
			t.Errorf("entry for %s is incomplete: %+v", code, cfg)
		}
	}
}

func TestCatalog_ListEnabled_DeclarationOrder(t *testing.T) {
	c, err := NewCatalog([]Code{CZ, PL, UA}, PL)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	got := c.ListEnabled()
	want := []Code{UA, PL, CZ}
	if !slices.Equal(got, want) {
		t.Errorf("ListEnabled() = %v, want %v", got, want)
	}

	got[0] = SK
	if again := c.ListEnabled(); again[0] != UA {
		t.Errorf("ListEnabled() shares its backing array with callers")
	}
}

func TestCatalog_IsEnabled(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		code Code
		want bool
	}{
		{UA, true},
		{PL, true},
		{SK, false},
		{CZ, false},
		{Code(0), false},
		{Code(42), false},
	}

	for _, tt := range tests {
		if got := c.IsEnabled(tt.code); got != tt.want {
			t.Errorf("IsEnabled(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestCatalog_MustGetPanicsOutsideEnumeration(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustGet(Code(99)) did not panic")
		}
	}()

	DefaultCatalog().MustGet(Code(99))
}

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name    string
		enabled []Code
		def     Code
		wantErr error
	}{
		{"empty", nil, UA, ErrInvalidCatalog},
		{"unknown code", []Code{UA, Code(9)}, UA, ErrUnknownCode},
		{"default disabled", []Code{PL}, UA, ErrInvalidCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.enabled, tt.def)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewCatalog() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalogFromNames(t *testing.T) {
	c, err := CatalogFromNames([]string{"ua", " sk "}, "SK")
	if err != nil {
		t.Fatalf("CatalogFromNames: %v", err)
	}
	if c.Default() != SK {
		t.Errorf("Default() = %s, want SK", c.Default())
	}

	if _, err := CatalogFromNames([]string{"UA", "DE"}, "UA"); !errors.Is(err, ErrUnknownCode) {
		t.Errorf("unknown enabled code error = %v, want ErrUnknownCode", err)
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in     string
		want   Code
		wantOK bool
	}{
		{"UA", UA, true},
		{"pl", PL, true},
		{" Sk ", SK, true},
		{"cz", CZ, true},
		{"DE", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseCode(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseCode(%q) = (%s, %v), want (%s, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCode_TextRoundTrip(t *testing.T) {
	var c Code
	if err := c.UnmarshalText([]byte("pl")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if c != PL {
		t.Errorf("UnmarshalText(pl) = %s, want PL", c)
	}

	if _, err := Code(0).MarshalText(); !errors.Is(err, ErrUnknownCode) {
		t.Errorf("MarshalText(0) error = %v, want ErrUnknownCode", err)
	}
}
