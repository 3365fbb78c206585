// internal/core/domain/wildcard_test.go
package domain

import (
	"testing"

	"dnsrake/internal/testutil"
)

func TestNewWildcardSet_EmptyIsNone(t *testing.T) {
	testutil.AssertTrue(t, NewWildcardSet(AddressSet{}) == nil, "empty set means no wildcard")
}

func TestWildcardSet_Explains(t *testing.T) {
	wc := NewWildcardSet(MustParseAddressSet("9.9.9.9", "9.9.9.10"))

	tests := []struct {
		name     string
		addrs    AddressSet
		expected bool
	}{
		{"exact set", MustParseAddressSet("9.9.9.9", "9.9.9.10"), true},
		{"strict subset", MustParseAddressSet("9.9.9.9"), true},
		{"superset", MustParseAddressSet("9.9.9.9", "9.9.9.10", "1.1.1.1"), false},
		{"partial overlap", MustParseAddressSet("9.9.9.9", "1.1.1.1"), false},
		{"disjoint", MustParseAddressSet("1.2.3.4"), false},
		{"empty", AddressSet{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, wc.Explains(tt.addrs), tt.expected, "explains")
		})
	}
}

func TestWildcardSet_Nil(t *testing.T) {
	var wc *WildcardSet

	testutil.AssertFalse(t, wc.Explains(MustParseAddressSet("1.2.3.4")), "nil explains nothing")
	testutil.AssertTrue(t, wc.Addresses().IsEmpty(), "nil has no addresses")
	testutil.AssertEqual(t, wc.String(), "none", "nil string")
}

func TestWildcardSet_Addresses(t *testing.T) {
	wc := NewWildcardSet(MustParseAddressSet("9.9.9.9"))
	testutil.AssertEqual(t, wc.String(), "{9.9.9.9}", "string")
	testutil.AssertTrue(t, wc.Addresses().Equal(MustParseAddressSet("9.9.9.9")), "addresses")
}
