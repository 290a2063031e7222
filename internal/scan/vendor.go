/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package scan

import "fmt"

// VendorPolicyKind selects how a scan enforces the vendor segment of
// discovered GTS IDs. Modeled as a flat value type (kind + data fields)
// rather than an interface hierarchy, matching gts.GtsIDSegment's own
// preference for plain structs over polymorphism.
type VendorPolicyKind string

const (
	// VendorAny accepts any vendor token.
	VendorAny VendorPolicyKind = "any"
	// VendorMustMatch requires every discovered ID to use exactly Vendor.
	VendorMustMatch VendorPolicyKind = "must_match"
	// VendorAllowList requires every discovered ID's vendor to be a member
	// of Vendors.
	VendorAllowList VendorPolicyKind = "allow_list"
)

// ExampleVendors are tolerated under any policy: documentation commonly
// illustrates GTS IDs using one of these placeholder vendors, and flagging
// them as policy violations would make every README a false positive.
var ExampleVendors = []string{"acme", "globex", "example", "test", "foo", "bar"}

// VendorPolicy configures vendor enforcement for a scan.
type VendorPolicy struct {
	Kind    VendorPolicyKind
	Vendor  string
	Vendors []string
}

// AnyVendor is the permissive default policy.
func AnyVendor() VendorPolicy {
	return VendorPolicy{Kind: VendorAny}
}

// MustMatchVendor requires exactly vendor (example vendors still tolerated).
func MustMatchVendor(vendor string) VendorPolicy {
	return VendorPolicy{Kind: VendorMustMatch, Vendor: vendor}
}

// AllowListVendors requires vendor membership in vendors (example vendors
// still tolerated).
func AllowListVendors(vendors []string) VendorPolicy {
	return VendorPolicy{Kind: VendorAllowList, Vendors: vendors}
}

func isExampleVendor(vendor string) bool {
	for _, v := range ExampleVendors {
		if vendor == v {
			return true
		}
	}
	return false
}

// Check reports whether vendor satisfies the policy, returning a
// human-readable mismatch reason ("Vendor mismatch: ...") when it doesn't.
func (p VendorPolicy) Check(vendor string) (bool, string) {
	if isExampleVendor(vendor) {
		return true, ""
	}

	switch p.Kind {
	case VendorAny, "":
		return true, ""
	case VendorMustMatch:
		if vendor == p.Vendor {
			return true, ""
		}
		return false, fmt.Sprintf("Vendor mismatch: expected '%s', got '%s'", p.Vendor, vendor)
	case VendorAllowList:
		for _, v := range p.Vendors {
			if vendor == v {
				return true, ""
			}
		}
		return false, fmt.Sprintf("Vendor mismatch: '%s' is not in the allowed vendor list %v", vendor, p.Vendors)
	default:
		return true, ""
	}
}
