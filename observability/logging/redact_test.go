package logging

import (
	"log/slog"
	"testing"
)

func TestIsAllowlistedKnownKeys(t *testing.T) {
	for _, key := range []string{"service", "env", "message", "severity", "timestamp", "error", "reason", "component", "Service", " env "} {
		if !IsAllowlisted(key) {
			t.Fatalf("IsAllowlisted(%q) = false, want true", key)
		}
	}
	if IsAllowlisted("account") {
		t.Fatalf("IsAllowlisted(%q) = true, want false", "account")
	}
}

func TestMaskValueLeavesEmptyValuesAlone(t *testing.T) {
	if got := MaskValue(""); got != "" {
		t.Fatalf("MaskValue(empty) = %q, want empty", got)
	}
	if got := MaskValue("bech1abc..."); got != RedactedValue {
		t.Fatalf("MaskValue(nonempty) = %q, want %q", got, RedactedValue)
	}
}

func TestMaskFieldRedactsNonAllowlistedKeys(t *testing.T) {
	attr := MaskField("account", "bech1abc...")
	if attr.Value.String() != RedactedValue {
		t.Fatalf("MaskField(account) = %q, want %q", attr.Value.String(), RedactedValue)
	}

	attr = MaskField("reason", "invalid bond amount")
	if attr.Value.String() != "invalid bond amount" {
		t.Fatalf("MaskField(reason) = %q, want value unchanged", attr.Value.String())
	}

	attr = MaskField("account", "")
	if attr.Value.Kind() != slog.KindString || attr.Value.String() != "" {
		t.Fatalf("MaskField(account, empty) = %+v, want empty string unchanged", attr)
	}
}
