package report

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/samcharles93/machouuid/internal/machotest"
	"github.com/samcharles93/machouuid/pkg/macho"
)

func TestBuildFat(t *testing.T) {
	t.Parallel()

	data := machotest.Fat(
		machotest.Member{CPU: machotest.CPUTypeX86_64, Image: machotest.Thin{Is64: true}.Bytes()},
		machotest.Member{CPU: machotest.CPUTypeARM64, Image: machotest.Thin{
			Is64: true,
			Cmds: []machotest.LoadCmd{machotest.UUID(machotest.Seq(0x61))},
		}.Bytes()},
	)
	rep, err := macho.Locator{}.Inspect(data)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	res := Build(rep, len(data), false)
	if res.Status != "success" || res.Kind != "fat-32" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.UUID != uuid.UUID(machotest.Seq(0x61)).String() {
		t.Fatalf("uuid = %q", res.UUID)
	}
	if len(res.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(res.Members))
	}
	if res.Members[0].Status != "not_found" || res.Members[0].UUID != "" || res.Members[0].LoadCommandIndex != nil {
		t.Fatalf("unexpected first member: %+v", res.Members[0])
	}
	if res.Members[1].CPU != "CpuArm64" || res.Members[1].LoadCommandIndex == nil || *res.Members[1].LoadCommandIndex != 0 {
		t.Fatalf("unexpected second member: %+v", res.Members[1])
	}
	if res.MemberCount != 2 || res.MembersTruncated {
		t.Fatalf("member count = %d truncated = %v", res.MemberCount, res.MembersTruncated)
	}
}

func TestBuildFailSafe(t *testing.T) {
	t.Parallel()

	data := make([]byte, 40)
	rep, err := macho.Locator{}.Inspect(data)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	if res := Build(rep, len(data), false); res.UUID != "" || res.Order != "" {
		t.Fatalf("unexpected result without fail-safe: %+v", res)
	}
	if res := Build(rep, len(data), true); res.UUID != macho.SentinelText {
		t.Fatalf("fail-safe uuid = %q", res.UUID)
	}
}

func TestFailed(t *testing.T) {
	t.Parallel()

	res := Failed(12, errors.New("boom"))
	if res.Status != "malformed" || res.Error != "boom" || res.Size != 12 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
