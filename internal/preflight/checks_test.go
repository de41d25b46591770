package preflight

import (
	"strings"
	"testing"
)

func TestCheck_String(t *testing.T) {
	t.Run("passed", func(t *testing.T) {
		c := Check{Name: "test_check", Passed: true, Message: "all good"}
		s := c.String()
		if !strings.Contains(s, "✓") {
			t.Error("passed check should have ✓")
		}
		if !strings.Contains(s, "all good") {
			t.Error("should contain message")
		}
	})

	t.Run("failed", func(t *testing.T) {
		c := Check{Name: "test_check", Passed: false, Message: "bad news"}
		s := c.String()
		if !strings.Contains(s, "✗") {
			t.Error("failed check should have ✗")
		}
	})
}

func TestCheckInterfaceExists(t *testing.T) {
	t.Run("nonexistent", func(t *testing.T) {
		c := checkInterfaceExists("definitely-not-a-real-iface-0")
		if c.Passed {
			t.Error("nonexistent interface should fail")
		}
		if c.Name != "interface_exists" {
			t.Errorf("Name = %q, want interface_exists", c.Name)
		}
	})

	t.Run("loopback", func(t *testing.T) {
		c := checkInterfaceExists("lo")
		if !c.Passed {
			t.Skip("no loopback interface named 'lo' on this platform")
		}
	})
}

func TestCheckPortRange(t *testing.T) {
	testCases := []struct {
		port   int
		passed bool
	}{
		{0, false},
		{-1, false},
		{1, true},
		{80, true},
		{65535, true},
		{65536, false},
		{100000, false},
	}

	for _, tc := range testCases {
		c := checkPortRange(tc.port)
		if c.Passed != tc.passed {
			t.Errorf("checkPortRange(%d).Passed = %v, want %v", tc.port, c.Passed, tc.passed)
		}
		if c.Name != "port_range" {
			t.Errorf("Name = %q, want port_range", c.Name)
		}
	}
}

func TestRunAll(t *testing.T) {
	result := RunAll("definitely-not-a-real-iface-0", 9110)

	if result == nil {
		t.Fatal("RunAll returned nil")
	}
	if len(result.Checks) != 3 {
		t.Fatalf("len(Checks) = %d, want 3", len(result.Checks))
	}
	if result.Passed {
		t.Error("Result should fail when interface does not exist")
	}

	names := map[string]bool{}
	for _, c := range result.Checks {
		names[c.Name] = true
	}
	for _, want := range []string{"interface_exists", "capture_permission", "port_range"} {
		if !names[want] {
			t.Errorf("expected %s check in results", want)
		}
	}
}

func TestRunAll_BadPortFailsEvenWithGoodInterface(t *testing.T) {
	result := RunAll("lo", 0)
	for _, c := range result.Checks {
		if c.Name == "port_range" && c.Passed {
			t.Error("port 0 should fail port_range check")
		}
	}
	if result.Passed {
		t.Error("Result should fail when port is out of range")
	}
}

func TestSuggestFix(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"interface_exists", "ip link"},
		{"capture_permission", "CAP_NET_RAW"},
		{"port_range", "1-65535"},
		{"unknown", "documentation"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fix := suggestFix(tc.name)
			if !strings.Contains(fix, tc.expected) {
				t.Errorf("suggestFix(%q) = %q, should contain %q", tc.name, fix, tc.expected)
			}
		})
	}
}

func TestResult_Passed(t *testing.T) {
	t.Run("all_pass", func(t *testing.T) {
		result := &Result{
			Checks: []Check{{Name: "a", Passed: true}, {Name: "b", Passed: true}},
			Passed: true,
		}
		if !result.Passed {
			t.Error("Result with all passing checks should pass")
		}
	})

	t.Run("one_fail", func(t *testing.T) {
		result := &Result{
			Checks: []Check{{Name: "a", Passed: true}, {Name: "b", Passed: false}},
			Passed: false,
		}
		if result.Passed {
			t.Error("Result with one failing check should fail")
		}
	})
}

func TestCheckCapturePermission_RootAlwaysPasses(t *testing.T) {
	orig := checkCapturePermission
	defer func() { checkCapturePermission = orig }()

	checkCapturePermission = func(name string) Check {
		return Check{Name: "capture_permission", Passed: true, Message: "running as root"}
	}
	result := RunAll("lo", 9110)
	for _, c := range result.Checks {
		if c.Name == "capture_permission" && !c.Passed {
			t.Error("stubbed root permission check should pass")
		}
	}
}
