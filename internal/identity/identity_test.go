package identity

import (
	"os"
	"os/user"
	"regexp"
	"testing"
)

var agentIDPattern = regexp.MustCompile(`^agent-[0-9a-f]{4}$`)

func TestCurrent_PopulatesEveryField(t *testing.T) {
	t.Setenv(EnvOwner, "")
	t.Setenv(EnvAgentID, "")

	id := Current()

	if id.Owner == "" {
		t.Error("Owner should not be empty")
	}
	if id.Host == "" {
		t.Error("Host should not be empty")
	}
	if id.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", id.PID, os.Getpid())
	}
	if !agentIDPattern.MatchString(id.AgentID) {
		t.Errorf("AgentID = %q, want auto-generated agent-XXXX", id.AgentID)
	}
}

func TestCurrent_EnvOverrides(t *testing.T) {
	t.Setenv(EnvOwner, "deploy-bot")
	t.Setenv(EnvAgentID, "builder-1")

	id := Current()
	if id.Owner != "deploy-bot" {
		t.Errorf("Owner = %q, want %q", id.Owner, "deploy-bot")
	}
	if id.AgentID != "builder-1" {
		t.Errorf("AgentID = %q, want %q", id.AgentID, "builder-1")
	}
}

func TestGetOwner_FallsBackToUsername(t *testing.T) {
	t.Setenv(EnvOwner, "")

	u, err := user.Current()
	if err != nil {
		t.Skipf("cannot get current user: %v", err)
	}
	if owner := getOwner(); owner != u.Username {
		t.Errorf("Owner = %q, want OS username %q", owner, u.Username)
	}
}

func TestGetHost_ReturnsHostname(t *testing.T) {
	expected, err := os.Hostname()
	if err != nil {
		t.Skipf("cannot get hostname: %v", err)
	}
	if host := getHost(); host != expected {
		t.Errorf("Host = %q, want %q", host, expected)
	}
}

func TestGenerateAgentID_StableWithinProcess(t *testing.T) {
	a := generateAgentID()
	b := generateAgentID()
	if a != b {
		t.Errorf("generateAgentID() not stable: %q != %q", a, b)
	}
	if !agentIDPattern.MatchString(a) {
		t.Errorf("generateAgentID() = %q, want pattern agent-XXXX", a)
	}
}
