package main

import "testing"

func TestRootCmd_RegistersAllSubcommands(t *testing.T) {
	root := newRootCmd()
	want := []string{"lock", "unlock", "status", "doctor", "demo", "version"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("root command missing subcommand %q (err = %v)", name, err)
		}
	}
}

func TestRootCmd_PersistentFlagWiring(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"verbose", "json"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("root command missing persistent --%s flag", name)
		}
	}
}
