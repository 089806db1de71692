package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spf13/cobra"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"signup", "signin", "google", "logout", "whoami", "notes", "health"}
	got := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		got[sub.Name()] = true
	}

	for _, name := range want {
		assert.True(t, got[name], "missing subcommand %q", name)
	}
}

func TestReadCode(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("  123456  \n"))
	cmd.SetOut(&strings.Builder{})

	code, err := readCode(cmd)

	require.NoError(t, err)
	assert.Equal(t, "123456", code)
}

func TestReadCode_Empty(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetOut(&strings.Builder{})

	_, err := readCode(cmd)

	assert.ErrorContains(t, err, "no passcode")
}

func TestSignupInput_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   signupInput
		wantErr bool
	}{
		{"valid", signupInput{Email: "ada@example.com", Name: "Ada", DOB: "1990-12-10"}, false},
		{"bad email", signupInput{Email: "not-an-email", Name: "Ada", DOB: "1990-12-10"}, true},
		{"missing name", signupInput{Email: "ada@example.com", DOB: "1990-12-10"}, true},
		{"bad dob", signupInput{Email: "ada@example.com", Name: "Ada", DOB: "12/10/1990"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStorageDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	persistent, ephemeral, err := storageDirs()

	require.NoError(t, err)
	assert.Contains(t, persistent, "notes-auth")
	assert.Contains(t, ephemeral, "notes-auth-session")
	assert.NotEqual(t, persistent, ephemeral)
}
