package model

import (
	"strings"
	"testing"
)

func TestDecodeContributors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLen   int
		wantFirst string
		wantErr   bool
	}{
		{
			name:      "bare array",
			input:     `[{"username":"a","total_points":10},{"username":"b"}]`,
			wantLen:   2,
			wantFirst: "a",
		},
		{
			name:      "envelope",
			input:     `{"contributors":[{"username":"octo"}]}`,
			wantLen:   1,
			wantFirst: "octo",
		},
		{name: "empty document", input: "   ", wantLen: 0},
		{name: "json null", input: "null", wantLen: 0},
		{name: "envelope without list", input: `{}`, wantLen: 0},
		{name: "garbage", input: `[{"username":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeContributors(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("DecodeContributors() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeContributors() error = %v", err)
			}
			if got == nil {
				t.Fatal("DecodeContributors() returned nil slice, want empty")
			}
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantFirst != "" && got[0].Username != tt.wantFirst {
				t.Errorf("first username = %q, want %q", got[0].Username, tt.wantFirst)
			}
		})
	}
}

func TestDecodeContributors_NullFieldsBecomeZero(t *testing.T) {
	input := `[{"username":"a","name":null,"total_points":null,"activity_breakdown":null,"daily_activity":null}]`

	got, err := DecodeContributors(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeContributors() error = %v", err)
	}

	c := got[0]
	if c.TotalPoints != 0 {
		t.Errorf("TotalPoints = %d, want 0", c.TotalPoints)
	}
	if c.ActiveDays() != 0 {
		t.Errorf("ActiveDays() = %d, want 0", c.ActiveDays())
	}
	if c.DisplayName() != "a" {
		t.Errorf("DisplayName() = %q, want username fallback", c.DisplayName())
	}
}

func TestDisplayName_PrefersName(t *testing.T) {
	c := Contributor{Username: "octo", Name: "Octo Cat"}
	if c.DisplayName() != "Octo Cat" {
		t.Errorf("DisplayName() = %q, want %q", c.DisplayName(), "Octo Cat")
	}
}
