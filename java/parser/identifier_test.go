package parser

import (
	"errors"
	"testing"
)

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		level SourceLevel
		valid bool
	}{
		{"foo", Java8, true},
		{"$bar_1", Java8, true},
		{"größe", Java8, true},
		{"_", Java8, true},
		{"_", Java9, false},
		{"__", Java9, true},
		{"enum", Java4, true},
		{"enum", Java5, false},
		{"class", Java8, false},
		{"true", Java8, false},
		{"record", Java21, true},
		{"1abc", Java8, false},
		{"a-b", Java8, false},
		{"", Java8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name+"@"+tt.level.String(), func(t *testing.T) {
			err := IsIdentifier(tt.name, tt.level)
			if (err == nil) != tt.valid {
				t.Errorf("IsIdentifier(%q, %v) = %v, want valid=%v", tt.name, tt.level, err, tt.valid)
			}
			var invalid *InvalidInputError
			if err != nil && !errors.As(err, &invalid) {
				t.Errorf("error %T is not an *InvalidInputError", err)
			}
		})
	}
}

func TestValidatePackageName(t *testing.T) {
	valid := []string{"java.util", "com.example.app", "p"}
	for _, name := range valid {
		if err := ValidatePackageName(name, Java17); err != nil {
			t.Errorf("ValidatePackageName(%q) = %v", name, err)
		}
	}
	invalid := []string{"", "java..util", ".java", "java.", "com.class.x", "com.1x"}
	for _, name := range invalid {
		if err := ValidatePackageName(name, Java17); err == nil {
			t.Errorf("ValidatePackageName(%q) succeeded, want error", name)
		}
	}
	if err := ValidateTypeName("java.util.Map", Java17); err != nil {
		t.Errorf("ValidateTypeName = %v", err)
	}
}
