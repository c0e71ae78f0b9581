package errors

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateBrandID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "mckinsey", false},
		{"valid mixed case", "McKinsey", false},
		{"valid with dash", "acme-corp", false},
		{"valid with underscore", "acme_corp", false},
		{"surrounding spaces", "  ibm ", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 65), true},
		{"path traversal", "../ibm", true},
		{"comma", "ibm,apple", true},
		{"null byte", "ibm\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBrandID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBrandID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocxPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "report.docx", false},
		{"valid upper ext", "REPORT.DOCX", false},
		{"valid nested", "out/variants/report_ibm.docx", false},

		{"empty", "", true},
		{"wrong ext", "report.doc", true},
		{"no ext", "report", true},
		{"control char", "rep\x01ort.docx", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocxPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocxPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "report.docx")

	tests := []struct {
		name    string
		output  string
		wantErr bool
	}{
		{"different file", filepath.Join(dir, "report_ibm.docx"), false},
		{"same file", input, true},
		{"same file unclean", filepath.Join(dir, "sub", "..", "report.docx"), true},
		{"not docx", filepath.Join(dir, "report.pdf"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.output, input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.output, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("expected INVALID_PATH, got %v", GetCode(err))
			}
		})
	}
}
