package switchbank

import (
	"strings"
	"testing"
)

func TestSettingsBinary(t *testing.T) {
	s := Settings{Function: [Slots]Function{
		FunctionMCode, FunctionSpindleActive, FunctionCoolantMistActive, FunctionCoolantFloodActive,
	}}

	data, err := s.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if len(data) != RecordSize || data[0] != 0 || data[3] != 3 {
		t.Errorf("Expected one byte per slot [0 1 2 3], got %v", data)
	}
}

func TestSettingsUnmarshalInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte{0, 1}},
		{"long", []byte{0, 1, 2, 3, 0}},
		{"bad tag", []byte{0, 4, 0, 0}},
		{"erased", []byte{0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{Function: [Slots]Function{1, 1, 1, 1}}
			if err := s.UnmarshalBinary(tt.data); err != ErrCorruptRecord {
				t.Errorf("Expected ErrCorruptRecord, got %v", err)
			}
			if s.Function != [Slots]Function{1, 1, 1, 1} {
				t.Errorf("Expected settings untouched, got %v", s.Function)
			}
		})
	}
}

func TestFunctionString(t *testing.T) {
	tests := []struct {
		fn       Function
		expected string
	}{
		{FunctionMCode, "MCode"},
		{FunctionSpindleActive, "SpindleActive"},
		{FunctionCoolantMistActive, "CoolantMistActive"},
		{FunctionCoolantFloodActive, "CoolantFloodActive"},
		{Function(9), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.fn.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
	if Function(4).Valid() {
		t.Error("Expected 4 to be invalid")
	}
}

func TestFunctionOptionsOrder(t *testing.T) {
	labels := strings.Split(FunctionOptions, ",")
	if len(labels) != int(functionCount) {
		t.Fatalf("Expected %d labels, got %d", functionCount, len(labels))
	}

	tests := []struct {
		fn    Function
		mcode string
	}{
		{FunctionMCode, "M62"},
		{FunctionSpindleActive, "M3"},
		{FunctionCoolantMistActive, "M7"},
		{FunctionCoolantFloodActive, "M8"},
	}

	for _, tt := range tests {
		if !strings.Contains(labels[tt.fn], tt.mcode) {
			t.Errorf("Expected label %d to mention %s, got %q", tt.fn, tt.mcode, labels[tt.fn])
		}
	}
}
